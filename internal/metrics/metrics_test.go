package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordObjectDelete(t *testing.T) {
	okBefore := testutil.ToFloat64(objectDeletes.WithLabelValues("ok"))
	failedBefore := testutil.ToFloat64(objectDeletes.WithLabelValues("failed"))

	RecordObjectDelete(nil)
	RecordObjectDelete(errors.New("boom"))
	RecordObjectDelete(errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(objectDeletes.WithLabelValues("ok")))
	assert.Equal(t, failedBefore+2, testutil.ToFloat64(objectDeletes.WithLabelValues("failed")))
}

func TestRequestStarted(t *testing.T) {
	done := RequestStarted("get")
	assert.Equal(t, float64(1), testutil.ToFloat64(httpInFlight))
	done("/projects/:id", 200)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/projects/:id", "200")))
}

func TestHandler(t *testing.T) {
	RecordUploadURL()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pinmark_storage_upload_urls_issued_total")
}
