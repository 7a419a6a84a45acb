package respond

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pinmark/pinmark-backend/internal/apperr"
)

func run(t *testing.T, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestError_KnownKind(t *testing.T) {
	w := run(t, func(c *gin.Context) {
		Error(c, fmt.Errorf("project: %w", apperr.ErrNotFound))
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"project: not found"}`, w.Body.String())
}

func TestError_InternalIsHidden(t *testing.T) {
	w := run(t, func(c *gin.Context) {
		Error(c, errors.New("pq: connection refused"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"internal error"}`, w.Body.String())
}

func TestOK(t *testing.T) {
	w := run(t, func(c *gin.Context) {
		OK(c, http.StatusCreated, gin.H{"id": "1"})
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"ok":true,"id":"1"}`, w.Body.String())
}
