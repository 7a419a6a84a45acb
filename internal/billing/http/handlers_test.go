package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pinmark/pinmark-backend/internal/apperr"
)

type stubWebhook struct {
	payload   string
	signature string
}

func (s *stubWebhook) HandleWebhook(_ context.Context, payload []byte, signature string) error {
	s.payload, s.signature = string(payload), signature
	if signature == "" {
		return apperr.ErrInvalidInput
	}
	return nil
}

func TestStripeWebhook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubWebhook{}
	r := gin.New()
	New(svc).Register(r.Group(""))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"id":"evt_1"}`, svc.payload)
	assert.Equal(t, "t=1,v1=abc", svc.signature)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
