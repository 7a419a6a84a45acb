package http

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinmark/pinmark-backend/internal/api/http/respond"
)

// maxWebhookBytes bounds the request body Stripe may send.
const maxWebhookBytes = 65536

type webhookHandler interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type Handler struct {
	svc webhookHandler
}

func New(svc webhookHandler) *Handler {
	return &Handler{svc: svc}
}

// Register attaches the public Stripe webhook route.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.stripeWebhook)
}

func (h *Handler) stripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		respond.BadRequest(c, "cannot read body")
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"received": true})
}
