package http

import (
	"context"

	"github.com/pinmark/pinmark-backend/internal/comments/domain"
)

type commentService interface {
	Create(ctx context.Context, userID, imageID string, parentID *string, body string) (*domain.Comment, error)
	List(ctx context.Context, userID, imageID string) ([]*domain.Comment, error)
	Update(ctx context.Context, userID, commentID, body string) (*domain.Comment, error)
	Delete(ctx context.Context, userID, commentID string) error
}

// Handler bundles the dependencies for comment endpoints.
type Handler struct {
	svc commentService
}

func New(svc commentService) *Handler {
	return &Handler{svc: svc}
}
