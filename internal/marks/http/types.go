package http

import (
	"context"

	"github.com/pinmark/pinmark-backend/internal/marks/domain"
)

type markService interface {
	Create(ctx context.Context, userID, imageID string, m domain.Mark) (*domain.Mark, error)
	List(ctx context.Context, userID, imageID string) ([]domain.Mark, error)
	Update(ctx context.Context, userID, markID string, upd domain.Update) (*domain.Mark, error)
	Delete(ctx context.Context, userID, markID string) error
}

type Handler struct {
	svc markService
}

func New(svc markService) *Handler {
	return &Handler{svc: svc}
}
