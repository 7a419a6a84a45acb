package http

import (
	"context"

	"github.com/pinmark/pinmark-backend/internal/images/domain"
)

type imageService interface {
	Get(ctx context.Context, userID, imageID string) (*domain.Image, error)
	List(ctx context.Context, userID, projectID, folderID string) ([]domain.Image, error)
	Update(ctx context.Context, userID, imageID string, upd domain.Update) (*domain.Image, error)
	DeleteImage(ctx context.Context, userID, imageID string) error
}

// Handler bundles the dependencies for image endpoints.
type Handler struct {
	svc imageService
}

func New(svc imageService) *Handler {
	return &Handler{svc: svc}
}
