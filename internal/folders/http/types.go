package http

import (
	"context"

	"github.com/pinmark/pinmark-backend/internal/folders/domain"
)

type folderService interface {
	Create(ctx context.Context, userID, projectID, parentID, name string) (*domain.Folder, error)
	List(ctx context.Context, userID, projectID string, parentID *string) ([]domain.Folder, error)
	Update(ctx context.Context, userID, folderID string, upd domain.Update) (*domain.Folder, error)
	Path(ctx context.Context, userID, folderID string) ([]domain.Folder, error)
	Delete(ctx context.Context, userID, folderID string) (*domain.DeleteReport, error)
}

// Handler bundles the dependencies for folder endpoints.
type Handler struct {
	svc folderService
}

func New(svc folderService) *Handler {
	return &Handler{svc: svc}
}
