package http

import (
	"context"

	"github.com/pinmark/pinmark-backend/internal/projects/domain"
)

type projectService interface {
	Create(ctx context.Context, userID, name, description string, public bool) (*domain.Project, error)
	List(ctx context.Context, userID string) ([]domain.Project, error)
	Get(ctx context.Context, userID, projectID string) (*domain.Project, error)
	Update(ctx context.Context, userID, projectID string, upd domain.Update) (*domain.Project, error)
	Delete(ctx context.Context, userID, projectID string) (*domain.DeleteReport, error)
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc projectService
}

func New(svc projectService) *Handler {
	return &Handler{svc: svc}
}
