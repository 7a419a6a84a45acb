package http

import (
	"context"

	"github.com/pinmark/pinmark-backend/internal/shares/domain"
)

type shareService interface {
	Invite(ctx context.Context, userID, projectID, username string) (*domain.Share, error)
	Respond(ctx context.Context, userID, shareID string, accept bool) (*domain.Share, error)
	Remove(ctx context.Context, userID, shareID string) error
	ListForProject(ctx context.Context, userID, projectID string) ([]domain.Share, error)
	ListIncoming(ctx context.Context, userID string) ([]domain.Share, error)
}

// Handler bundles the dependencies for share endpoints.
type Handler struct {
	svc shareService
}

func New(svc shareService) *Handler {
	return &Handler{svc: svc}
}
