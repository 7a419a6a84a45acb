package http

import (
	"context"

	"github.com/pinmark/pinmark-backend/internal/profiles/domain"
)

type profileService interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Quota(ctx context.Context, userID string) (*domain.Quota, error)
	UpdateUsername(ctx context.Context, userID, username string) (*domain.Profile, error)
	SearchByUsername(ctx context.Context, prefix string) ([]domain.Profile, error)
}

// Handler bundles the dependencies for profile endpoints.
type Handler struct {
	svc profileService
}

func New(svc profileService) *Handler {
	return &Handler{svc: svc}
}

// publicProfile is what other users see in search results.
type publicProfile struct {
	UserID      string  `json:"user_id"`
	Username    *string `json:"username"`
	DisplayName *string `json:"display_name,omitempty"`
}
