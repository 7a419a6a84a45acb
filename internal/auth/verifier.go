package auth

import (
	"context"
	"time"
)

// Identity is what a verified bearer token says about its holder.
type Identity struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Verifier validates a bearer token.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
