package bootstrap

import (
	"context"
	"fmt"

	"github.com/pinmark/pinmark-backend/config"
	"github.com/pinmark/pinmark-backend/internal/auth"
)

// NewVerifier builds the token verifier for the configured provider, wrapped in a short-lived cache.
func NewVerifier(ctx context.Context, cfg *config.Config) (auth.Verifier, error) {
	var v auth.Verifier
	switch cfg.Auth.Provider {
	case config.AuthProviderJWT:
		v = auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience)
	case config.AuthProviderFirebase:
		client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
		v = auth.NewFirebaseVerifier(client)
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}

	if cfg.Auth.CacheTTL > 0 {
		v = auth.NewCachingVerifier(v, cfg.Auth.CacheTTL)
	}
	return v, nil
}
