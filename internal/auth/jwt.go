package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pinmark/pinmark-backend/internal/apperr"
)

type platformClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 access tokens issued by the hosted auth platform.
type JWTVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTVerifier(secret, audience string) *JWTVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &JWTVerifier{secret: []byte(secret), parser: jwt.NewParser(opts...)}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	var claims platformClaims
	_, err := v.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify token: %v: %w", err, apperr.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject: %w", apperr.ErrUnauthorized)
	}

	id := &Identity{UserID: claims.Subject, Email: claims.Email}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
