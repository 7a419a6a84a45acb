package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinmark/pinmark-backend/internal/apperr"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims(exp time.Time) platformClaims {
	return platformClaims{
		Email: "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestJWTVerifier_Valid(t *testing.T) {
	v := NewJWTVerifier(testSecret, "authenticated")
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	id, err := v.Verify(context.Background(), signToken(t, testSecret, validClaims(exp)))
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.True(t, id.ExpiresAt.Equal(exp))
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := NewJWTVerifier(testSecret, "authenticated")

	cases := map[string]string{
		"wrong secret": signToken(t, "other", validClaims(time.Now().Add(time.Hour))),
		"expired":      signToken(t, testSecret, validClaims(time.Now().Add(-time.Minute))),
		"garbage":      "not.a.token",
	}

	wrongAud := validClaims(time.Now().Add(time.Hour))
	wrongAud.Audience = jwt.ClaimStrings{"anon"}
	cases["wrong audience"] = signToken(t, testSecret, wrongAud)

	noSub := validClaims(time.Now().Add(time.Hour))
	noSub.Subject = ""
	cases["no subject"] = signToken(t, testSecret, noSub)

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), token)
			assert.ErrorIs(t, err, apperr.ErrUnauthorized)
		})
	}
}
