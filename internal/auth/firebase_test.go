package auth

import (
	"context"
	"errors"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinmark/pinmark-backend/config"
	"github.com/pinmark/pinmark-backend/internal/apperr"
)

type fakeIDTokens struct {
	token *fbauth.Token
	err   error
}

func (f fakeIDTokens) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return f.token, f.err
}

func TestFirebaseVerifier(t *testing.T) {
	v := &FirebaseVerifier{client: fakeIDTokens{token: &fbauth.Token{
		UID:     "fb-1",
		Expires: 1900000000,
		Claims:  map[string]interface{}{"email": "grace@example.com"},
	}}}

	id, err := v.Verify(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", id.UserID)
	assert.Equal(t, "grace@example.com", id.Email)
	assert.Equal(t, int64(1900000000), id.ExpiresAt.Unix())

	v = &FirebaseVerifier{client: fakeIDTokens{err: errors.New("expired")}}
	_, err = v.Verify(context.Background(), "t")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestInitializeFirebase_RequiresCredentials(t *testing.T) {
	_, err := InitializeFirebase(context.Background(), &config.FirebaseConfig{})
	assert.ErrorContains(t, err, "FIREBASE_CREDENTIALS_PATH")
}
