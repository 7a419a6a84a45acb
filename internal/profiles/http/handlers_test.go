package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/auth"
	"github.com/pinmark/pinmark-backend/internal/profiles/domain"
)

type stubProfiles struct {
	profile  domain.Profile
	searched string
}

func (s *stubProfiles) Get(_ context.Context, userID string) (*domain.Profile, error) {
	p := s.profile
	p.UserID = userID
	return &p, nil
}

func (s *stubProfiles) Quota(context.Context, string) (*domain.Quota, error) {
	return &domain.Quota{Plan: "free", Used: 5, Limit: 10}, nil
}

func (s *stubProfiles) UpdateUsername(_ context.Context, _ string, username string) (*domain.Profile, error) {
	if username == "taken" {
		return nil, apperr.ErrConflict
	}
	p := s.profile
	p.Username = &username
	return &p, nil
}

func (s *stubProfiles) SearchByUsername(_ context.Context, prefix string) ([]domain.Profile, error) {
	s.searched = prefix
	name := "ada"
	return []domain.Profile{{UserID: "u2", Username: &name, Email: "secret@example.com"}}, nil
}

func newRouter(svc profileService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("", func(c *gin.Context) { c.Set(auth.CtxUserID, "u1") })
	New(svc).Register(g)
	return r
}

func TestMe(t *testing.T) {
	r := newRouter(&stubProfiles{profile: domain.Profile{Email: "u1@example.com", Plan: "free"}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
	assert.Contains(t, w.Body.String(), `"limit":10`)
}

func TestUpdateMe(t *testing.T) {
	r := newRouter(&stubProfiles{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/me", strings.NewReader(`{"username":"ada"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/me", strings.NewReader(`{"username":"taken"}`)))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/me", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_HidesEmail(t *testing.T) {
	svc := &stubProfiles{}
	r := newRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profiles/search?q=ad", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ad", svc.searched)
	assert.Contains(t, w.Body.String(), `"username":"ada"`)
	assert.NotContains(t, w.Body.String(), "secret@example.com")
}
