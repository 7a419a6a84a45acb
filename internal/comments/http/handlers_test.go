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
	"github.com/pinmark/pinmark-backend/internal/comments/domain"
)

type stubComments struct {
	parent *string
}

func (s *stubComments) Create(_ context.Context, userID, imageID string, parentID *string, body string) (*domain.Comment, error) {
	if body == "" {
		return nil, apperr.ErrInvalidInput
	}
	s.parent = parentID
	return &domain.Comment{ID: "c1", ImageID: imageID, UserID: userID, ParentID: parentID, Body: body}, nil
}

func (s *stubComments) List(_ context.Context, _, imageID string) ([]*domain.Comment, error) {
	return []*domain.Comment{{ID: "c1", ImageID: imageID, Replies: []*domain.Comment{{ID: "c2"}}}}, nil
}

func (s *stubComments) Update(_ context.Context, userID, commentID, body string) (*domain.Comment, error) {
	if userID != "u1" {
		return nil, apperr.ErrForbidden
	}
	return &domain.Comment{ID: commentID, Body: body}, nil
}

func (s *stubComments) Delete(_ context.Context, _, commentID string) error {
	if commentID == "missing" {
		return apperr.ErrNotFound
	}
	return nil
}

func setupRouter(svc commentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("", func(c *gin.Context) { c.Set(auth.CtxUserID, "u1") })
	New(svc).Register(g)
	return r
}

func TestCommentHandlers(t *testing.T) {
	svc := &stubComments{}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/images/i1/comments", strings.NewReader(`{"body":"nice","parent_id":"c0"}`)))
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.parent)
	assert.Equal(t, "c0", *svc.parent)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/images/i1/comments", strings.NewReader(`{"body":""}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/i1/comments", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"replies":[{"id":"c2"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/comments/c1", strings.NewReader(`{"body":"edited"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/comments/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
