package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinmark/pinmark-backend/internal/access"
	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/comments/domain"
	ndomain "github.com/pinmark/pinmark-backend/internal/notifications/domain"
)

type memComments struct {
	rows  map[string]*domain.Comment
	order []string
	seq   int
}

func newMemComments() *memComments {
	return &memComments{rows: map[string]*domain.Comment{}}
}

func (m *memComments) Create(_ context.Context, imageID, userID string, parentID *string, body string) (*domain.Comment, error) {
	m.seq++
	c := &domain.Comment{
		ID:        fmt.Sprintf("c%d", m.seq),
		ImageID:   imageID,
		UserID:    userID,
		ParentID:  parentID,
		Body:      body,
		CreatedAt: time.Unix(int64(m.seq), 0),
	}
	m.rows[c.ID] = c
	m.order = append(m.order, c.ID)
	cp := *c
	return &cp, nil
}

func (m *memComments) Get(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memComments) ListByImage(_ context.Context, imageID string) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, id := range m.order {
		if c, ok := m.rows[id]; ok && c.ImageID == imageID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memComments) UpdateBody(_ context.Context, id, body string) (*domain.Comment, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	c.Body = body
	cp := *c
	return &cp, nil
}

func (m *memComments) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type imageProjects map[string]string

func (m imageProjects) ProjectOf(_ context.Context, imageID string) (string, error) {
	p, ok := m[imageID]
	if !ok {
		return "", apperr.ErrNotFound
	}
	return p, nil
}

type roleMap map[string]access.Role

func (r roleMap) ProjectRole(_ context.Context, userID, _ string) (access.Role, error) {
	if role, ok := r[userID]; ok {
		return role, nil
	}
	return access.RoleNone, nil
}

type recordNotifier struct {
	got []ndomain.Activity
}

func (n *recordNotifier) NotifyActivity(_ context.Context, a ndomain.Activity) {
	n.got = append(n.got, a)
}

func newCommentService() (*CommentService, *memComments, *recordNotifier) {
	repo := newMemComments()
	notifier := &recordNotifier{}
	roles := roleMap{"owner": access.RoleOwner, "alice": access.RoleCollaborator, "bob": access.RoleCollaborator, "guest": access.RoleViewer}
	images := imageProjects{"i1": "p1", "i2": "p1"}
	return NewCommentService(repo, roles, images, notifier), repo, notifier
}

func ptr(s string) *string { return &s }

func TestCreate_NotifiesAndThreads(t *testing.T) {
	svc, _, notifier := newCommentService()
	ctx := context.Background()

	root, err := svc.Create(ctx, "alice", "i1", nil, "  the logo is off  ")
	require.NoError(t, err)
	assert.Equal(t, "the logo is off", root.Body)

	_, err = svc.Create(ctx, "bob", "i1", ptr(root.ID), "fixed")
	require.NoError(t, err)

	require.Len(t, notifier.got, 2)
	assert.Equal(t, ndomain.Activity{Kind: ndomain.KindComment, ImageID: "i1", ActorID: "alice"}, notifier.got[0])

	threads, err := svc.List(ctx, "guest", "i1")
	require.NoError(t, err)
	require.Len(t, threads, 1)
	require.Len(t, threads[0].Replies, 1)
	assert.Equal(t, "fixed", threads[0].Replies[0].Body)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, notifier := newCommentService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "i1", nil, "   ")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Create(ctx, "guest", "i1", nil, "hello")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Create(ctx, "stranger", "i1", nil, "hello")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	other, err := svc.Create(ctx, "alice", "i2", nil, "on another image")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "alice", "i1", ptr(other.ID), "reply")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Create(ctx, "alice", "i1", ptr("missing"), "reply")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	assert.Len(t, notifier.got, 1)
}

func TestUpdate_AuthorOnly(t *testing.T) {
	svc, _, _ := newCommentService()
	ctx := context.Background()

	c, err := svc.Create(ctx, "alice", "i1", nil, "draft")
	require.NoError(t, err)

	_, err = svc.Update(ctx, "owner", c.ID, "edited by owner")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	out, err := svc.Update(ctx, "alice", c.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", out.Body)
}

func TestDelete_AuthorOrOwner(t *testing.T) {
	svc, repo, _ := newCommentService()
	ctx := context.Background()

	c1, _ := svc.Create(ctx, "alice", "i1", nil, "one")
	c2, _ := svc.Create(ctx, "alice", "i1", nil, "two")

	assert.ErrorIs(t, svc.Delete(ctx, "bob", c1.ID), apperr.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, "alice", c1.ID))
	require.NoError(t, svc.Delete(ctx, "owner", c2.ID))
	assert.Empty(t, repo.rows)
}
