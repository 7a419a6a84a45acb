package service

import (
	"context"
	"fmt"

	"github.com/pinmark/pinmark-backend/internal/access"
	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/marks/domain"
	ndomain "github.com/pinmark/pinmark-backend/internal/notifications/domain"
)

type MarkStore interface {
	Create(ctx context.Context, m domain.Mark) (*domain.Mark, error)
	Get(ctx context.Context, id string) (*domain.Mark, error)
	ListByImage(ctx context.Context, imageID string) ([]domain.Mark, error)
	Update(ctx context.Context, m domain.Mark) (*domain.Mark, error)
	Delete(ctx context.Context, id string) error
}

type ImageLocator interface {
	ProjectOf(ctx context.Context, imageID string) (string, error)
}

type ActivityNotifier interface {
	NotifyActivity(ctx context.Context, a ndomain.Activity)
}

// MarkService manages positional annotations on images
type MarkService struct {
	repo     MarkStore
	roles    access.Roler
	images   ImageLocator
	notifier ActivityNotifier
}

func NewMarkService(repo MarkStore, roles access.Roler, images ImageLocator, notifier ActivityNotifier) *MarkService {
	return &MarkService{repo: repo, roles: roles, images: images, notifier: notifier}
}

func (s *MarkService) Create(ctx context.Context, userID, imageID string, m domain.Mark) (*domain.Mark, error) {
	if err := domain.Normalize(&m); err != nil {
		return nil, err
	}

	projectID, err := s.images.ProjectOf(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if _, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanContribute); err != nil {
		return nil, err
	}

	m.ImageID = imageID
	m.UserID = userID
	out, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyActivity(ctx, ndomain.Activity{Kind: ndomain.KindMark, ImageID: imageID, ActorID: userID})
	return out, nil
}

func (s *MarkService) List(ctx context.Context, userID, imageID string) ([]domain.Mark, error) {
	projectID, err := s.images.ProjectOf(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if _, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanView); err != nil {
		return nil, err
	}
	return s.repo.ListByImage(ctx, imageID)
}

// Update changes a mark. Only its author may do so, and the result is validated as a whole.
func (s *MarkService) Update(ctx context.Context, userID, markID string, upd domain.Update) (*domain.Mark, error) {
	m, _, err := s.load(ctx, userID, markID)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, fmt.Errorf("only the author can edit a mark: %w", apperr.ErrForbidden)
	}

	upd.Apply(m)
	if err := domain.Normalize(m); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, *m)
}

func (s *MarkService) Delete(ctx context.Context, userID, markID string) error {
	m, role, err := s.load(ctx, userID, markID)
	if err != nil {
		return err
	}
	if m.UserID != userID && !role.CanManage() {
		return fmt.Errorf("only the author or project owner can delete a mark: %w", apperr.ErrForbidden)
	}
	return s.repo.Delete(ctx, markID)
}

func (s *MarkService) load(ctx context.Context, userID, markID string) (*domain.Mark, access.Role, error) {
	m, err := s.repo.Get(ctx, markID)
	if err != nil {
		return nil, access.RoleNone, err
	}
	projectID, err := s.images.ProjectOf(ctx, m.ImageID)
	if err != nil {
		return nil, access.RoleNone, err
	}
	role, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanView)
	if err != nil {
		return nil, access.RoleNone, err
	}
	return m, role, nil
}
