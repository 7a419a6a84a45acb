package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pinmark/pinmark-backend/internal/access"
	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/comments/domain"
	ndomain "github.com/pinmark/pinmark-backend/internal/notifications/domain"
)

type CommentStore interface {
	Create(ctx context.Context, imageID, userID string, parentID *string, body string) (*domain.Comment, error)
	Get(ctx context.Context, id string) (*domain.Comment, error)
	ListByImage(ctx context.Context, imageID string) ([]domain.Comment, error)
	UpdateBody(ctx context.Context, id, body string) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

// ImageLocator resolves the project an image belongs to.
type ImageLocator interface {
	ProjectOf(ctx context.Context, imageID string) (string, error)
}

// ActivityNotifier must not block the caller.
type ActivityNotifier interface {
	NotifyActivity(ctx context.Context, a ndomain.Activity)
}

type CommentService struct {
	repo     CommentStore
	roles    access.Roler
	images   ImageLocator
	notifier ActivityNotifier
}

func NewCommentService(repo CommentStore, roles access.Roler, images ImageLocator, notifier ActivityNotifier) *CommentService {
	return &CommentService{repo: repo, roles: roles, images: images, notifier: notifier}
}

// Create adds a comment, or a reply when parentID is set. Replies must stay on the parent's image.
func (s *CommentService) Create(ctx context.Context, userID, imageID string, parentID *string, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if !domain.ValidBody(body) {
		return nil, fmt.Errorf("comment must be 1-%d characters: %w", domain.MaxBodyLen, apperr.ErrInvalidInput)
	}

	projectID, err := s.images.ProjectOf(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if _, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanContribute); err != nil {
		return nil, err
	}

	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if parentID != nil {
		parent, err := s.repo.Get(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("parent comment %s: %w", *parentID, apperr.ErrInvalidInput)
		}
		if parent.ImageID != imageID {
			return nil, fmt.Errorf("parent comment is on another image: %w", apperr.ErrInvalidInput)
		}
	}

	c, err := s.repo.Create(ctx, imageID, userID, parentID, body)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyActivity(ctx, ndomain.Activity{Kind: ndomain.KindComment, ImageID: imageID, ActorID: userID})
	return c, nil
}

// List returns the comment threads of an image ordered by creation.
func (s *CommentService) List(ctx context.Context, userID, imageID string) ([]*domain.Comment, error) {
	projectID, err := s.images.ProjectOf(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if _, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanView); err != nil {
		return nil, err
	}

	flat, err := s.repo.ListByImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	return domain.BuildThreads(flat), nil
}

func (s *CommentService) Update(ctx context.Context, userID, commentID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if !domain.ValidBody(body) {
		return nil, fmt.Errorf("comment must be 1-%d characters: %w", domain.MaxBodyLen, apperr.ErrInvalidInput)
	}

	c, _, err := s.load(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("only the author can edit a comment: %w", apperr.ErrForbidden)
	}
	return s.repo.UpdateBody(ctx, commentID, body)
}

// Delete removes a comment and its replies. Allowed for the author and the project owner.
func (s *CommentService) Delete(ctx context.Context, userID, commentID string) error {
	c, role, err := s.load(ctx, userID, commentID)
	if err != nil {
		return err
	}
	if c.UserID != userID && !role.CanManage() {
		return fmt.Errorf("only the author or project owner can delete a comment: %w", apperr.ErrForbidden)
	}
	return s.repo.Delete(ctx, commentID)
}

// load fetches a comment the caller can at least see, with the caller's role on its project.
func (s *CommentService) load(ctx context.Context, userID, commentID string) (*domain.Comment, access.Role, error) {
	c, err := s.repo.Get(ctx, commentID)
	if err != nil {
		return nil, access.RoleNone, err
	}
	projectID, err := s.images.ProjectOf(ctx, c.ImageID)
	if err != nil {
		return nil, access.RoleNone, err
	}
	role, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanView)
	if err != nil {
		return nil, access.RoleNone, err
	}
	return c, role, nil
}
