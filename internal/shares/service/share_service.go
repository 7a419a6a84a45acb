package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/internal/access"
	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/logging"
	pdomain "github.com/pinmark/pinmark-backend/internal/profiles/domain"
	"github.com/pinmark/pinmark-backend/internal/shares/domain"
)

const inviteEmailTimeout = 15 * time.Second

type ShareStore interface {
	Invite(ctx context.Context, projectID, inviterID, inviteeID string) (*domain.Share, error)
	Get(ctx context.Context, id string) (*domain.Share, error)
	ListForProject(ctx context.Context, projectID string) ([]domain.Share, error)
	ListIncoming(ctx context.Context, userID string) ([]domain.Share, error)
	Respond(ctx context.Context, id string, status domain.Status) (*domain.Share, error)
	Delete(ctx context.Context, id string) error
}

type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*pdomain.Profile, error)
}

// InviteMailer delivers the share invitation email.
type InviteMailer interface {
	SendShareInvite(ctx context.Context, shareID string) error
}

// ShareService manages project invitations and collaborator access
type ShareService struct {
	repo   ShareStore
	roles  access.Roler
	users  UserFinder
	mailer InviteMailer

	async func(func())
}

func NewShareService(repo ShareStore, roles access.Roler, users UserFinder, mailer InviteMailer) *ShareService {
	return &ShareService{
		repo:   repo,
		roles:  roles,
		users:  users,
		mailer: mailer,
		async:  func(f func()) { go f() },
	}
}

// Invite shares a project with the user behind username and emails them in the background.
func (s *ShareService) Invite(ctx context.Context, userID, projectID, username string) (*domain.Share, error) {
	if _, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanManage); err != nil {
		return nil, err
	}

	invitee, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("no user named %q: %w", username, apperr.ErrNotFound)
		}
		return nil, err
	}
	if invitee.UserID == userID {
		return nil, fmt.Errorf("cannot invite yourself: %w", apperr.ErrInvalidInput)
	}

	sh, err := s.repo.Invite(ctx, projectID, userID, invitee.UserID)
	if err != nil {
		return nil, err
	}
	sh.InviteeUsername = invitee.Username

	s.emailLater(ctx, sh.ID)
	return sh, nil
}

// ResendInvite emails the invitation again. Only the inviter may ask for it.
func (s *ShareService) ResendInvite(ctx context.Context, userID, shareID string) error {
	sh, err := s.repo.Get(ctx, shareID)
	if err != nil {
		return err
	}
	if sh.InviterID != userID {
		return fmt.Errorf("only the inviter can send this invitation: %w", apperr.ErrForbidden)
	}
	if sh.Status != domain.StatusPending {
		return fmt.Errorf("share is %s: %w", sh.Status, apperr.ErrConflict)
	}
	return s.mailer.SendShareInvite(ctx, shareID)
}

// Respond accepts or rejects a pending invitation addressed to userID.
func (s *ShareService) Respond(ctx context.Context, userID, shareID string, accept bool) (*domain.Share, error) {
	sh, err := s.repo.Get(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if sh.InviteeID != userID {
		return nil, fmt.Errorf("share: %w", apperr.ErrNotFound)
	}
	if sh.Status != domain.StatusPending {
		return nil, fmt.Errorf("share was already answered: %w", apperr.ErrConflict)
	}

	status := domain.StatusRejected
	if accept {
		status = domain.StatusAccepted
	}
	return s.repo.Respond(ctx, shareID, status)
}

// Remove revokes a share as the project owner, or leaves it as the invitee.
func (s *ShareService) Remove(ctx context.Context, userID, shareID string) error {
	sh, err := s.repo.Get(ctx, shareID)
	if err != nil {
		return err
	}
	if sh.InviteeID != userID {
		if _, err := access.Require(ctx, s.roles, userID, sh.ProjectID, access.Role.CanManage); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, shareID)
}

func (s *ShareService) ListForProject(ctx context.Context, userID, projectID string) ([]domain.Share, error) {
	if _, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanManage); err != nil {
		return nil, err
	}
	return s.repo.ListForProject(ctx, projectID)
}

func (s *ShareService) ListIncoming(ctx context.Context, userID string) ([]domain.Share, error) {
	return s.repo.ListIncoming(ctx, userID)
}

func (s *ShareService) emailLater(ctx context.Context, shareID string) {
	bg := context.WithoutCancel(ctx)
	s.async(func() {
		ctx, cancel := context.WithTimeout(bg, inviteEmailTimeout)
		defer cancel()
		if err := s.mailer.SendShareInvite(ctx, shareID); err != nil {
			logging.FromContext(ctx).Warn("share invite email failed", zap.String("share_id", shareID), zap.Error(err))
		}
	})
}
