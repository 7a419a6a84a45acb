package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/internal/access"
	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/logging"
	"github.com/pinmark/pinmark-backend/internal/metrics"
	"github.com/pinmark/pinmark-backend/internal/notifications/domain"
	"github.com/pinmark/pinmark-backend/internal/notifications/mailer"
)

const backgroundTimeout = 30 * time.Second

type NotificationStore interface {
	ActivityContext(ctx context.Context, imageID string) (*domain.ActivityContext, error)
	Recipients(ctx context.Context, projectID, excludeUserID string) ([]domain.Recipient, error)
	RecentlyNotified(ctx context.Context, recipientIDs []string, imageID string, kind domain.Kind, since time.Time) (map[string]bool, error)
	Log(ctx context.Context, entries []domain.LogEntry) error
	DisplayName(ctx context.Context, userID string) (string, error)
	ShareInvite(ctx context.Context, shareID string) (*domain.ShareInvite, error)
}

// NotificationService emails project members about activity and invitations
type NotificationService struct {
	store    NotificationStore
	roles    access.Roler
	mailer   mailer.Mailer
	render   *mailer.Renderer
	cooldown time.Duration

	now   func() time.Time
	async func(func())
}

func NewNotificationService(store NotificationStore, roles access.Roler, m mailer.Mailer, render *mailer.Renderer, cooldown time.Duration) *NotificationService {
	return &NotificationService{
		store:    store,
		roles:    roles,
		mailer:   m,
		render:   render,
		cooldown: cooldown,
		now:      time.Now,
		async:    func(f func()) { go f() },
	}
}

// NotifyActivity sends activity emails in the background. Failures are logged only.
func (s *NotificationService) NotifyActivity(ctx context.Context, a domain.Activity) {
	bg := context.WithoutCancel(ctx)
	s.async(func() {
		ctx, cancel := context.WithTimeout(bg, backgroundTimeout)
		defer cancel()

		res, err := s.SendActivity(ctx, a)
		log := logging.FromContext(ctx)
		if err != nil {
			log.Warn("activity notification failed",
				zap.String("kind", string(a.Kind)), zap.String("image_id", a.ImageID), zap.Error(err))
			return
		}
		log.Debug("activity notification done",
			zap.String("kind", string(a.Kind)), zap.String("image_id", a.ImageID),
			zap.Int("sent", res.Sent), zap.Int("skipped", res.Skipped), zap.Int("failed", res.Failed))
	})
}

// SendActivityFor is the explicit trigger: the caller must be able to contribute to the image's project.
func (s *NotificationService) SendActivityFor(ctx context.Context, userID, imageID string, kind domain.Kind) (*domain.Result, error) {
	if !kind.IsActivity() {
		return nil, fmt.Errorf("unknown notification type %q: %w", kind, apperr.ErrInvalidInput)
	}
	ac, err := s.store.ActivityContext(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if _, err := access.Require(ctx, s.roles, userID, ac.ProjectID, access.Role.CanContribute); err != nil {
		return nil, err
	}
	return s.send(ctx, domain.Activity{Kind: kind, ImageID: imageID, ActorID: userID}, ac)
}

// SendActivity emails the owner and accepted collaborators except the actor. Recipients
// already emailed about the same image and kind within the cooldown are skipped.
// Every recipient gets a notification_logs row.
func (s *NotificationService) SendActivity(ctx context.Context, a domain.Activity) (*domain.Result, error) {
	ac, err := s.store.ActivityContext(ctx, a.ImageID)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, a, ac)
}

func (s *NotificationService) send(ctx context.Context, a domain.Activity, ac *domain.ActivityContext) (*domain.Result, error) {
	recipients, err := s.store.Recipients(ctx, ac.ProjectID, a.ActorID)
	if err != nil {
		return nil, err
	}
	res := &domain.Result{}
	if len(recipients) == 0 {
		return res, nil
	}

	ids := make([]string, len(recipients))
	for i, r := range recipients {
		ids[i] = r.UserID
	}
	recent, err := s.store.RecentlyNotified(ctx, ids, a.ImageID, a.Kind, s.now().Add(-s.cooldown))
	if err != nil {
		return nil, err
	}

	actor, err := s.store.DisplayName(ctx, a.ActorID)
	if err != nil {
		actor = "Someone"
	}

	log := logging.FromContext(ctx)
	imageID := a.ImageID
	entries := make([]domain.LogEntry, 0, len(recipients))
	for _, r := range recipients {
		entry := domain.LogEntry{RecipientID: r.UserID, ProjectID: ac.ProjectID, ImageID: &imageID, Kind: a.Kind}

		switch {
		case recent[r.UserID]:
			entry.Status = domain.StatusSkipped
			entry.Error = "cooldown"
			res.Skipped++
		case r.Email == "":
			entry.Status = domain.StatusSkipped
			entry.Error = "no email address"
			res.Skipped++
		default:
			if err := s.deliver(ctx, r, actor, a.Kind, *ac); err != nil {
				log.Warn("activity email failed", zap.String("recipient_id", r.UserID), zap.Error(err))
				entry.Status = domain.StatusFailed
				entry.Error = err.Error()
				res.Failed++
			} else {
				entry.Status = domain.StatusSent
				res.Sent++
			}
		}

		metrics.RecordNotification(string(a.Kind), string(entry.Status))
		entries = append(entries, entry)
	}

	if err := s.store.Log(ctx, entries); err != nil {
		log.Error("write notification logs failed", zap.Error(err))
	}
	return res, nil
}

func (s *NotificationService) deliver(ctx context.Context, r domain.Recipient, actor string, kind domain.Kind, ac domain.ActivityContext) error {
	msg, err := s.render.Activity(r, actor, kind, ac)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

// SendShareInvite emails the invitee of a share and logs the outcome.
func (s *NotificationService) SendShareInvite(ctx context.Context, shareID string) error {
	si, err := s.store.ShareInvite(ctx, shareID)
	if err != nil {
		return err
	}

	entry := domain.LogEntry{RecipientID: si.InviteeID, ProjectID: si.ProjectID, Kind: domain.KindShareInvite, Status: domain.StatusSent}
	sendErr := s.sendInvite(ctx, *si)
	if sendErr != nil {
		entry.Status = domain.StatusFailed
		entry.Error = sendErr.Error()
	}
	metrics.RecordNotification(string(domain.KindShareInvite), string(entry.Status))

	if err := s.store.Log(ctx, []domain.LogEntry{entry}); err != nil {
		logging.FromContext(ctx).Error("write notification log failed", zap.String("share_id", shareID), zap.Error(err))
	}
	return sendErr
}

func (s *NotificationService) sendInvite(ctx context.Context, si domain.ShareInvite) error {
	if si.InviteeEmail == "" {
		return fmt.Errorf("invitee has no email address: %w", apperr.ErrInvalidInput)
	}
	msg, err := s.render.ShareInvite(si)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}
