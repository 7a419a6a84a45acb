package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/pinmark/pinmark-backend/internal/notifications/domain"
	"github.com/pinmark/pinmark-backend/internal/storage/postgres"
)

// NotificationRepository reads who to notify and records what was sent
type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// ActivityContext resolves the image, its project and the project owner.
func (r *NotificationRepository) ActivityContext(ctx context.Context, imageID string) (*domain.ActivityContext, error) {
	const q = `
SELECT i.id, i.name, p.id, p.name, p.owner_id
FROM images i
JOIN projects p ON p.id = i.project_id
WHERE i.id = $1`
	var ac domain.ActivityContext
	err := r.db.QueryRowContext(ctx, q, imageID).Scan(&ac.ImageID, &ac.ImageName, &ac.ProjectID, &ac.ProjectName, &ac.OwnerID)
	if err != nil {
		return nil, postgres.Translate(err, "image")
	}
	return &ac, nil
}

// Recipients returns the project owner and accepted collaborators, minus excludeUserID.
func (r *NotificationRepository) Recipients(ctx context.Context, projectID, excludeUserID string) ([]domain.Recipient, error) {
	const q = `
SELECT pr.user_id, pr.email, COALESCE(pr.username, '')
FROM profiles pr
WHERE pr.user_id <> $2
  AND (
    pr.user_id = (SELECT owner_id FROM projects WHERE id = $1)
    OR EXISTS (
      SELECT 1 FROM project_shares s
      WHERE s.project_id = $1 AND s.invitee_id = pr.user_id AND s.status = 'accepted'
    )
  )
ORDER BY pr.user_id`
	rows, err := r.db.QueryContext(ctx, q, projectID, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Recipient, 0, 8)
	for rows.Next() {
		var rc domain.Recipient
		if err := rows.Scan(&rc.UserID, &rc.Email, &rc.Username); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// RecentlyNotified returns the recipients that were sent a kind email about imageID after since.
func (r *NotificationRepository) RecentlyNotified(ctx context.Context, recipientIDs []string, imageID string, kind domain.Kind, since time.Time) (map[string]bool, error) {
	out := make(map[string]bool, len(recipientIDs))
	if len(recipientIDs) == 0 {
		return out, nil
	}

	const q = `
SELECT DISTINCT recipient_id
FROM notification_logs
WHERE recipient_id = ANY($1)
  AND image_id = $2
  AND kind = $3
  AND status = 'sent'
  AND created_at > $4`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(recipientIDs), imageID, string(kind), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// Log writes one notification_logs row per entry.
func (r *NotificationRepository) Log(ctx context.Context, entries []domain.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO notification_logs (recipient_id, project_id, image_id, kind, status, error)
VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		var imageID sql.NullString
		if e.ImageID != nil {
			imageID = sql.NullString{String: *e.ImageID, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, e.RecipientID, e.ProjectID, imageID, string(e.Kind), string(e.Status), e.Error); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DisplayName returns the best human label for a user.
func (r *NotificationRepository) DisplayName(ctx context.Context, userID string) (string, error) {
	const q = `
SELECT COALESCE(NULLIF(display_name, ''), NULLIF(username, ''), email)
FROM profiles
WHERE user_id = $1`
	var name string
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&name); err != nil {
		return "", postgres.Translate(err, "profile")
	}
	return name, nil
}

// ShareInvite loads everything the invitation email needs.
func (r *NotificationRepository) ShareInvite(ctx context.Context, shareID string) (*domain.ShareInvite, error) {
	const q = `
SELECT s.id, p.id, p.name, s.inviter_id,
       COALESCE(NULLIF(inv.display_name, ''), NULLIF(inv.username, ''), inv.email, ''),
       s.invitee_id, invitee.email
FROM project_shares s
JOIN projects p ON p.id = s.project_id
LEFT JOIN profiles inv ON inv.user_id = s.inviter_id
JOIN profiles invitee ON invitee.user_id = s.invitee_id
WHERE s.id = $1`
	var si domain.ShareInvite
	err := r.db.QueryRowContext(ctx, q, shareID).Scan(
		&si.ShareID, &si.ProjectID, &si.ProjectName, &si.InviterID, &si.InviterName, &si.InviteeID, &si.InviteeEmail)
	if err != nil {
		return nil, postgres.Translate(err, "share")
	}
	return &si, nil
}

// Prune deletes log rows created before cutoff.
func (r *NotificationRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notification_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
