package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/shares/domain"
	"github.com/pinmark/pinmark-backend/internal/storage/postgres"
)

type ShareRepository struct {
	db *sql.DB
}

func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

const shareColumns = `s.id, s.project_id, s.inviter_id, s.invitee_id, s.status, s.created_at, s.responded_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanShare(s scanner, extra ...interface{}) (*domain.Share, error) {
	var sh domain.Share
	var responded sql.NullTime
	dest := append([]interface{}{&sh.ID, &sh.ProjectID, &sh.InviterID, &sh.InviteeID, &sh.Status, &sh.CreatedAt, &responded}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if responded.Valid {
		sh.RespondedAt = &responded.Time
	}
	return &sh, nil
}

// Invite creates a pending share. A rejected share for the same user is reset to pending;
// a pending or accepted one is a conflict.
func (r *ShareRepository) Invite(ctx context.Context, projectID, inviterID, inviteeID string) (*domain.Share, error) {
	const q = `
INSERT INTO project_shares AS s (project_id, inviter_id, invitee_id)
VALUES ($1, $2, $3)
ON CONFLICT (project_id, invitee_id) DO UPDATE
SET status = 'pending', inviter_id = EXCLUDED.inviter_id, created_at = now(), responded_at = NULL
WHERE s.status = 'rejected'
RETURNING ` + shareColumns
	sh, err := scanShare(r.db.QueryRowContext(ctx, q, projectID, inviterID, inviteeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user is already invited: %w", apperr.ErrConflict)
	}
	if err != nil {
		return nil, postgres.Translate(err, "share")
	}
	return sh, nil
}

func (r *ShareRepository) Get(ctx context.Context, id string) (*domain.Share, error) {
	q := `SELECT ` + shareColumns + ` FROM project_shares s WHERE s.id = $1`
	sh, err := scanShare(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, postgres.Translate(err, "share")
	}
	return sh, nil
}

// ListForProject returns every share of a project with the invitee's username.
func (r *ShareRepository) ListForProject(ctx context.Context, projectID string) ([]domain.Share, error) {
	const q = `
SELECT ` + shareColumns + `, p.username
FROM project_shares s
JOIN profiles p ON p.user_id = s.invitee_id
WHERE s.project_id = $1
ORDER BY s.created_at`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Share, 0, 8)
	for rows.Next() {
		var username sql.NullString
		sh, err := scanShare(rows, &username)
		if err != nil {
			return nil, err
		}
		if username.Valid {
			sh.InviteeUsername = &username.String
		}
		out = append(out, *sh)
	}
	return out, rows.Err()
}

// ListIncoming returns the pending invitations addressed to a user.
func (r *ShareRepository) ListIncoming(ctx context.Context, userID string) ([]domain.Share, error) {
	const q = `
SELECT ` + shareColumns + `, pr.name
FROM project_shares s
JOIN projects pr ON pr.id = s.project_id
WHERE s.invitee_id = $1 AND s.status = 'pending'
ORDER BY s.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Share, 0, 8)
	for rows.Next() {
		var name string
		sh, err := scanShare(rows, &name)
		if err != nil {
			return nil, err
		}
		sh.ProjectName = name
		out = append(out, *sh)
	}
	return out, rows.Err()
}

// Respond moves a pending share to status. A share that is no longer pending is a conflict.
func (r *ShareRepository) Respond(ctx context.Context, id string, status domain.Status) (*domain.Share, error) {
	const q = `
UPDATE project_shares AS s
SET status = $2, responded_at = now()
WHERE s.id = $1 AND s.status = 'pending'
RETURNING ` + shareColumns
	sh, err := scanShare(r.db.QueryRowContext(ctx, q, id, string(status)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("share was already answered: %w", apperr.ErrConflict)
	}
	if err != nil {
		return nil, postgres.Translate(err, "share")
	}
	return sh, nil
}

func (r *ShareRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM project_shares WHERE id = $1`, id)
	if err != nil {
		return postgres.Translate(err, "share")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return postgres.Translate(sql.ErrNoRows, "share")
	}
	return nil
}
