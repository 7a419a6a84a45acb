package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lib/pq"

	"github.com/pinmark/pinmark-backend/internal/profiles/domain"
	"github.com/pinmark/pinmark-backend/internal/storage/postgres"
)

// ProfileRepository provides persistence operations for profiles
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `user_id, username, email, display_name, storage_used, plan, stripe_customer_id, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(s scanner) (*domain.Profile, error) {
	var p domain.Profile
	var username, displayName, customerID sql.NullString
	if err := s.Scan(&p.UserID, &username, &p.Email, &displayName, &p.StorageUsed, &p.Plan, &customerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if username.Valid {
		p.Username = &username.String
	}
	if displayName.Valid {
		p.DisplayName = &displayName.String
	}
	if customerID.Valid {
		p.StripeCustomerID = &customerID.String
	}
	return &p, nil
}

// Ensure creates the profile on first sight and refreshes the email when the token carries one.
func (r *ProfileRepository) Ensure(ctx context.Context, userID, email string) (*domain.Profile, error) {
	const q = `
INSERT INTO profiles (user_id, email)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE
SET email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE profiles.email END,
    updated_at = CASE WHEN EXCLUDED.email <> '' AND EXCLUDED.email <> profiles.email THEN now() ELSE profiles.updated_at END
RETURNING ` + profileColumns
	p, err := scanProfile(r.db.QueryRowContext(ctx, q, userID, email))
	if err != nil {
		return nil, postgres.Translate(err, "profile")
	}
	return p, nil
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	p, err := scanProfile(r.db.QueryRowContext(ctx, q, userID))
	if err != nil {
		return nil, postgres.Translate(err, "profile")
	}
	return p, nil
}

func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1`
	p, err := scanProfile(r.db.QueryRowContext(ctx, q, username))
	if err != nil {
		return nil, postgres.Translate(err, "profile")
	}
	return p, nil
}

// GetMany returns the profiles that exist among userIDs, in no particular order.
func (r *ProfileRepository) GetMany(ctx context.Context, userIDs []string) ([]domain.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Profile, 0, len(userIDs))
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProfileRepository) UpdateUsername(ctx context.Context, userID, username string) (*domain.Profile, error) {
	const q = `
UPDATE profiles
SET username = $2, updated_at = now()
WHERE user_id = $1
RETURNING ` + profileColumns
	p, err := scanProfile(r.db.QueryRowContext(ctx, q, userID, username))
	if err != nil {
		return nil, postgres.Translate(err, "username")
	}
	return p, nil
}

// SearchByUsername matches usernames starting with prefix, case-insensitively.
func (r *ProfileRepository) SearchByUsername(ctx context.Context, prefix string, limit int) ([]domain.Profile, error) {
	const q = `
SELECT ` + profileColumns + `
FROM profiles
WHERE username ILIKE $1 || '%' ESCAPE '\'
ORDER BY username
LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, escapeLike(prefix), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Profile, 0, limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// AdjustStorage adds delta to storage_used, clamping at zero, and returns the new value.
func (r *ProfileRepository) AdjustStorage(ctx context.Context, userID string, delta int64) (int64, error) {
	const q = `
UPDATE profiles
SET storage_used = GREATEST(0, storage_used + $2), updated_at = now()
WHERE user_id = $1
RETURNING storage_used`
	var used int64
	if err := r.db.QueryRowContext(ctx, q, userID, delta).Scan(&used); err != nil {
		return 0, postgres.Translate(err, "profile")
	}
	return used, nil
}

func (r *ProfileRepository) SetPlan(ctx context.Context, userID, plan, customerID string) error {
	const q = `
UPDATE profiles
SET plan = $2, stripe_customer_id = COALESCE(NULLIF($3, ''), stripe_customer_id), updated_at = now()
WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, q, userID, plan, customerID)
	if err != nil {
		return postgres.Translate(err, "profile")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return postgres.Translate(sql.ErrNoRows, "profile")
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
