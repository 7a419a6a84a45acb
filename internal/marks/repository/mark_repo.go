package repository

import (
	"context"
	"database/sql"

	"github.com/pinmark/pinmark-backend/internal/marks/domain"
	"github.com/pinmark/pinmark-backend/internal/storage/postgres"
)

type MarkRepository struct {
	db *sql.DB
}

func NewMarkRepository(db *sql.DB) *MarkRepository {
	return &MarkRepository{db: db}
}

const markColumns = `id, image_id, user_id, shape, x, y, width, height, color, label, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMark(s scanner) (*domain.Mark, error) {
	var m domain.Mark
	err := s.Scan(&m.ID, &m.ImageID, &m.UserID, &m.Shape, &m.X, &m.Y, &m.Width, &m.Height,
		&m.Color, &m.Label, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MarkRepository) Create(ctx context.Context, m domain.Mark) (*domain.Mark, error) {
	const q = `
INSERT INTO image_marks (image_id, user_id, shape, x, y, width, height, color, label)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + markColumns
	out, err := scanMark(r.db.QueryRowContext(ctx, q,
		m.ImageID, m.UserID, string(m.Shape), m.X, m.Y, m.Width, m.Height, m.Color, m.Label))
	if err != nil {
		return nil, postgres.Translate(err, "mark")
	}
	return out, nil
}

func (r *MarkRepository) Get(ctx context.Context, id string) (*domain.Mark, error) {
	q := `SELECT ` + markColumns + ` FROM image_marks WHERE id = $1`
	m, err := scanMark(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, postgres.Translate(err, "mark")
	}
	return m, nil
}

func (r *MarkRepository) ListByImage(ctx context.Context, imageID string) ([]domain.Mark, error) {
	const q = `
SELECT ` + markColumns + `
FROM image_marks
WHERE image_id = $1
ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Mark, 0, 16)
	for rows.Next() {
		m, err := scanMark(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Update writes the geometry and style of m.
func (r *MarkRepository) Update(ctx context.Context, m domain.Mark) (*domain.Mark, error) {
	const q = `
UPDATE image_marks
SET shape = $2, x = $3, y = $4, width = $5, height = $6, color = $7, label = $8, updated_at = now()
WHERE id = $1
RETURNING ` + markColumns
	out, err := scanMark(r.db.QueryRowContext(ctx, q,
		m.ID, string(m.Shape), m.X, m.Y, m.Width, m.Height, m.Color, m.Label))
	if err != nil {
		return nil, postgres.Translate(err, "mark")
	}
	return out, nil
}

func (r *MarkRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM image_marks WHERE id = $1`, id)
	if err != nil {
		return postgres.Translate(err, "mark")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return postgres.Translate(sql.ErrNoRows, "mark")
	}
	return nil
}
