package repository

import (
	"context"
	"database/sql"

	"github.com/pinmark/pinmark-backend/internal/comments/domain"
	"github.com/pinmark/pinmark-backend/internal/storage/postgres"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `id, image_id, user_id, parent_id, body, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanComment(s scanner) (*domain.Comment, error) {
	var c domain.Comment
	var parentID sql.NullString
	if err := s.Scan(&c.ID, &c.ImageID, &c.UserID, &parentID, &c.Body, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	return &c, nil
}

func (r *CommentRepository) Create(ctx context.Context, imageID, userID string, parentID *string, body string) (*domain.Comment, error) {
	const q = `
INSERT INTO image_comments (image_id, user_id, parent_id, body)
VALUES ($1, $2, $3, $4)
RETURNING ` + commentColumns
	var parent sql.NullString
	if parentID != nil {
		parent = sql.NullString{String: *parentID, Valid: true}
	}
	c, err := scanComment(r.db.QueryRowContext(ctx, q, imageID, userID, parent, body))
	if err != nil {
		return nil, postgres.Translate(err, "comment")
	}
	return c, nil
}

func (r *CommentRepository) Get(ctx context.Context, id string) (*domain.Comment, error) {
	q := `SELECT ` + commentColumns + ` FROM image_comments WHERE id = $1`
	c, err := scanComment(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, postgres.Translate(err, "comment")
	}
	return c, nil
}

// ListByImage returns the flat comment list of an image, oldest first.
func (r *CommentRepository) ListByImage(ctx context.Context, imageID string) ([]domain.Comment, error) {
	const q = `
SELECT ` + commentColumns + `
FROM image_comments
WHERE image_id = $1
ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Comment, 0, 16)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CommentRepository) UpdateBody(ctx context.Context, id, body string) (*domain.Comment, error) {
	const q = `
UPDATE image_comments
SET body = $2, updated_at = now()
WHERE id = $1
RETURNING ` + commentColumns
	c, err := scanComment(r.db.QueryRowContext(ctx, q, id, body))
	if err != nil {
		return nil, postgres.Translate(err, "comment")
	}
	return c, nil
}

// Delete removes a comment and, through the foreign key, its replies.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM image_comments WHERE id = $1`, id)
	if err != nil {
		return postgres.Translate(err, "comment")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return postgres.Translate(sql.ErrNoRows, "comment")
	}
	return nil
}
