package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/pinmark/pinmark-backend/internal/images/domain"
	"github.com/pinmark/pinmark-backend/internal/storage/postgres"
)

// ImageRepository provides persistence operations for image rows
type ImageRepository struct {
	db *sql.DB
}

func NewImageRepository(db *sql.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

const imageColumns = `id, project_id, folder_id, uploader_id, name, storage_key, size, content_type, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanImage(s scanner) (*domain.Image, error) {
	var img domain.Image
	var folderID sql.NullString
	if err := s.Scan(&img.ID, &img.ProjectID, &folderID, &img.UploaderID, &img.Name, &img.StorageKey,
		&img.Size, &img.ContentType, &img.CreatedAt, &img.UpdatedAt); err != nil {
		return nil, err
	}
	if folderID.Valid {
		img.FolderID = &folderID.String
	}
	return &img, nil
}

func (r *ImageRepository) list(ctx context.Context, q string, args ...interface{}) ([]domain.Image, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Image, 0, 16)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *ImageRepository) Insert(ctx context.Context, img domain.Image) (*domain.Image, error) {
	const q = `
INSERT INTO images (project_id, folder_id, uploader_id, name, storage_key, size, content_type)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + imageColumns
	var folderID string
	if img.FolderID != nil {
		folderID = *img.FolderID
	}
	out, err := scanImage(r.db.QueryRowContext(ctx, q, img.ProjectID, nullable(folderID), img.UploaderID,
		img.Name, img.StorageKey, img.Size, img.ContentType))
	if err != nil {
		return nil, postgres.Translate(err, "image")
	}
	return out, nil
}

func (r *ImageRepository) Get(ctx context.Context, id string) (*domain.Image, error) {
	q := `SELECT ` + imageColumns + ` FROM images WHERE id = $1`
	img, err := scanImage(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, postgres.Translate(err, "image")
	}
	return img, nil
}

// List returns the images directly inside folderID, or at project root when folderID is empty.
func (r *ImageRepository) List(ctx context.Context, projectID, folderID string) ([]domain.Image, error) {
	if folderID == "" {
		return r.ListRoot(ctx, projectID)
	}
	const q = `
SELECT ` + imageColumns + `
FROM images
WHERE project_id = $1 AND folder_id = $2
ORDER BY created_at DESC`
	return r.list(ctx, q, projectID, folderID)
}

func (r *ImageRepository) ListRoot(ctx context.Context, projectID string) ([]domain.Image, error) {
	const q = `
SELECT ` + imageColumns + `
FROM images
WHERE project_id = $1 AND folder_id IS NULL
ORDER BY created_at DESC`
	return r.list(ctx, q, projectID)
}

func (r *ImageRepository) ListByFolder(ctx context.Context, folderID string) ([]domain.Image, error) {
	const q = `
SELECT ` + imageColumns + `
FROM images
WHERE folder_id = $1
ORDER BY created_at`
	return r.list(ctx, q, folderID)
}

// Update sets the name and folder; an empty folderID places the image at project root.
func (r *ImageRepository) Update(ctx context.Context, id, name, folderID string) (*domain.Image, error) {
	const q = `
UPDATE images
SET name = $2, folder_id = $3, updated_at = now()
WHERE id = $1
RETURNING ` + imageColumns
	img, err := scanImage(r.db.QueryRowContext(ctx, q, id, name, nullable(folderID)))
	if err != nil {
		return nil, postgres.Translate(err, "image")
	}
	return img, nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM images WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return postgres.Translate(err, "image")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return postgres.Translate(sql.ErrNoRows, "image")
	}
	return nil
}

// DeleteMany removes rows by id and returns the ones that were still present.
func (r *ImageRepository) DeleteMany(ctx context.Context, ids []string) ([]domain.Removed, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const q = `DELETE FROM images WHERE id = ANY($1) RETURNING id, uploader_id, size`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Removed
	for rows.Next() {
		var rm domain.Removed
		if err := rows.Scan(&rm.ID, &rm.UploaderID, &rm.Size); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}
