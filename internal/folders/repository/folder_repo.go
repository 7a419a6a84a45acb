package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/folders/domain"
	"github.com/pinmark/pinmark-backend/internal/storage/postgres"
)

// FolderRepository provides persistence operations for folders
type FolderRepository struct {
	db *sql.DB
}

func NewFolderRepository(db *sql.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

const folderColumns = `id, project_id, parent_id, name, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFolder(s scanner) (*domain.Folder, error) {
	var f domain.Folder
	var parentID sql.NullString
	if err := s.Scan(&f.ID, &f.ProjectID, &parentID, &f.Name, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		f.ParentID = &parentID.String
	}
	return &f, nil
}

func (r *FolderRepository) list(ctx context.Context, q string, args ...interface{}) ([]domain.Folder, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Folder, 0, 16)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *FolderRepository) Create(ctx context.Context, projectID, parentID, name string) (*domain.Folder, error) {
	const q = `
INSERT INTO folders (project_id, parent_id, name)
VALUES ($1, $2, $3)
RETURNING ` + folderColumns
	f, err := scanFolder(r.db.QueryRowContext(ctx, q, projectID, nullable(parentID), name))
	if err != nil {
		return nil, postgres.Translate(err, "folder")
	}
	return f, nil
}

func (r *FolderRepository) Get(ctx context.Context, id string) (*domain.Folder, error) {
	q := `SELECT ` + folderColumns + ` FROM folders WHERE id = $1`
	f, err := scanFolder(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, postgres.Translate(err, "folder")
	}
	return f, nil
}

// ProjectOf returns the project a folder belongs to.
func (r *FolderRepository) ProjectOf(ctx context.Context, id string) (string, error) {
	const q = `SELECT project_id FROM folders WHERE id = $1`
	var projectID string
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&projectID); err != nil {
		return "", postgres.Translate(err, "folder")
	}
	return projectID, nil
}

// ListAll returns every folder of a project.
func (r *FolderRepository) ListAll(ctx context.Context, projectID string) ([]domain.Folder, error) {
	const q = `
SELECT ` + folderColumns + `
FROM folders
WHERE project_id = $1
ORDER BY name`
	return r.list(ctx, q, projectID)
}

// ListChildren returns the direct children of parentID, or the root folders when parentID is empty.
func (r *FolderRepository) ListChildren(ctx context.Context, projectID, parentID string) ([]domain.Folder, error) {
	if parentID == "" {
		const q = `
SELECT ` + folderColumns + `
FROM folders
WHERE project_id = $1 AND parent_id IS NULL
ORDER BY name`
		return r.list(ctx, q, projectID)
	}
	const q = `
SELECT ` + folderColumns + `
FROM folders
WHERE project_id = $1 AND parent_id = $2
ORDER BY name`
	return r.list(ctx, q, projectID, parentID)
}

// Children returns the direct children of a folder.
func (r *FolderRepository) Children(ctx context.Context, folderID string) ([]domain.Folder, error) {
	const q = `
SELECT ` + folderColumns + `
FROM folders
WHERE parent_id = $1`
	return r.list(ctx, q, folderID)
}

// Path returns the chain of folders from the project root down to id.
func (r *FolderRepository) Path(ctx context.Context, id string) ([]domain.Folder, error) {
	const q = `
WITH RECURSIVE chain AS (
  SELECT ` + folderColumns + `, 0 AS depth FROM folders WHERE id = $1
  UNION ALL
  SELECT f.id, f.project_id, f.parent_id, f.name, f.created_at, f.updated_at, c.depth + 1
  FROM folders f
  JOIN chain c ON f.id = c.parent_id
  WHERE c.depth < 256
)
SELECT ` + folderColumns + ` FROM chain ORDER BY depth DESC`
	out, err := r.list(ctx, q, id)
	if err != nil {
		return nil, postgres.Translate(err, "folder")
	}
	if len(out) == 0 {
		return nil, postgres.Translate(sql.ErrNoRows, "folder")
	}
	return out, nil
}

// Update sets name and parent; an empty parentID places the folder at project root.
// Hierarchy changes in one project are serialized with a transaction-scoped advisory lock,
// and the new parent is rejected when id is among its ancestors, so concurrent moves
// cannot close a cycle.
func (r *FolderRepository) Update(ctx context.Context, id, name, parentID string) (*domain.Folder, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var projectID string
	if err := tx.QueryRowContext(ctx, `SELECT project_id FROM folders WHERE id = $1`, id).Scan(&projectID); err != nil {
		return nil, postgres.Translate(err, "folder")
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, projectID); err != nil {
		return nil, err
	}

	if parentID != "" {
		const cycleQ = `
WITH RECURSIVE up AS (
  SELECT id, parent_id, 0 AS depth FROM folders WHERE id = $1
  UNION ALL
  SELECT f.id, f.parent_id, up.depth + 1
  FROM folders f
  JOIN up ON f.id = up.parent_id
  WHERE up.depth < 256
)
SELECT EXISTS (SELECT 1 FROM up WHERE id = $2)`
		var below bool
		if err := tx.QueryRowContext(ctx, cycleQ, parentID, id).Scan(&below); err != nil {
			return nil, postgres.Translate(err, "folder")
		}
		if below {
			return nil, fmt.Errorf("a folder cannot move into its own subfolder: %w", apperr.ErrInvalidInput)
		}
	}

	const q = `
UPDATE folders
SET name = $2, parent_id = $3, updated_at = now()
WHERE id = $1
RETURNING ` + folderColumns
	f, err := scanFolder(tx.QueryRowContext(ctx, q, id, name, nullable(parentID)))
	if err != nil {
		return nil, postgres.Translate(err, "folder")
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FolderRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM folders WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return postgres.Translate(err, "folder")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return postgres.Translate(sql.ErrNoRows, "folder")
	}
	return nil
}
