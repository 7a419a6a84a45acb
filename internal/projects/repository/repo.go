package repository

import (
	"context"
	"database/sql"

	"github.com/pinmark/pinmark-backend/internal/projects/domain"
	"github.com/pinmark/pinmark-backend/internal/storage/postgres"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, owner_id, name, description, is_public, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(s scanner, extra ...interface{}) (*domain.Project, error) {
	var p domain.Project
	dest := append([]interface{}{&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project for the given owner.
func (r *ProjectRepository) Create(ctx context.Context, ownerID, name, description string, public bool) (*domain.Project, error) {
	const q = `
INSERT INTO projects (owner_id, name, description, is_public)
VALUES ($1, $2, $3, $4)
RETURNING ` + projectColumns
	p, err := scanProject(r.db.QueryRowContext(ctx, q, ownerID, name, description, public))
	if err != nil {
		return nil, postgres.Translate(err, "project")
	}
	return p, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, postgres.Translate(err, "project")
	}
	return p, nil
}

// ListForUser returns the projects a user owns or has accepted a share for, most recently updated first.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	const q = `
SELECT p.id, p.owner_id, p.name, p.description, p.is_public, p.created_at, p.updated_at,
       CASE WHEN p.owner_id = $1 THEN 'owner' ELSE 'collaborator' END AS role
FROM projects p
WHERE p.owner_id = $1
   OR EXISTS (
     SELECT 1 FROM project_shares s
     WHERE s.project_id = p.id AND s.invitee_id = $1 AND s.status = 'accepted'
   )
ORDER BY p.updated_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var role string
		p, err := scanProject(rows, &role)
		if err != nil {
			return nil, err
		}
		p.Role = role
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the editable fields.
func (r *ProjectRepository) Update(ctx context.Context, p domain.Project) (*domain.Project, error) {
	const q = `
UPDATE projects
SET name = $2, description = $3, is_public = $4, updated_at = now()
WHERE id = $1
RETURNING ` + projectColumns
	out, err := scanProject(r.db.QueryRowContext(ctx, q, p.ID, p.Name, p.Description, p.IsPublic))
	if err != nil {
		return nil, postgres.Translate(err, "project")
	}
	return out, nil
}

// Delete removes the project row; remaining dependent rows go with it by cascade.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM projects WHERE id = $1`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return postgres.Translate(err, "project")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return postgres.Translate(sql.ErrNoRows, "project")
	}
	return nil
}
