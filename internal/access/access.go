// Package access resolves what a user may do on a project.
package access

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/storage/postgres"
)

type Role string

const (
	RoleNone         Role = "none"
	RoleViewer       Role = "viewer"
	RoleCollaborator Role = "collaborator"
	RoleOwner        Role = "owner"
)

func (r Role) CanView() bool {
	return r == RoleViewer || r == RoleCollaborator || r == RoleOwner
}

// CanContribute covers uploading, commenting and marking.
func (r Role) CanContribute() bool {
	return r == RoleCollaborator || r == RoleOwner
}

// CanManage covers renaming, deleting and sharing the project.
func (r Role) CanManage() bool {
	return r == RoleOwner
}

// Checker reads project ownership and share state.
type Checker struct {
	db *sql.DB
}

func NewChecker(db *sql.DB) *Checker {
	return &Checker{db: db}
}

// ProjectRole returns the caller's role on a project. A missing project is ErrNotFound.
func (c *Checker) ProjectRole(ctx context.Context, userID, projectID string) (Role, error) {
	const q = `
SELECT p.owner_id, p.is_public,
       EXISTS (
         SELECT 1 FROM project_shares s
         WHERE s.project_id = p.id AND s.invitee_id = $2 AND s.status = 'accepted'
       )
FROM projects p
WHERE p.id = $1
`
	var ownerID string
	var public, shared bool
	err := c.db.QueryRowContext(ctx, q, projectID, userID).Scan(&ownerID, &public, &shared)
	if err != nil {
		return RoleNone, postgres.Translate(err, "project")
	}
	return resolve(userID, ownerID, public, shared), nil
}

func resolve(userID, ownerID string, public, shared bool) Role {
	switch {
	case userID != "" && userID == ownerID:
		return RoleOwner
	case userID != "" && shared:
		return RoleCollaborator
	case public:
		return RoleViewer
	default:
		return RoleNone
	}
}

// Roler is implemented by Checker; services depend on it.
type Roler interface {
	ProjectRole(ctx context.Context, userID, projectID string) (Role, error)
}

// Require resolves the caller's role and checks it with allowed.
// Callers without any access get ErrNotFound so project existence does not leak.
func Require(ctx context.Context, r Roler, userID, projectID string, allowed func(Role) bool) (Role, error) {
	role, err := r.ProjectRole(ctx, userID, projectID)
	if err != nil {
		return RoleNone, err
	}
	if !role.CanView() {
		return role, fmt.Errorf("project: %w", apperr.ErrNotFound)
	}
	if !allowed(role) {
		return role, fmt.Errorf("project role %s: %w", role, apperr.ErrForbidden)
	}
	return role, nil
}
