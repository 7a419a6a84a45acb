package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/projects/domain"
)

var projectCols = []string{"id", "owner_id", "name", "description", "is_public", "created_at", "updated_at"}

func setupTestRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewProjectRepository(db), mock, db
}

func TestProjectRepository_Create(t *testing.T) {
	repo, mock, db := setupTestRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO projects`).
		WithArgs("u1", "Launch", "", false).
		WillReturnRows(sqlmock.NewRows(projectCols).AddRow("p1", "u1", "Launch", "", false, now, now))

	p, err := repo.Create(context.Background(), "u1", "Launch", "", false)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "u1", p.OwnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Create_MissingOwner(t *testing.T) {
	repo, mock, db := setupTestRepo(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO projects`).WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.Create(context.Background(), "ghost", "Launch", "", false)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestProjectRepository_ListForUser(t *testing.T) {
	repo, mock, db := setupTestRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM projects p\s+WHERE p.owner_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(append(projectCols, "role")).
			AddRow("p1", "u1", "Mine", "", false, now, now, "owner").
			AddRow("p2", "u2", "Theirs", "", true, now, now, "collaborator"))

	out, err := repo.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "owner", out[0].Role)
	assert.Equal(t, "collaborator", out[1].Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Get_InvalidID(t *testing.T) {
	repo, mock, db := setupTestRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM projects WHERE id = \$1`).
		WithArgs("not-a-uuid").
		WillReturnError(&pq.Error{Code: "22P02"})

	_, err := repo.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProjectRepository_Update(t *testing.T) {
	repo, mock, db := setupTestRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`UPDATE projects`).
		WithArgs("p1", "Renamed", "d", true).
		WillReturnRows(sqlmock.NewRows(projectCols).AddRow("p1", "u1", "Renamed", "d", true, now, now))

	p, err := repo.Update(context.Background(), domain.Project{ID: "p1", Name: "Renamed", Description: "d", IsPublic: true})
	require.NoError(t, err)
	assert.True(t, p.IsPublic)
}

func TestProjectRepository_Delete(t *testing.T) {
	repo, mock, db := setupTestRepo(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM projects WHERE id = \$1`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "p1"))

	mock.ExpectExec(`DELETE FROM projects WHERE id = \$1`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "p1"), apperr.ErrNotFound)
}
