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
	"github.com/pinmark/pinmark-backend/internal/images/domain"
)

var imageCols = []string{"id", "project_id", "folder_id", "uploader_id", "name", "storage_key", "size", "content_type", "created_at", "updated_at"}

func setupImageRepo(t *testing.T) (*ImageRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewImageRepository(db), mock, db
}

func TestImageRepository_Insert(t *testing.T) {
	repo, mock, db := setupImageRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO images`).
		WithArgs("p1", sql.NullString{}, "u1", "a.png", "u1/p1/root/xa.png", int64(10), "image/png").
		WillReturnRows(sqlmock.NewRows(imageCols).
			AddRow("i1", "p1", nil, "u1", "a.png", "u1/p1/root/xa.png", int64(10), "image/png", now, now))

	img, err := repo.Insert(context.Background(), domain.Image{
		ProjectID: "p1", UploaderID: "u1", Name: "a.png", StorageKey: "u1/p1/root/xa.png", Size: 10, ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "i1", img.ID)
	assert.Nil(t, img.FolderID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImageRepository_Insert_DuplicateKey(t *testing.T) {
	repo, mock, db := setupImageRepo(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO images`).WillReturnError(&pq.Error{Code: "23505"})

	folder := "f1"
	_, err := repo.Insert(context.Background(), domain.Image{ProjectID: "p1", FolderID: &folder})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestImageRepository_List(t *testing.T) {
	repo, mock, db := setupImageRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`WHERE project_id = \$1 AND folder_id IS NULL`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(imageCols).
			AddRow("i1", "p1", nil, "u1", "a.png", "k1", int64(1), "image/png", now, now))

	out, err := repo.List(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.Len(t, out, 1)

	mock.ExpectQuery(`WHERE project_id = \$1 AND folder_id = \$2`).
		WithArgs("p1", "f1").
		WillReturnRows(sqlmock.NewRows(imageCols).
			AddRow("i2", "p1", "f1", "u1", "b.png", "k2", int64(1), "image/png", now, now))

	out, err = repo.List(context.Background(), "p1", "f1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "f1", *out[0].FolderID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImageRepository_Delete(t *testing.T) {
	repo, mock, db := setupImageRepo(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM images WHERE id = \$1`).WithArgs("i1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "i1"))

	mock.ExpectExec(`DELETE FROM images WHERE id = \$1`).WithArgs("i2").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "i2"), apperr.ErrNotFound)
}

func TestImageRepository_DeleteMany(t *testing.T) {
	repo, mock, db := setupImageRepo(t)
	defer db.Close()

	removed, err := repo.DeleteMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, removed)

	mock.ExpectQuery(`DELETE FROM images WHERE id = ANY\(\$1\) RETURNING id, uploader_id, size`).
		WithArgs(pq.Array([]string{"i1", "i2", "gone"})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uploader_id", "size"}).
			AddRow("i1", "u1", int64(10)).
			AddRow("i2", "u2", int64(20)))

	removed, err = repo.DeleteMany(context.Background(), []string{"i1", "i2", "gone"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Removed{
		{ID: "i1", UploaderID: "u1", Size: 10},
		{ID: "i2", UploaderID: "u2", Size: 20},
	}, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageRepository_Update_MoveToRoot(t *testing.T) {
	repo, mock, db := setupImageRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`UPDATE images`).
		WithArgs("i1", "renamed.png", sql.NullString{}).
		WillReturnRows(sqlmock.NewRows(imageCols).
			AddRow("i1", "p1", nil, "u1", "renamed.png", "k1", int64(1), "image/png", now, now))

	img, err := repo.Update(context.Background(), "i1", "renamed.png", "")
	require.NoError(t, err)
	assert.Equal(t, "renamed.png", img.Name)
}
