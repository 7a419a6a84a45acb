package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/notifications/domain"
)

func setupRepo(t *testing.T) (*NotificationRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewNotificationRepository(db), mock, db
}

func TestActivityContext(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	mock.ExpectQuery(`JOIN projects p ON p.id = i.project_id`).
		WithArgs("i1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "id", "name", "owner_id"}).
			AddRow("i1", "hero.png", "p1", "Launch", "owner"))

	ac, err := repo.ActivityContext(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, "Launch", ac.ProjectName)
	assert.Equal(t, "owner", ac.OwnerID)

	mock.ExpectQuery(`FROM images i`).WithArgs("gone").WillReturnError(sql.ErrNoRows)
	_, err = repo.ActivityContext(context.Background(), "gone")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipients(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	mock.ExpectQuery(`s.status = 'accepted'`).
		WithArgs("p1", "actor").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "username"}).
			AddRow("owner", "owner@example.com", "own").
			AddRow("u2", "u2@example.com", ""))

	out, err := repo.Recipients(context.Background(), "p1", "actor")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "u2@example.com", out[1].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentlyNotified(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	out, err := repo.RecentlyNotified(context.Background(), nil, "i1", domain.KindMark, time.Now())
	require.NoError(t, err)
	assert.Empty(t, out)

	since := time.Now().Add(-10 * time.Minute)
	mock.ExpectQuery(`FROM notification_logs`).
		WithArgs(sqlmock.AnyArg(), "i1", "mark", since).
		WillReturnRows(sqlmock.NewRows([]string{"recipient_id"}).AddRow("u2"))

	out, err = repo.RecentlyNotified(context.Background(), []string{"u2", "u3"}, "i1", domain.KindMark, since)
	require.NoError(t, err)
	assert.True(t, out["u2"])
	assert.False(t, out["u3"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLog(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	image := "i1"
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO notification_logs`)
	prep.ExpectExec().WithArgs("u2", "p1", "i1", "comment", "sent", "").WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs("u3", "p1", "i1", "comment", "failed", "smtp down").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Log(context.Background(), []domain.LogEntry{
		{RecipientID: "u2", ProjectID: "p1", ImageID: &image, Kind: domain.KindComment, Status: domain.StatusSent},
		{RecipientID: "u3", ProjectID: "p1", ImageID: &image, Kind: domain.KindComment, Status: domain.StatusFailed, Error: "smtp down"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPrune(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	cutoff := time.Now().Add(-90 * 24 * time.Hour)
	mock.ExpectExec(`DELETE FROM notification_logs WHERE created_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 42))

	n, err := repo.Prune(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
