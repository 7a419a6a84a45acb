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
	"github.com/pinmark/pinmark-backend/internal/shares/domain"
)

var shareCols = []string{"id", "project_id", "inviter_id", "invitee_id", "status", "created_at", "responded_at"}

func setupShareRepo(t *testing.T) (*ShareRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewShareRepository(db), mock, db
}

func TestShareRepository_Invite(t *testing.T) {
	repo, mock, db := setupShareRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`ON CONFLICT \(project_id, invitee_id\) DO UPDATE`).
		WithArgs("p1", "owner", "u2").
		WillReturnRows(sqlmock.NewRows(shareCols).AddRow("s1", "p1", "owner", "u2", "pending", now, nil))

	sh, err := repo.Invite(context.Background(), "p1", "owner", "u2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, sh.Status)
	assert.Nil(t, sh.RespondedAt)

	mock.ExpectQuery(`INSERT INTO project_shares`).
		WithArgs("p1", "owner", "u3").
		WillReturnRows(sqlmock.NewRows(shareCols))

	_, err = repo.Invite(context.Background(), "p1", "owner", "u3")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShareRepository_ListForProject(t *testing.T) {
	repo, mock, db := setupShareRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`JOIN profiles p`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(append(shareCols, "username")).
			AddRow("s1", "p1", "owner", "u2", "accepted", now, now, "alice").
			AddRow("s2", "p1", "owner", "u3", "pending", now, nil, nil))

	out, err := repo.ListForProject(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "alice", *out[0].InviteeUsername)
	assert.NotNil(t, out[0].RespondedAt)
	assert.Nil(t, out[1].InviteeUsername)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShareRepository_ListIncoming(t *testing.T) {
	repo, mock, db := setupShareRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`s.status = 'pending'`).
		WithArgs("u2").
		WillReturnRows(sqlmock.NewRows(append(shareCols, "name")).
			AddRow("s1", "p1", "owner", "u2", "pending", now, nil, "Launch"))

	out, err := repo.ListIncoming(context.Background(), "u2")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Launch", out[0].ProjectName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShareRepository_Respond(t *testing.T) {
	repo, mock, db := setupShareRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`UPDATE project_shares`).
		WithArgs("s1", "accepted").
		WillReturnRows(sqlmock.NewRows(shareCols).AddRow("s1", "p1", "owner", "u2", "accepted", now, now))

	sh, err := repo.Respond(context.Background(), "s1", domain.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, sh.Status)

	mock.ExpectQuery(`UPDATE project_shares`).
		WithArgs("s1", "rejected").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Respond(context.Background(), "s1", domain.StatusRejected)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
