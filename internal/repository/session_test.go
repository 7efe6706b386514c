package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/showcase/internal/models"
	"github.com/atinyakov/showcase/internal/provider"
)

func setupSessionMock(t *testing.T) (*PostgresSessionRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSessionRepository(db), mock
}

func TestCreateSession(t *testing.T) {
	repo, mock := setupSessionMock(t)
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sessions (id, expires_at) VALUES ($1, $2)`)).
		WithArgs("sid", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateSession(context.Background(), models.Session{ID: "sid", ExpiresAt: expires})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSession(t *testing.T) {
	const query = `SELECT id, username, expires_at FROM sessions WHERE id = $1 AND expires_at > now()`
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("signed in", func(t *testing.T) {
		repo, mock := setupSessionMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("sid").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "expires_at"}).
				AddRow("sid", "alice", expires))

		s, err := repo.GetSession(context.Background(), "sid")
		require.NoError(t, err)
		assert.Equal(t, &models.Session{ID: "sid", Username: "alice", ExpiresAt: expires}, s)
	})

	t.Run("anonymous", func(t *testing.T) {
		repo, mock := setupSessionMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("sid").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "expires_at"}).
				AddRow("sid", nil, expires))

		s, err := repo.GetSession(context.Background(), "sid")
		require.NoError(t, err)
		assert.Equal(t, "", s.Username)
		assert.False(t, s.SignedIn())
	})

	t.Run("missing or expired", func(t *testing.T) {
		repo, mock := setupSessionMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("old").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "expires_at"}))

		_, err := repo.GetSession(context.Background(), "old")
		assert.ErrorIs(t, err, models.ErrSessionNotFound)
	})
}

func TestSetUsername(t *testing.T) {
	const query = `UPDATE sessions SET username = $2 WHERE id = $1`

	t.Run("updated", func(t *testing.T) {
		repo, mock := setupSessionMock(t)
		mock.ExpectExec(regexp.QuoteMeta(query)).
			WithArgs("sid", "alice").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetUsername(context.Background(), "sid", "alice"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no session", func(t *testing.T) {
		repo, mock := setupSessionMock(t)
		mock.ExpectExec(regexp.QuoteMeta(query)).
			WithArgs("gone", "alice").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetUsername(context.Background(), "gone", "alice")
		assert.ErrorIs(t, err, models.ErrSessionNotFound)
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock := setupSessionMock(t)
		mock.ExpectExec(regexp.QuoteMeta(query)).
			WithArgs("sid", "alice").
			WillReturnError(errors.New("update failed"))

		assert.Error(t, repo.SetUsername(context.Background(), "sid", "alice"))
	})
}

func TestTakePendingSignIn(t *testing.T) {
	const query = `UPDATE sessions AS s SET pending_signin = NULL`

	t.Run("pending", func(t *testing.T) {
		repo, mock := setupSessionMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("sid").
			WillReturnRows(sqlmock.NewRows([]string{"pending_signin"}).
				AddRow([]byte(`{"provider_id":"twitter","provider_user_id":"42","access_token":"tok"}`)))

		account, err := repo.TakePendingSignIn(context.Background(), "sid")
		require.NoError(t, err)
		assert.Equal(t, &provider.SignInAccount{
			ProviderID:     "twitter",
			ProviderUserID: "42",
			AccessToken:    "tok",
		}, account)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing pending", func(t *testing.T) {
		repo, mock := setupSessionMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("sid").
			WillReturnRows(sqlmock.NewRows([]string{"pending_signin"}))

		account, err := repo.TakePendingSignIn(context.Background(), "sid")
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("corrupt value", func(t *testing.T) {
		repo, mock := setupSessionMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("sid").
			WillReturnRows(sqlmock.NewRows([]string{"pending_signin"}).AddRow([]byte(`{`)))

		_, err := repo.TakePendingSignIn(context.Background(), "sid")
		assert.ErrorContains(t, err, "decode pending sign-in")
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := setupSessionMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("sid").
			WillReturnError(errors.New("boom"))

		_, err := repo.TakePendingSignIn(context.Background(), "sid")
		assert.ErrorContains(t, err, "take pending sign-in")
	})
}
