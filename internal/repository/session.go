package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atinyakov/showcase/internal/models"
	"github.com/atinyakov/showcase/internal/provider"
)

// PostgresSessionRepository stores visitor sessions in a PostgreSQL database.
type PostgresSessionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository using the provided *sql.DB.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{DB: db}
}

// CreateSession inserts an anonymous session.
func (r *PostgresSessionRepository) CreateSession(ctx context.Context, s models.Session) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO sessions (id, expires_at) VALUES ($1, $2)`,
		s.ID, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession returns the unexpired session with the given id, or
// models.ErrSessionNotFound.
func (r *PostgresSessionRepository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var (
		s        models.Session
		username sql.NullString
	)
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, username, expires_at FROM sessions WHERE id = $1 AND expires_at > now()`,
		id,
	).Scan(&s.ID, &username, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	s.Username = username.String
	return &s, nil
}

// SetUsername signs username into the session.
func (r *PostgresSessionRepository) SetUsername(ctx context.Context, id, username string) error {
	res, err := r.DB.ExecContext(
		ctx,
		`UPDATE sessions SET username = $2 WHERE id = $1`,
		id, username,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if rows == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}

// TakePendingSignIn clears the pending provider sign-in of the session and
// returns the value it held, or nil when nothing was pending. The read and
// the clear happen in one statement, so concurrent callers on the same
// session cannot both receive the value.
func (r *PostgresSessionRepository) TakePendingSignIn(ctx context.Context, id string) (*provider.SignInAccount, error) {
	var raw []byte
	err := r.DB.QueryRowContext(ctx, `
		UPDATE sessions AS s
		   SET pending_signin = NULL
		  FROM (SELECT id, pending_signin FROM sessions
		         WHERE id = $1 AND pending_signin IS NOT NULL
		           FOR UPDATE) AS prev
		 WHERE s.id = prev.id
		RETURNING prev.pending_signin
	`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("take pending sign-in: %w", err)
	}

	var account provider.SignInAccount
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, fmt.Errorf("decode pending sign-in: %w", err)
	}
	return &account, nil
}
