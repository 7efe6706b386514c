package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/showcase/internal/models"
)

// PostgresUserRepository stores showcase accounts in a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// CreateUser inserts u. The username primary key makes duplicate detection
// atomic: a conflicting insert returns models.ErrUsernameAlreadyInUse and
// leaves the table untouched.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (username, password, first_name, last_name) VALUES ($1, $2, $3, $4)`,
		u.Username, u.PasswordHash, u.FirstName, u.LastName,
	)
	if isUniqueViolation(err) {
		return models.ErrUsernameAlreadyInUse
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser returns the account with the given username, or
// models.ErrUserNotFound.
func (r *PostgresUserRepository) GetUser(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT username, password, first_name, last_name FROM users WHERE username = $1`,
		username,
	).Scan(&u.Username, &u.PasswordHash, &u.FirstName, &u.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}
