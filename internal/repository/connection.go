package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/showcase/internal/models"
)

// PostgresConnectionRepository stores provider connections in a PostgreSQL database.
type PostgresConnectionRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresConnectionRepository creates a new PostgresConnectionRepository using the provided *sql.DB.
func NewPostgresConnectionRepository(db *sql.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{DB: db}
}

// AddConnection stores c ranked after the user's existing connections to the
// same provider. c.Rank is ignored. Linking an identity twice returns
// models.ErrDuplicateConnection.
func (r *PostgresConnectionRepository) AddConnection(ctx context.Context, c models.Connection) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var rank int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(rank), 0) + 1 FROM connections WHERE user_id = $1 AND provider_id = $2
	`, c.UserID, c.ProviderID).Scan(&rank)
	if err != nil {
		return fmt.Errorf("next rank: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO connections (user_id, provider_id, provider_user_id, rank, display_name,
			profile_url, image_url, access_token, secret, refresh_token, expire_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, c.UserID, c.ProviderID, c.ProviderUserID, rank, c.DisplayName,
		c.ProfileURL, c.ImageURL, c.AccessToken, c.Secret, c.RefreshToken, c.ExpireTime)
	if isUniqueViolation(err) {
		return models.ErrDuplicateConnection
	}
	if err != nil {
		return fmt.Errorf("insert connection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ConnectionsForUser lists the user's connections ordered by provider and rank.
func (r *PostgresConnectionRepository) ConnectionsForUser(ctx context.Context, userID string) ([]models.Connection, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, provider_id, provider_user_id, rank, display_name, profile_url, image_url,
			access_token, secret, refresh_token, expire_time
		  FROM connections WHERE user_id = $1 ORDER BY provider_id, rank
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ConnectionsForUser: %w", err)
	}
	defer rows.Close()

	var conns []models.Connection
	for rows.Next() {
		var (
			c                                        models.Connection
			display, profile, image, secret, refresh sql.NullString
			expire                                   sql.NullInt64
		)
		if err := rows.Scan(&c.UserID, &c.ProviderID, &c.ProviderUserID, &c.Rank, &display, &profile,
			&image, &c.AccessToken, &secret, &refresh, &expire); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		c.DisplayName = display.String
		c.ProfileURL = profile.String
		c.ImageURL = image.String
		c.Secret = secret.String
		c.RefreshToken = refresh.String
		c.ExpireTime = expire.Int64
		conns = append(conns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return conns, nil
}
