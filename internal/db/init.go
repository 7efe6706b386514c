// Package db opens the Postgres connection, applies the schema and runs
// background maintenance jobs.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    username TEXT PRIMARY KEY,
    password BYTEA NOT NULL,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    username TEXT REFERENCES users(username) ON DELETE CASCADE,
    pending_signin JSONB,
    expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at);

CREATE TABLE IF NOT EXISTS connections (
    user_id TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
    provider_id TEXT NOT NULL,
    provider_user_id TEXT NOT NULL,
    rank INT NOT NULL,
    display_name TEXT,
    profile_url TEXT,
    image_url TEXT,
    access_token TEXT NOT NULL,
    secret TEXT,
    refresh_token TEXT,
    expire_time BIGINT,
    PRIMARY KEY (user_id, provider_id, provider_user_id)
);

CREATE UNIQUE INDEX IF NOT EXISTS connections_rank_idx ON connections (user_id, provider_id, rank);
`

// InitPostgres opens a connection pool for dsn, verifies it and creates the
// tables if they do not exist yet.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
