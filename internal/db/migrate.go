package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		username      TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		CONSTRAINT users_username_key UNIQUE (username),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,

	`CREATE TABLE IF NOT EXISTS entries (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES users(id),
		content    TEXT NOT NULL,
		emotion    TEXT NOT NULL,
		theme      TEXT NOT NULL DEFAULT 'light',
		created_at TIMESTAMPTZ NOT NULL
	)`,

	// dashboard and get-entries always read newest-first per user
	`CREATE INDEX IF NOT EXISTS entries_user_created_idx
		ON entries (user_id, created_at DESC)`,
}

// Migrate brings the schema up. Statements are idempotent so this runs on
// every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
