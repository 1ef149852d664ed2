package repository

import (
	"context"
	"database/sql"
)

// EnsureSchema creates the tables this service owns. scheduled_at is a
// TIMESTAMPTZ, which round-trips instants at well below second resolution.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS content_items (
			id TEXT PRIMARY KEY,
			caption TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			scheduled_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS content_item_media (
			item_id TEXT NOT NULL REFERENCES content_items(id) ON DELETE CASCADE,
			media_ref TEXT NOT NULL,
			display_order INT NOT NULL,
			PRIMARY KEY (item_id, display_order)
		)`,
		`CREATE TABLE IF NOT EXISTS platforms (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			logo_url TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS content_item_platforms (
			item_id TEXT NOT NULL REFERENCES content_items(id) ON DELETE CASCADE,
			platform_id TEXT NOT NULL REFERENCES platforms(id),
			PRIMARY KEY (item_id, platform_id)
		)`,
		`CREATE TABLE IF NOT EXISTS delivery_history (
			id BIGSERIAL PRIMARY KEY,
			item_id TEXT NOT NULL,
			platform_id TEXT NOT NULL,
			reference TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
