package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order on every start; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS labels (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		label_key   TEXT NOT NULL UNIQUE,
		label_value TEXT NOT NULL,
		page        TEXT NOT NULL,
		position    INTEGER NOT NULL DEFAULT 0,
		description TEXT,
		updated_by  TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_labels_page ON labels(page, position)`,

	// Keys are identities and never change once provisioned
	`CREATE TRIGGER IF NOT EXISTS labels_key_immutable
	BEFORE UPDATE OF label_key ON labels
	WHEN NEW.label_key <> OLD.label_key
	BEGIN
		SELECT RAISE(ABORT, 'label_key is immutable');
	END`,

	`CREATE TABLE IF NOT EXISTS label_history (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		label_id        INTEGER NOT NULL REFERENCES labels(id),
		label_key       TEXT NOT NULL,
		old_value       TEXT NOT NULL,
		new_value       TEXT NOT NULL,
		changed_by      TEXT NOT NULL,
		change_type     TEXT NOT NULL CHECK (change_type IN ('manual', 'chatbot')),
		chatbot_command TEXT,
		created_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_label_history_key ON label_history(label_key, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_label_history_created ON label_history(created_at)`,

	// History is append-only
	`CREATE TRIGGER IF NOT EXISTS label_history_no_update
	BEFORE UPDATE ON label_history
	BEGIN
		SELECT RAISE(ABORT, 'label_history is append-only');
	END`,
	`CREATE TRIGGER IF NOT EXISTS label_history_no_delete
	BEFORE DELETE ON label_history
	BEGIN
		SELECT RAISE(ABORT, 'label_history is append-only');
	END`,
}

// runMigrations creates the database schema if needed
func runMigrations(ctx context.Context, db *sql.DB) error {
	return withTx(ctx, db, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration failed: %w\nSQL: %s", err, stmt)
			}
		}
		return nil
	})
}
