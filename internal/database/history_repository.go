package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/relabel/internal/models"
)

// ============================================================================
// History Operations
// ============================================================================

const historyColumns = `id, label_id, label_key, old_value, new_value, changed_by, change_type, chatbot_command, created_at`

// HistoryRepo handles label_history persistence. It only inserts and reads;
// the schema rejects updates and deletes.
type HistoryRepo struct {
	db *sql.DB
}

// InsertTx appends an entry inside the caller's transaction and returns it with its ID set
func (r *HistoryRepo) InsertTx(ctx context.Context, tx *sql.Tx, entry *models.HistoryEntry) (*models.HistoryEntry, error) {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO label_history (label_id, label_key, old_value, new_value, changed_by, change_type, chatbot_command, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.LabelID, entry.LabelKey, entry.OldValue, entry.NewValue, entry.ChangedBy,
		string(entry.ChangeType), ptrToNullString(entry.SourceText), formatTime(entry.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert history for %q: %w", entry.LabelKey, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	stored := *entry
	stored.ID = id
	stored.CreatedAt = entry.CreatedAt.UTC()
	return &stored, nil
}

// LatestTimeTx returns the creation time of the newest entry for key, if any
func (r *HistoryRepo) LatestTimeTx(ctx context.Context, tx *sql.Tx, key string) (time.Time, bool, error) {
	var createdAt string
	err := tx.QueryRowContext(ctx,
		`SELECT created_at FROM label_history WHERE label_key = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		key,
	).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	t, err := parseTime(createdAt)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Query returns up to limit entries, newest first. An empty key means all labels.
func (r *HistoryRepo) Query(ctx context.Context, key string, limit int) ([]*models.HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM label_history`
	args := []any{}
	if key != "" {
		query += ` WHERE label_key = ?`
		args = append(args, key)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanHistory(row rowScanner) (*models.HistoryEntry, error) {
	var (
		entry      models.HistoryEntry
		changeType string
		source     sql.NullString
		createdAt  string
	)
	if err := row.Scan(
		&entry.ID, &entry.LabelID, &entry.LabelKey, &entry.OldValue, &entry.NewValue,
		&entry.ChangedBy, &changeType, &source, &createdAt,
	); err != nil {
		return nil, err
	}

	entry.ChangeType = models.ChangeType(changeType)
	entry.SourceText = nullStringToPtr(source)

	var err error
	if entry.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &entry, nil
}
