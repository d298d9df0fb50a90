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
// Label Operations
// ============================================================================

const labelColumns = `id, label_key, label_value, page, position, description, updated_by, created_at, updated_at`

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// LabelRepo handles label persistence
type LabelRepo struct {
	db *sql.DB
}

// Create inserts a new label. Fails on a duplicate key.
func (r *LabelRepo) Create(ctx context.Context, label *models.Label) (*models.Label, error) {
	now := time.Now()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO labels (label_key, label_value, page, position, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		label.Key, label.Value, label.Page, label.Position, nullIfEmpty(label.Description),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create label %q: %w", label.Key, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Ensure inserts the label unless one with the same key exists.
// Returns true if a row was created.
func (r *LabelRepo) Ensure(ctx context.Context, label *models.Label) (bool, error) {
	now := time.Now()
	result, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO labels (label_key, label_value, page, position, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		label.Key, label.Value, label.Page, label.Position, nullIfEmpty(label.Description),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return false, fmt.Errorf("failed to ensure label %q: %w", label.Key, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByID retrieves a label by its row ID
func (r *LabelRepo) GetByID(ctx context.Context, id int64) (*models.Label, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+labelColumns+` FROM labels WHERE id = ?`, id)
	return scanLabel(row)
}

// GetByKey retrieves a label by its exact key
func (r *LabelRepo) GetByKey(ctx context.Context, key string) (*models.Label, error) {
	return getLabelByKey(ctx, r.db, key)
}

// List returns every label ordered by page, then position, then key
func (r *LabelRepo) List(ctx context.Context) ([]*models.Label, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+labelColumns+` FROM labels ORDER BY page ASC, position ASC, label_key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []*models.Label
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}

	return labels, rows.Err()
}

// GetByKeyTx reads a label inside an open transaction
func (r *LabelRepo) GetByKeyTx(ctx context.Context, tx *sql.Tx, key string) (*models.Label, error) {
	return getLabelByKey(ctx, tx, key)
}

// UpdateValueTx swaps a label's value inside an open transaction and returns the
// updated row. The caller owns the transaction.
func (r *LabelRepo) UpdateValueTx(ctx context.Context, tx *sql.Tx, id int64, value, actor string, at time.Time) (*models.Label, error) {
	result, err := tx.ExecContext(ctx,
		`UPDATE labels SET label_value = ?, updated_by = ?, updated_at = ? WHERE id = ?`,
		value, actor, formatTime(at), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update label %d: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, models.ErrLabelNotFound
	}

	row := tx.QueryRowContext(ctx, `SELECT `+labelColumns+` FROM labels WHERE id = ?`, id)
	return scanLabel(row)
}

// WithTx runs fn inside a transaction on the label database
func (r *LabelRepo) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return withTx(ctx, r.db, fn)
}

func getLabelByKey(ctx context.Context, q queryer, key string) (*models.Label, error) {
	row := q.QueryRowContext(ctx, `SELECT `+labelColumns+` FROM labels WHERE label_key = ?`, key)
	label, err := scanLabel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", models.ErrLabelNotFound, key)
	}
	return label, err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLabel(row rowScanner) (*models.Label, error) {
	var (
		label       models.Label
		description sql.NullString
		updatedBy   sql.NullString
		createdAt   string
		updatedAt   string
	)
	if err := row.Scan(
		&label.ID, &label.Key, &label.Value, &label.Page, &label.Position,
		&description, &updatedBy, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	label.Description = NullStringToString(description)
	label.LastModifiedBy = nullStringToPtr(updatedBy)

	var err error
	if label.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if label.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &label, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
