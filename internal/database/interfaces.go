package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/thenoetrevino/relabel/internal/models"
)

// LabelReader defines read operations for labels.
type LabelReader interface {
	GetByKey(ctx context.Context, key string) (*models.Label, error)
	List(ctx context.Context) ([]*models.Label, error)
}

// LabelWriter defines transactional write operations for labels.
// Values only change through UpdateValueTx so that every write can be paired with
// a history insert in the same transaction.
type LabelWriter interface {
	WithTx(ctx context.Context, fn func(*sql.Tx) error) error
	GetByKeyTx(ctx context.Context, tx *sql.Tx, key string) (*models.Label, error)
	UpdateValueTx(ctx context.Context, tx *sql.Tx, id int64, value, actor string, at time.Time) (*models.Label, error)
}

// LabelRepository combines all label-related operations.
type LabelRepository interface {
	LabelReader
	LabelWriter
}

// HistoryRepository defines the append-only history operations.
type HistoryRepository interface {
	InsertTx(ctx context.Context, tx *sql.Tx, entry *models.HistoryEntry) (*models.HistoryEntry, error)
	LatestTimeTx(ctx context.Context, tx *sql.Tx, key string) (time.Time, bool, error)
	Query(ctx context.Context, key string, limit int) ([]*models.HistoryEntry, error)
}

var (
	_ LabelRepository   = (*LabelRepo)(nil)
	_ HistoryRepository = (*HistoryRepo)(nil)
)
