// Package history records and queries the append-only label change ledger.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thenoetrevino/relabel/internal/database"
	"github.com/thenoetrevino/relabel/internal/models"
)

// DefaultLimit is used by callers that do not specify a page size
const DefaultLimit = 50

var (
	ErrInvalidLimit      = fmt.Errorf("%w: limit must be positive", models.ErrInvalidArgument)
	ErrInvalidChangeType = fmt.Errorf("%w: unknown change type", models.ErrInvalidArgument)
)

// Filter narrows a history query. An empty Key matches all labels.
type Filter struct {
	Key   string
	Limit int
}

// Ledger appends and reads history entries
type Ledger struct {
	repo database.HistoryRepository
	now  func() time.Time
}

// NewLedger creates a ledger backed by repo
func NewLedger(repo database.HistoryRepository) *Ledger {
	return &Ledger{repo: repo, now: time.Now}
}

// Record appends entry inside tx. CreatedAt is stamped so that it never goes
// backwards for a key, even if the wall clock does.
func (l *Ledger) Record(ctx context.Context, tx *sql.Tx, entry *models.HistoryEntry) (*models.HistoryEntry, error) {
	if entry.LabelKey == "" || entry.ChangedBy == "" {
		return nil, fmt.Errorf("%w: history entry needs a key and an actor", models.ErrInvalidArgument)
	}
	if !entry.ChangeType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChangeType, entry.ChangeType)
	}
	if entry.ChangeType == models.ChangeManual {
		entry.SourceText = nil
	}

	at := l.now().UTC()
	latest, ok, err := l.repo.LatestTimeTx(ctx, tx, entry.LabelKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read latest history time: %w", err)
	}
	if ok && latest.After(at) {
		at = latest
	}
	entry.CreatedAt = at

	stored, err := l.repo.InsertTx(ctx, tx, entry)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Query returns entries newest first
func (l *Ledger) Query(ctx context.Context, f Filter) ([]*models.HistoryEntry, error) {
	if f.Limit <= 0 {
		return nil, ErrInvalidLimit
	}

	entries, err := l.repo.Query(ctx, f.Key, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	if entries == nil {
		entries = []*models.HistoryEntry{}
	}
	return entries, nil
}
