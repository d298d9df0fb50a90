// Package label owns label reads, fuzzy resolution and serialized writes.
package label

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/thenoetrevino/relabel/internal/database"
	"github.com/thenoetrevino/relabel/internal/models"
)

// WriteRequest describes a value swap on one label
type WriteRequest struct {
	Key   string
	Value string
	Actor string
}

// WriteResult is what a committed (or about to be committed) write produced
type WriteResult struct {
	Label         *models.Label
	PreviousValue string
	At            time.Time
}

// AuditFunc runs inside the write transaction after the label row has been
// updated. Returning an error rolls the write back.
type AuditFunc func(ctx context.Context, tx *sql.Tx, result *WriteResult) error

// Store serializes writes per key and exposes read access to labels
type Store struct {
	repo  database.LabelRepository
	locks *keyedMutex
	now   func() time.Time
}

// NewStore creates a label store backed by repo
func NewStore(repo database.LabelRepository) *Store {
	return &Store{
		repo:  repo,
		locks: newKeyedMutex(),
		now:   time.Now,
	}
}

// Get returns the label with exactly this key
func (s *Store) Get(ctx context.Context, key string) (*models.Label, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	return s.repo.GetByKey(ctx, key)
}

// List returns all labels ordered by page, position, then key
func (s *Store) List(ctx context.Context) ([]*models.Label, error) {
	labels, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return labels, nil
}

// Resolve finds the label a user most likely meant by candidate.
// An exact case-insensitive key match wins; otherwise the first label in list
// order whose key or value contains the candidate is returned.
func (s *Store) Resolve(ctx context.Context, candidate string) (*models.Label, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil, ErrEmptyKey
	}

	labels, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	if exact, ok := lo.Find(labels, func(l *models.Label) bool {
		return strings.EqualFold(l.Key, candidate)
	}); ok {
		return exact, nil
	}

	needle := strings.ToLower(candidate)
	if fuzzy, ok := lo.Find(labels, func(l *models.Label) bool {
		return matches(l, needle)
	}); ok {
		return fuzzy, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrLabelNotFound, candidate)
}

// Search returns every label whose key or value contains query, case-insensitively
func (s *Store) Search(ctx context.Context, query string) ([]*models.Label, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	labels, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	return lo.Filter(labels, func(l *models.Label, _ int) bool {
		return matches(l, needle)
	}), nil
}

// Write swaps the value of req.Key while holding that key's lock. The previous
// value is read inside the transaction, and audit runs in that same transaction
// before commit.
func (s *Store) Write(ctx context.Context, req WriteRequest, audit AuditFunc) (*WriteResult, error) {
	if req.Key == "" {
		return nil, ErrEmptyKey
	}
	if strings.TrimSpace(req.Value) == "" {
		return nil, models.ErrInvalidValue
	}
	if req.Actor == "" {
		return nil, ErrEmptyActor
	}

	unlock := s.locks.Lock(req.Key)
	defer unlock()

	var result *WriteResult
	err := s.repo.WithTx(ctx, func(tx *sql.Tx) error {
		current, err := s.repo.GetByKeyTx(ctx, tx, req.Key)
		if err != nil {
			return err
		}

		at := s.now()
		updated, err := s.repo.UpdateValueTx(ctx, tx, current.ID, req.Value, req.Actor, at)
		if err != nil {
			return err
		}

		result = &WriteResult{
			Label:         updated,
			PreviousValue: current.Value,
			At:            at,
		}

		if audit != nil {
			if err := audit(ctx, tx, result); err != nil {
				return fmt.Errorf("audit failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func matches(l *models.Label, needle string) bool {
	return strings.Contains(strings.ToLower(l.Key), needle) ||
		strings.Contains(strings.ToLower(l.Value), needle)
}
