// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/thenoetrevino/relabel/internal/database"
)

// NavbarLabels is the two-label fixture most tests start from
var NavbarLabels = []database.SeedLabel{
	{Key: "about", Value: "About Us", Page: "navbar", Position: 1},
	{Key: "contact", Value: "Contact", Page: "navbar", Position: 2},
}

// NewRepository opens a migrated sqlite database in a temp directory and seeds labels.
// The database is closed by t.Cleanup.
func NewRepository(t testing.TB, labels ...database.SeedLabel) *database.Repository {
	t.Helper()

	db, err := database.InitDB(context.Background(), filepath.Join(t.TempDir(), "labels.db"))
	if err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	repo := database.NewRepository(db)
	t.Cleanup(func() { _ = repo.Close() })

	if len(labels) > 0 {
		if _, err := database.Seed(context.Background(), repo.Labels, labels); err != nil {
			t.Fatalf("Failed to seed labels: %v", err)
		}
	}
	return repo
}
