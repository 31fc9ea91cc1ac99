package testutil

import (
	"path/filepath"
	"testing"

	"github.com/nhle/teamspace/internal/store"
)

// NewTestStore creates a SQLiteStore on a throwaway database file with
// all migrations applied. A file rather than :memory: so every pooled
// connection sees the same database. The store is closed when the test
// completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "teamspace.db"))
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
