// Package helpers provides shared test fixtures.
package helpers

import (
	"context"
	"testing"

	"github.com/sessionlens/sessionlens/persistence"
	"github.com/sessionlens/sessionlens/store"
)

// NewTestStore opens a throwaway store backed by an in-memory KV slot.
func NewTestStore(t *testing.T) (*store.Store, *persistence.MemoryKV) {
	t.Helper()

	kv := persistence.NewMemoryKV()
	st, err := store.Open(context.Background(), store.Options{
		Dir: t.TempDir(),
		KV:  kv,
		Key: "test/snapshot",
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		_ = st.Close()
	})

	return st, kv
}
