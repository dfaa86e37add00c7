package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sessionlens/sessionlens/persistence"
)

// Options configures a store bootstrap.
type Options struct {
	// Dir is the working directory for the database file. The file is a
	// throwaway working copy; the snapshot slot is the durable artifact.
	Dir string
	// KV is the external key-value slot holding the snapshot. Nil disables
	// persistence entirely.
	KV persistence.KV
	// Key is the snapshot slot key.
	Key string
	// WarnBytes is the encoded-size threshold above which snapshot writes
	// log a warning before still being attempted.
	WarnBytes int
}

// Open constructs a store: it restores the persisted snapshot when one
// decodes cleanly and falls back to a fresh schema otherwise. Restore
// failures are never fatal.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	path := filepath.Join(opts.Dir, "analytics.db")
	saver := &persistence.Saver{KV: opts.KV, Key: opts.Key, WarnBytes: opts.WarnBytes}

	restored := false
	if image, ok := saver.Load(); ok {
		if err := os.WriteFile(path, image, 0o644); err != nil {
			log.Printf("WARN: failed to write restored image, starting fresh: %v", err)
		} else {
			restored = true
		}
	}
	if !restored {
		_ = os.Remove(path)
	}

	db, err := open(path)
	if err != nil {
		if !restored {
			return nil, err
		}
		// The snapshot decoded but produced an unusable database. Fall
		// back to a fresh store rather than aborting startup.
		log.Printf("WARN: restored snapshot unusable, starting fresh: %v", err)
		_ = os.Remove(path)
		db, err = open(path)
		if err != nil {
			return nil, err
		}
	}

	return &Store{db: db, path: path, saver: saver}, nil
}

// Manager hands out one shared store instance. Concurrent bootstrap
// requests collapse onto a single in-flight initialization; a failed
// initialization is retried on the next request.
type Manager struct {
	opts  Options
	group singleflight.Group

	mu sync.Mutex
	st *Store
}

// NewManager creates a manager for the given bootstrap options.
func NewManager(opts Options) *Manager {
	return &Manager{opts: opts}
}

// Store returns the shared store, initializing it on first use.
func (m *Manager) Store(ctx context.Context) (*Store, error) {
	m.mu.Lock()
	if m.st != nil {
		st := m.st
		m.mu.Unlock()
		return st, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do("open", func() (any, error) {
		st, err := Open(ctx, m.opts)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.st = st
		m.mu.Unlock()
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}
