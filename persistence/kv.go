package persistence

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sessionlens/sessionlens/domain"
)

// KV is the external key-value slot holding the snapshot, the store's
// only durable artifact.
type KV interface {
	// Get returns the value and whether the key exists.
	Get(key string) (string, bool, error)
	// Set writes the value. Implementations return
	// domain.ErrQuotaExceeded when the write is rejected for capacity
	// reasons.
	Set(key, value string) error
	// Remove deletes the key. Removing a missing key is not an error.
	Remove(key string) error
}

// MemoryKV is an in-process KV slot, used in tests and when persistence
// across restarts is not wanted.
type MemoryKV struct {
	mu sync.Mutex
	m  map[string]string

	// MaxValueBytes rejects larger writes with ErrQuotaExceeded.
	// Zero means unlimited.
	MaxValueBytes int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string]string)}
}

func (kv *MemoryKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.m[key]
	return v, ok, nil
}

func (kv *MemoryKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.MaxValueBytes > 0 && len(value) > kv.MaxValueBytes {
		return domain.ErrQuotaExceeded
	}
	kv.m[key] = value
	return nil
}

func (kv *MemoryKV) Remove(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.m, key)
	return nil
}

// FileKV keeps one file per key under a directory.
type FileKV struct {
	Dir string
}

func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileKV{Dir: dir}, nil
}

func (kv *FileKV) path(key string) string {
	// Keys may contain separators; flatten them into a safe filename.
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(key)
	return filepath.Join(kv.Dir, name)
}

func (kv *FileKV) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(kv.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (kv *FileKV) Set(key, value string) error {
	return os.WriteFile(kv.path(key), []byte(value), 0o644)
}

func (kv *FileKV) Remove(key string) error {
	err := os.Remove(kv.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
