package domain

import (
	"errors"
	"fmt"
)

// ErrSnapshotCorrupt marks a snapshot that failed decoding. Callers fall
// back to a fresh store instead of aborting startup.
var ErrSnapshotCorrupt = errors.New("snapshot corrupt")

// ErrQuotaExceeded marks a key-value write rejected for capacity reasons.
var ErrQuotaExceeded = errors.New("kv quota exceeded")

// EngineError wraps a fault raised by the relational engine. The engine's
// message is preserved unmodified.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// PersistenceError wraps a snapshot read/write failure. These are always
// absorbed by the operation that triggered them, never surfaced.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError marks a malformed input record. During a batch load it
// causes that record to be skipped, never the batch to fail.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
