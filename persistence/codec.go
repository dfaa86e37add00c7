// Package persistence turns the store's database image into a
// transport-safe text snapshot and moves it through an external
// key-value slot.
package persistence

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/sessionlens/sessionlens/domain"
)

// sqliteMagic is the header every valid database image starts with.
const sqliteMagic = "SQLite format 3\x00"

// EncodeSnapshot compresses and base64-encodes a database image.
func EncodeSnapshot(image []byte) (string, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(image); err != nil {
		return "", &domain.PersistenceError{Op: "encode", Err: err}
	}
	if err := zw.Close(); err != nil {
		return "", &domain.PersistenceError{Op: "encode", Err: err}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeSnapshot reverses EncodeSnapshot. Any corruption — bad base64,
// bad gzip, or a payload that is not a database image — yields a
// PersistenceError wrapping ErrSnapshotCorrupt; it is never fatal to the
// caller, who falls back to a fresh store.
func DecodeSnapshot(text string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, corrupt(fmt.Errorf("base64: %w", err))
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, corrupt(fmt.Errorf("gzip: %w", err))
	}
	defer zr.Close()

	image, err := io.ReadAll(zr)
	if err != nil {
		return nil, corrupt(fmt.Errorf("gzip: %w", err))
	}
	if !bytes.HasPrefix(image, []byte(sqliteMagic)) {
		return nil, corrupt(fmt.Errorf("not a database image"))
	}
	return image, nil
}

func corrupt(err error) error {
	return &domain.PersistenceError{
		Op:  "decode",
		Err: fmt.Errorf("%w: %v", domain.ErrSnapshotCorrupt, err),
	}
}
