package persistence

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sessionlens/sessionlens/domain"
)

func fakeImage() []byte {
	image := make([]byte, 0, 512)
	image = append(image, []byte(sqliteMagic)...)
	for i := 0; i < 256; i++ {
		image = append(image, byte(i))
	}
	return image
}

func TestSnapshotRoundTrip(t *testing.T) {
	image := fakeImage()

	text, err := EncodeSnapshot(image)
	if err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}

	got, err := DecodeSnapshot(text)
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}
	if !bytes.Equal(got, image) {
		t.Fatalf("round trip mismatch: %d bytes in, %d out", len(image), len(got))
	}
}

func TestDecodeSnapshotCorrupt(t *testing.T) {
	cases := map[string]string{
		"not base64":  "%%% definitely not base64 %%%",
		"not gzip":    "aGVsbG8gd29ybGQ=",
		"wrong magic": mustEncode(t, []byte("PostgreSQL dump")),
	}

	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshot(text)
			if err == nil {
				t.Fatal("expected decode error")
			}
			if !errors.Is(err, domain.ErrSnapshotCorrupt) {
				t.Fatalf("expected ErrSnapshotCorrupt, got %v", err)
			}
			var perr *domain.PersistenceError
			if !errors.As(err, &perr) {
				t.Fatalf("expected PersistenceError, got %T", err)
			}
		})
	}
}

func mustEncode(t *testing.T, image []byte) string {
	t.Helper()
	text, err := EncodeSnapshot(image)
	if err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}
	return text
}
