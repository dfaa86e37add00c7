package persistence

import (
	"errors"
	"log"

	"github.com/sessionlens/sessionlens/domain"
)

// Saver moves snapshots in and out of the KV slot. Save never returns an
// error: persistence failures must not fail the insert or clear that
// triggered them.
type Saver struct {
	KV  KV
	Key string
	// WarnBytes is the encoded-size threshold above which a warning is
	// logged before the write is still attempted. Zero disables the check.
	WarnBytes int
}

// Save encodes and writes the image. Quota rejections additionally remove
// the stale key so a later, smaller snapshot is not shadowed by an old one.
func (s *Saver) Save(image []byte) {
	if s.KV == nil {
		return
	}
	encoded, err := EncodeSnapshot(image)
	if err != nil {
		log.Printf("WARN: snapshot encode failed: %v", err)
		return
	}
	if s.WarnBytes > 0 && len(encoded) > s.WarnBytes {
		log.Printf("WARN: snapshot size %d exceeds threshold %d, attempting write anyway", len(encoded), s.WarnBytes)
	}
	if err := s.KV.Set(s.Key, encoded); err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			log.Printf("WARN: snapshot write rejected for capacity, removing stale key: %v", err)
			if rmErr := s.KV.Remove(s.Key); rmErr != nil {
				log.Printf("WARN: failed to remove stale snapshot key: %v", rmErr)
			}
			return
		}
		log.Printf("WARN: snapshot write failed: %v", err)
	}
}

// Load reads and decodes the persisted snapshot. A missing key, read
// failure or corrupted snapshot all report ok=false; the caller starts
// fresh.
func (s *Saver) Load() ([]byte, bool) {
	if s.KV == nil {
		return nil, false
	}
	text, ok, err := s.KV.Get(s.Key)
	if err != nil {
		log.Printf("WARN: snapshot read failed: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	image, err := DecodeSnapshot(text)
	if err != nil {
		log.Printf("WARN: discarding corrupted snapshot: %v", err)
		return nil, false
	}
	return image, true
}

// Remove deletes the snapshot key. Failures are logged and absorbed.
func (s *Saver) Remove() {
	if s.KV == nil {
		return
	}
	if err := s.KV.Remove(s.Key); err != nil {
		log.Printf("WARN: failed to remove snapshot key: %v", err)
	}
}
