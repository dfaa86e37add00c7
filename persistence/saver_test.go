package persistence

import (
	"testing"
)

func TestSaverRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	s := &Saver{KV: kv, Key: "slot"}

	image := fakeImage()
	s.Save(image)

	got, ok := s.Load()
	if !ok {
		t.Fatal("expected snapshot to load")
	}
	if len(got) != len(image) {
		t.Fatalf("expected %d bytes, got %d", len(image), len(got))
	}
}

func TestSaverMissingKey(t *testing.T) {
	s := &Saver{KV: NewMemoryKV(), Key: "slot"}
	if _, ok := s.Load(); ok {
		t.Fatal("expected no snapshot")
	}
}

func TestSaverCorruptSnapshot(t *testing.T) {
	kv := NewMemoryKV()
	if err := kv.Set("slot", "garbage"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	s := &Saver{KV: kv, Key: "slot"}
	if _, ok := s.Load(); ok {
		t.Fatal("corrupted snapshot must not load")
	}
}

func TestSaverQuotaRemovesStaleKey(t *testing.T) {
	kv := NewMemoryKV()
	if err := kv.Set("slot", "stale snapshot"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	kv.MaxValueBytes = 8

	s := &Saver{KV: kv, Key: "slot"}
	s.Save(fakeImage())

	if _, ok, _ := kv.Get("slot"); ok {
		t.Fatal("stale key must be removed after a quota rejection")
	}
}

func TestSaverNilKV(t *testing.T) {
	s := &Saver{}
	s.Save(fakeImage())
	s.Remove()
	if _, ok := s.Load(); ok {
		t.Fatal("nil KV must report no snapshot")
	}
}

func TestFileKV(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}

	if _, ok, _ := kv.Get("a/b"); ok {
		t.Fatal("expected missing key")
	}
	if err := kv.Set("a/b", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok, err := kv.Get("a/b")
	if err != nil || !ok || v != "value" {
		t.Fatalf("unexpected Get result: %q %v %v", v, ok, err)
	}
	if err := kv.Remove("a/b"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := kv.Remove("a/b"); err != nil {
		t.Fatalf("removing a missing key must not fail: %v", err)
	}
}
