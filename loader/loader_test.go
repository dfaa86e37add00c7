package loader_test

import (
	"context"
	"testing"
	"time"

	"github.com/sessionlens/sessionlens/domain"
	"github.com/sessionlens/sessionlens/loader"
	"github.com/sessionlens/sessionlens/tests/helpers"
)

var base = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func TestLoadBatchAllValid(t *testing.T) {
	ctx := context.Background()
	st, _ := helpers.NewTestStore(t)
	l := loader.New(st)

	batch := []domain.SessionRecord{
		helpers.Record("s1", base),
		helpers.Record("s2", base.Add(time.Hour)),
		helpers.Record("s3", base.Add(2*time.Hour)),
	}

	n, err := l.LoadBatch(ctx, batch)
	if err != nil {
		t.Fatalf("LoadBatch failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 inserted, got %d", n)
	}
	if got := st.Stats(ctx).TotalSessions; got != 3 {
		t.Fatalf("expected 3 sessions in stats, got %d", got)
	}
}

func TestLoadBatchSkipsMissingID(t *testing.T) {
	ctx := context.Background()
	st, _ := helpers.NewTestStore(t)
	l := loader.New(st)

	batch := []domain.SessionRecord{
		helpers.Record("s1", base),
		helpers.Record("", base.Add(time.Hour)),
	}

	n, err := l.LoadBatch(ctx, batch)
	if err != nil {
		t.Fatalf("a malformed record must not fail the batch: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 inserted, got %d", n)
	}
}

func TestLoadBatchSkipsBadTimestamps(t *testing.T) {
	ctx := context.Background()
	st, _ := helpers.NewTestStore(t)
	l := loader.New(st)

	bad := helpers.Record("s1", base)
	bad.EndTime = "not a timestamp"
	reversed := helpers.Record("s2", base)
	reversed.EndTime = base.Add(-time.Hour).Format(time.RFC3339)

	n, err := l.LoadBatch(ctx, []domain.SessionRecord{bad, reversed, helpers.Record("s3", base)})
	if err != nil {
		t.Fatalf("LoadBatch failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 inserted, got %d", n)
	}
}

func TestLoadBatchDuplicateIDContained(t *testing.T) {
	ctx := context.Background()
	st, _ := helpers.NewTestStore(t)
	l := loader.New(st)

	n, err := l.LoadBatch(ctx, []domain.SessionRecord{
		helpers.Record("dup", base),
		helpers.Record("dup", base.Add(time.Hour)),
		helpers.Record("s2", base.Add(2*time.Hour)),
	})
	if err != nil {
		t.Fatalf("LoadBatch failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 inserted, got %d", n)
	}
	if got := st.Stats(ctx).TotalSessions; got != 2 {
		t.Fatalf("expected 2 sessions, got %d", got)
	}
}

func TestLoadBatchAnonymizesUser(t *testing.T) {
	ctx := context.Background()
	st, _ := helpers.NewTestStore(t)
	l := loader.New(st)

	rec := helpers.Record("s1", base, helpers.WithUser("192.0.2.7", "DE", "de"))
	if _, err := l.LoadBatch(ctx, []domain.SessionRecord{rec}); err != nil {
		t.Fatalf("LoadBatch failed: %v", err)
	}

	sessions, err := st.SessionsInRange(ctx, domain.Range{Start: base.Add(-time.Hour), End: base.Add(time.Hour)})
	if err != nil {
		t.Fatalf("SessionsInRange failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].UserID == "" || sessions[0].UserID == "192.0.2.7" {
		t.Fatalf("user id must be an anonymized hash, got %q", sessions[0].UserID)
	}
}

func TestLoadBatchDerivesCostFromCents(t *testing.T) {
	ctx := context.Background()
	st, _ := helpers.NewTestStore(t)
	l := loader.New(st)

	rec := helpers.Record("s1", base, helpers.WithCostCents(249.6))
	if _, err := l.LoadBatch(ctx, []domain.SessionRecord{rec}); err != nil {
		t.Fatalf("LoadBatch failed: %v", err)
	}

	sessions, err := st.SessionsInRange(ctx, domain.Range{Start: base.Add(-time.Hour), End: base.Add(time.Hour)})
	if err != nil {
		t.Fatalf("SessionsInRange failed: %v", err)
	}
	if sessions[0].CostCents != 250 {
		t.Fatalf("expected 250 cents, got %d", sessions[0].CostCents)
	}
	if sessions[0].CostEUR != 2.5 {
		t.Fatalf("expected 2.50 EUR derived from cents, got %v", sessions[0].CostEUR)
	}
}

func TestLoadBatchEmpty(t *testing.T) {
	ctx := context.Background()
	st, _ := helpers.NewTestStore(t)
	l := loader.New(st)

	n, err := l.LoadBatch(ctx, nil)
	if err != nil {
		t.Fatalf("LoadBatch failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 inserted, got %d", n)
	}
}

func TestLoadBatchWritesSnapshot(t *testing.T) {
	ctx := context.Background()
	st, kv := helpers.NewTestStore(t)
	l := loader.New(st)

	if _, err := l.LoadBatch(ctx, []domain.SessionRecord{helpers.Record("s1", base)}); err != nil {
		t.Fatalf("LoadBatch failed: %v", err)
	}
	if _, ok, _ := kv.Get("test/snapshot"); !ok {
		t.Fatal("expected a snapshot write after a successful commit")
	}
}
