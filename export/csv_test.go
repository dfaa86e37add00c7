package export_test

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/sessionlens/sessionlens/domain"
	"github.com/sessionlens/sessionlens/export"
	"github.com/sessionlens/sessionlens/loader"
	"github.com/sessionlens/sessionlens/tests/helpers"
)

var base = time.Date(2024, 3, 10, 9, 30, 15, 0, time.UTC)

func wideRange() domain.Range {
	return domain.Range{Start: base.AddDate(0, 0, -1), End: base.AddDate(0, 0, 1)}
}

func TestExportCSVEmptyRange(t *testing.T) {
	st, _ := helpers.NewTestStore(t)
	e := export.New(st)

	text, err := e.ExportCSV(context.Background(), wideRange())
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if text != "" {
		t.Fatalf("zero matching rows must return the empty string, got %q", text)
	}
}

func TestExportCSVQuoting(t *testing.T) {
	ctx := context.Background()
	st, _ := helpers.NewTestStore(t)
	rec := helpers.Record("s1", base, helpers.WithCategory("Technical, Support"))
	if _, err := loader.New(st).LoadBatch(ctx, []domain.SessionRecord{rec}); err != nil {
		t.Fatalf("LoadBatch failed: %v", err)
	}

	text, err := export.New(st).ExportCSV(ctx, wideRange())
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if !strings.Contains(text, `"Technical, Support"`) {
		t.Fatalf("comma field must be quoted, got:\n%s", text)
	}

	// The output must round-trip through a CSV reader.
	rows, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}

	byName := map[string]string{}
	for i, col := range rows[0] {
		byName[col] = rows[1][i]
	}
	if byName["category"] != "Technical, Support" {
		t.Fatalf("category did not round-trip: %q", byName["category"])
	}
	if byName["session_id"] != "s1" {
		t.Fatalf("unexpected session_id %q", byName["session_id"])
	}
	if byName["date"] != "2024-03-10" {
		t.Fatalf("unexpected derived date %q", byName["date"])
	}
	if byName["time"] != "09:30:15" {
		t.Fatalf("unexpected derived time %q", byName["time"])
	}
	// No rating on this record: empty field, never the word "null".
	if byName["rating"] != "" {
		t.Fatalf("missing rating must render empty, got %q", byName["rating"])
	}
}

func TestExportCSVRatedSession(t *testing.T) {
	ctx := context.Background()
	st, _ := helpers.NewTestStore(t)
	rec := helpers.Record("s1", base, helpers.WithRating(4.5))
	if _, err := loader.New(st).LoadBatch(ctx, []domain.SessionRecord{rec}); err != nil {
		t.Fatalf("LoadBatch failed: %v", err)
	}

	text, err := export.New(st).ExportCSV(ctx, wideRange())
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	byName := map[string]string{}
	for i, col := range rows[0] {
		byName[col] = rows[1][i]
	}
	if byName["rating"] != "4.5" {
		t.Fatalf("unexpected rating %q", byName["rating"])
	}
	if byName["cost_eur"] != "1.50" {
		t.Fatalf("unexpected cost %q", byName["cost_eur"])
	}
}
