// Package export streams range-filtered session data as CSV for the
// dashboard's download button.
package export

import (
	"context"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/sessionlens/sessionlens/domain"
	"github.com/sessionlens/sessionlens/store"
)

// header is the fixed column set; it is not caller-configurable.
var header = []string{
	"session_id", "user_id", "country", "language",
	"start_time", "end_time", "duration_seconds",
	"messages_sent", "messages_total", "avg_response_time", "tokens",
	"cost_cents", "cost_eur",
	"sentiment", "escalated", "forwarded_hr", "category", "rating",
	"time", "date",
}

// Exporter renders matching sessions as CSV text.
type Exporter struct {
	store *store.Store
}

// New creates an exporter reading from the given store.
func New(st *store.Store) *Exporter {
	return &Exporter{store: st}
}

// ExportCSV returns one header row plus one row per session in the
// range, ordered by start time. Fields containing commas, quotes or
// newlines are quoted with embedded quotes doubled; NULLs render as
// empty fields. Zero matching rows returns exactly "" with no header.
func (e *Exporter) ExportCSV(ctx context.Context, r domain.Range) (string, error) {
	sessions, err := e.store.SessionsInRange(ctx, r)
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", nil
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, s := range sessions {
		if err := w.Write(row(s)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func row(s domain.Session) []string {
	rating := ""
	if s.Rating != nil {
		rating = strconv.FormatFloat(*s.Rating, 'f', -1, 64)
	}
	return []string{
		s.SessionID,
		s.UserID,
		s.Country,
		s.Language,
		s.StartTime.Format(domain.TimeLayout),
		s.EndTime.Format(domain.TimeLayout),
		strconv.Itoa(s.DurationSeconds),
		strconv.Itoa(s.MessagesSent),
		strconv.Itoa(s.MessagesTotal),
		strconv.FormatFloat(s.AvgResponseTime, 'f', 2, 64),
		strconv.Itoa(s.Tokens),
		strconv.Itoa(s.CostCents),
		strconv.FormatFloat(s.CostEUR, 'f', 2, 64),
		s.Sentiment,
		strconv.FormatBool(s.Escalated),
		strconv.FormatBool(s.ForwardedHR),
		s.Category,
		rating,
		s.StartTime.Format("15:04:05"),
		s.StartTime.Format("2006-01-02"),
	}
}
