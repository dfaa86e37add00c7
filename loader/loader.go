// Package loader validates and inserts session batches atomically, with
// per-record failure containment.
package loader

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/sessionlens/sessionlens/domain"
	"github.com/sessionlens/sessionlens/store"
)

// Loader writes session batches through the engine adapter.
type Loader struct {
	store *store.Store
}

// New creates a loader writing to the given store.
func New(st *store.Store) *Loader {
	return &Loader{store: st}
}

// LoadBatch inserts a batch of session records in one transaction and
// returns how many were inserted. A malformed record is logged and
// skipped without aborting the batch; only a transaction-control failure
// makes LoadBatch return an error, after rolling the whole batch back.
// One snapshot write is triggered per successful commit, not per record.
func (l *Loader) LoadBatch(ctx context.Context, records []domain.SessionRecord) (int, error) {
	tx, err := l.store.Begin(ctx)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for i, rec := range records {
		if err := l.insertRecord(ctx, tx, i, rec); err != nil {
			log.Printf("WARN: skipping record %d (session %q): %v", i, rec.SessionID, err)
			continue
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return 0, &domain.EngineError{Op: "commit", Err: err}
	}

	l.store.Snapshot(ctx)
	return inserted, nil
}

// insertRecord writes one session with its messages and questions inside
// a savepoint, so a partially inserted record never survives its own
// failure.
func (l *Loader) insertRecord(ctx context.Context, tx *sql.Tx, i int, rec domain.SessionRecord) error {
	sess, msgs, questions, err := buildSession(rec)
	if err != nil {
		return err
	}

	sp := fmt.Sprintf("record_%d", i)
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
		return &domain.EngineError{Op: "savepoint", Err: err}
	}
	if err := insertRows(ctx, tx, sess, msgs, questions); err != nil {
		_, _ = tx.ExecContext(ctx, "ROLLBACK TO "+sp)
		_, _ = tx.ExecContext(ctx, "RELEASE "+sp)
		return err
	}
	if _, err := tx.ExecContext(ctx, "RELEASE "+sp); err != nil {
		return &domain.EngineError{Op: "savepoint release", Err: err}
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, sess domain.Session, msgs []domain.Message, questions []domain.Question) error {
	// Session first: messages and questions reference its id, and the
	// insertion order is what enforces referential integrity.
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (session_id, start_time, end_time, user_id,
			country, language, sentiment, escalated, forwarded_hr, category,
			summary, rating, duration_seconds, messages_sent, messages_total,
			avg_response_time, tokens, cost_cents, cost_eur, source_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.SessionID,
		sess.StartTime.UTC().Format(domain.TimeLayout),
		sess.EndTime.UTC().Format(domain.TimeLayout),
		sess.UserID,
		nullable(sess.Country), nullable(sess.Language), nullable(sess.Sentiment),
		sess.Escalated, sess.ForwardedHR,
		nullable(sess.Category), nullable(sess.Summary),
		sess.Rating,
		sess.DurationSeconds, sess.MessagesSent, sess.MessagesTotal,
		sess.AvgResponseTime, sess.Tokens, sess.CostCents, sess.CostEUR,
		nullable(sess.SourceURL))
	if err != nil {
		return &domain.EngineError{Op: "insert session", Err: err}
	}

	for _, m := range msgs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO messages (session_id, ts, role, content) VALUES (?, ?, ?, ?)`,
			m.SessionID, m.Timestamp.UTC().Format(domain.TimeLayout), m.Role, m.Content)
		if err != nil {
			return &domain.EngineError{Op: "insert message", Err: err}
		}
	}

	for _, q := range questions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO questions (session_id, content) VALUES (?, ?)`,
			q.SessionID, q.Content)
		if err != nil {
			return &domain.EngineError{Op: "insert question", Err: err}
		}
	}
	return nil
}

// buildSession validates a raw record and computes its derived fields.
func buildSession(rec domain.SessionRecord) (domain.Session, []domain.Message, []domain.Question, error) {
	if rec.SessionID == "" {
		return domain.Session{}, nil, nil, &domain.ValidationError{Field: "session_id", Reason: "missing"}
	}
	start, err := parseTime(rec.StartTime)
	if err != nil {
		return domain.Session{}, nil, nil, &domain.ValidationError{Field: "start_time", Reason: err.Error()}
	}
	end, err := parseTime(rec.EndTime)
	if err != nil {
		return domain.Session{}, nil, nil, &domain.ValidationError{Field: "end_time", Reason: err.Error()}
	}
	duration := end.Sub(start)
	if duration < 0 {
		return domain.Session{}, nil, nil, &domain.ValidationError{Field: "end_time", Reason: "before start_time"}
	}

	// Cost cents are the source of truth; the euro value is derived with
	// fixed rounding, not taken from the input.
	cents := int(math.Round(rec.Messages.Cost.EUR.Cent))

	sess := domain.Session{
		SessionID:       rec.SessionID,
		StartTime:       start,
		EndTime:         end,
		UserID:          anonymize(rec.User.IP),
		Country:         rec.User.Country,
		Language:        rec.User.Language,
		Sentiment:       rec.Sentiment,
		Escalated:       rec.Escalated,
		ForwardedHR:     rec.ForwardedHR,
		Category:        rec.Category,
		Summary:         rec.Summary,
		Rating:          rec.UserRating,
		DurationSeconds: int(duration.Seconds()),
		MessagesSent:    rec.Messages.Amount.User,
		MessagesTotal:   rec.Messages.Amount.Total,
		AvgResponseTime: rec.Messages.ResponseTime.Avg,
		Tokens:          rec.Messages.Tokens,
		CostCents:       cents,
		CostEUR:         float64(cents) / 100,
		SourceURL:       rec.Messages.SourceURL,
	}

	msgs := make([]domain.Message, 0, len(rec.Transcript))
	for _, t := range rec.Transcript {
		ts, err := parseTime(t.Timestamp)
		if err != nil {
			return domain.Session{}, nil, nil, &domain.ValidationError{Field: "transcript.timestamp", Reason: err.Error()}
		}
		msgs = append(msgs, domain.Message{
			SessionID: rec.SessionID,
			Timestamp: ts,
			Role:      t.Role,
			Content:   t.Content,
		})
	}

	questions := make([]domain.Question, 0, len(rec.Questions))
	for _, q := range rec.Questions {
		questions = append(questions, domain.Question{SessionID: rec.SessionID, Content: q})
	}

	return sess, msgs, questions, nil
}

// parseTime accepts RFC 3339 timestamps as well as the stored layout.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(domain.TimeLayout, s)
}

// anonymize hashes a client address so raw IPs never reach the engine.
func anonymize(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])[:16]
}

// nullable stores empty strings as SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
