package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sessionlens/sessionlens/domain"
)

// One explicit typed decoder per query shape: the aggregation layer can
// never receive mistyped fields from the engine boundary.

const rangeFilter = `start_time >= ? AND start_time <= ?`

// KPITotals carries the raw numbers behind the scalar KPIs. Averages are
// unrounded; the aggregation engine owns the rounding contract.
type KPITotals struct {
	Total          int
	UniqueUsers    int
	AvgDurationSec float64
	AvgResponseSec float64
	Resolved       int
	CostCents      int64
	ActiveDays     int
	AvgRating      *float64
}

// KPITotals runs the single scalar-KPI query for the range. If this query
// fails, the whole metrics call fails.
func (s *Store) KPITotals(ctx context.Context, r domain.Range) (KPITotals, error) {
	start, end := r.Bounds()
	var t KPITotals
	var rating sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT user_id),
		       COALESCE(AVG(duration_seconds), 0),
		       COALESCE(AVG(avg_response_time), 0),
		       COALESCE(SUM(CASE WHEN escalated = 0 AND forwarded_hr = 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(cost_cents), 0),
		       COUNT(DISTINCT date(start_time)),
		       AVG(rating)
		FROM sessions WHERE `+rangeFilter,
		start, end).
		Scan(&t.Total, &t.UniqueUsers, &t.AvgDurationSec, &t.AvgResponseSec,
			&t.Resolved, &t.CostCents, &t.ActiveDays, &rating)
	if err != nil {
		return KPITotals{}, &domain.EngineError{Op: "kpi", Err: err}
	}
	if rating.Valid {
		t.AvgRating = &rating.Float64
	}
	return t, nil
}

// PeakHour returns the busiest hour-of-day bucket ("00".."23") for the
// range, or ok=false when no rows match. Ties resolve by engine row order,
// which is not guaranteed stable.
func (s *Store) PeakHour(ctx context.Context, r domain.Range) (string, bool, error) {
	start, end := r.Bounds()
	var hour string
	err := s.db.QueryRowContext(ctx, `
		SELECT strftime('%H', start_time) AS hour
		FROM sessions WHERE `+rangeFilter+`
		GROUP BY hour ORDER BY COUNT(*) DESC LIMIT 1`,
		start, end).Scan(&hour)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, &domain.EngineError{Op: "peak hour", Err: err}
	}
	return hour, true, nil
}

// labelCounts decodes (label, count) rows. NULL labels scan as "".
func (s *Store) labelCounts(ctx context.Context, op, query string, args ...any) ([]domain.LabelCount, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.EngineError{Op: op, Err: err}
	}
	defer rows.Close()

	out := []domain.LabelCount{}
	for rows.Next() {
		var label sql.NullString
		var lc domain.LabelCount
		if err := rows.Scan(&label, &lc.Count); err != nil {
			return nil, &domain.EngineError{Op: op, Err: err}
		}
		lc.Label = label.String
		out = append(out, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.EngineError{Op: op, Err: err}
	}
	return out, nil
}

// SentimentCounts returns raw sentiment counts for the range.
func (s *Store) SentimentCounts(ctx context.Context, r domain.Range) ([]domain.LabelCount, error) {
	start, end := r.Bounds()
	return s.labelCounts(ctx, "sentiment counts", `
		SELECT sentiment, COUNT(*) FROM sessions
		WHERE `+rangeFilter+`
		GROUP BY sentiment ORDER BY COUNT(*) DESC`,
		start, end)
}

// ResolutionCounts classifies sessions into the three mutually exclusive
// resolution buckets. Escalated takes precedence over Forwarded to HR,
// which takes precedence over Resolved.
func (s *Store) ResolutionCounts(ctx context.Context, r domain.Range) ([]domain.LabelCount, error) {
	start, end := r.Bounds()
	return s.labelCounts(ctx, "resolution counts", `
		SELECT CASE
		         WHEN escalated = 1 THEN '`+domain.ResolutionEscalated+`'
		         WHEN forwarded_hr = 1 THEN '`+domain.ResolutionForwardedHR+`'
		         ELSE '`+domain.ResolutionResolved+`'
		       END AS status, COUNT(*)
		FROM sessions WHERE `+rangeFilter+`
		GROUP BY status ORDER BY COUNT(*) DESC`,
		start, end)
}

// CategoryCounts returns session counts per category; NULL categories are
// excluded.
func (s *Store) CategoryCounts(ctx context.Context, r domain.Range) ([]domain.LabelCount, error) {
	start, end := r.Bounds()
	return s.labelCounts(ctx, "category counts", `
		SELECT category, COUNT(*) FROM sessions
		WHERE `+rangeFilter+` AND category IS NOT NULL
		GROUP BY category ORDER BY COUNT(*) DESC`,
		start, end)
}

// QuestionCounts returns the most frequent question texts, raw and
// untruncated.
func (s *Store) QuestionCounts(ctx context.Context, r domain.Range, limit int) ([]domain.LabelCount, error) {
	start, end := r.Bounds()
	return s.labelCounts(ctx, "question counts", `
		SELECT q.content, COUNT(*) FROM questions q
		JOIN sessions s ON s.session_id = q.session_id
		WHERE s.`+rangeFilter+`
		GROUP BY q.content ORDER BY COUNT(*) DESC LIMIT ?`,
		start, end, limit)
}

// CountryCounts returns session counts per country code, most frequent
// first.
func (s *Store) CountryCounts(ctx context.Context, r domain.Range, limit int) ([]domain.LabelCount, error) {
	start, end := r.Bounds()
	return s.labelCounts(ctx, "country counts", `
		SELECT country, COUNT(*) FROM sessions
		WHERE `+rangeFilter+` AND country IS NOT NULL
		GROUP BY country ORDER BY COUNT(*) DESC LIMIT ?`,
		start, end, limit)
}

// LanguageCounts returns session counts per language code, most frequent
// first.
func (s *Store) LanguageCounts(ctx context.Context, r domain.Range, limit int) ([]domain.LabelCount, error) {
	start, end := r.Bounds()
	return s.labelCounts(ctx, "language counts", `
		SELECT language, COUNT(*) FROM sessions
		WHERE `+rangeFilter+` AND language IS NOT NULL
		GROUP BY language ORDER BY COUNT(*) DESC LIMIT ?`,
		start, end, limit)
}

// datePoints decodes (date, value) rows in chronological order.
func (s *Store) datePoints(ctx context.Context, op, query string, args ...any) ([]domain.DatePoint, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.EngineError{Op: op, Err: err}
	}
	defer rows.Close()

	out := []domain.DatePoint{}
	for rows.Next() {
		var p domain.DatePoint
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, &domain.EngineError{Op: op, Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.EngineError{Op: op, Err: err}
	}
	return out, nil
}

// SessionsPerDay returns daily session counts.
func (s *Store) SessionsPerDay(ctx context.Context, r domain.Range) ([]domain.DatePoint, error) {
	start, end := r.Bounds()
	return s.datePoints(ctx, "sessions per day", `
		SELECT date(start_time) AS d, CAST(COUNT(*) AS REAL)
		FROM sessions WHERE `+rangeFilter+`
		GROUP BY d ORDER BY d`,
		start, end)
}

// ResponseTimePerDay returns the unrounded daily mean response time.
func (s *Store) ResponseTimePerDay(ctx context.Context, r domain.Range) ([]domain.DatePoint, error) {
	start, end := r.Bounds()
	return s.datePoints(ctx, "response time per day", `
		SELECT date(start_time) AS d, AVG(avg_response_time)
		FROM sessions WHERE `+rangeFilter+`
		GROUP BY d ORDER BY d`,
		start, end)
}

// CostPerDay returns daily total cost in cents.
func (s *Store) CostPerDay(ctx context.Context, r domain.Range) ([]domain.DatePoint, error) {
	start, end := r.Bounds()
	return s.datePoints(ctx, "cost per day", `
		SELECT date(start_time) AS d, CAST(SUM(cost_cents) AS REAL)
		FROM sessions WHERE `+rangeFilter+`
		GROUP BY d ORDER BY d`,
		start, end)
}

// MessagesPerDay returns daily total message volume.
func (s *Store) MessagesPerDay(ctx context.Context, r domain.Range) ([]domain.DatePoint, error) {
	start, end := r.Bounds()
	return s.datePoints(ctx, "messages per day", `
		SELECT date(start_time) AS d, CAST(SUM(messages_total) AS REAL)
		FROM sessions WHERE `+rangeFilter+`
		GROUP BY d ORDER BY d`,
		start, end)
}

// SentimentPerDay returns the daily positive/neutral/negative triple in
// chronological order.
func (s *Store) SentimentPerDay(ctx context.Context, r domain.Range) ([]domain.SentimentDay, error) {
	start, end := r.Bounds()
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(start_time) AS d,
		       SUM(CASE WHEN sentiment = ? THEN 1 ELSE 0 END),
		       SUM(CASE WHEN sentiment = ? THEN 1 ELSE 0 END),
		       SUM(CASE WHEN sentiment = ? THEN 1 ELSE 0 END)
		FROM sessions WHERE `+rangeFilter+`
		GROUP BY d ORDER BY d`,
		domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative,
		start, end)
	if err != nil {
		return nil, &domain.EngineError{Op: "sentiment per day", Err: err}
	}
	defer rows.Close()

	out := []domain.SentimentDay{}
	for rows.Next() {
		var d domain.SentimentDay
		if err := rows.Scan(&d.Date, &d.Positive, &d.Neutral, &d.Negative); err != nil {
			return nil, &domain.EngineError{Op: "sentiment per day", Err: err}
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.EngineError{Op: "sentiment per day", Err: err}
	}
	return out, nil
}

// intColumn decodes a single integer column.
func (s *Store) intColumn(ctx context.Context, op, query string, args ...any) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.EngineError{Op: op, Err: err}
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, &domain.EngineError{Op: op, Err: err}
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.EngineError{Op: op, Err: err}
	}
	return out, nil
}

// DurationMinutes returns the raw per-session durations in rounded
// minutes, unbinned.
func (s *Store) DurationMinutes(ctx context.Context, r domain.Range) ([]int, error) {
	start, end := r.Bounds()
	return s.intColumn(ctx, "duration minutes", `
		SELECT CAST(ROUND(duration_seconds / 60.0) AS INTEGER)
		FROM sessions WHERE `+rangeFilter,
		start, end)
}

// MessageCounts returns the raw per-session message totals, unbinned.
func (s *Store) MessageCounts(ctx context.Context, r domain.Range) ([]int, error) {
	start, end := r.Bounds()
	return s.intColumn(ctx, "message counts", `
		SELECT messages_total FROM sessions WHERE `+rangeFilter,
		start, end)
}

// RatingCounts returns counts per discrete rating value 1..5.
func (s *Store) RatingCounts(ctx context.Context, r domain.Range) ([5]int, error) {
	start, end := r.Bounds()
	var counts [5]int
	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(rating AS INTEGER) AS v, COUNT(*)
		FROM sessions WHERE `+rangeFilter+` AND rating IS NOT NULL
		GROUP BY v`,
		start, end)
	if err != nil {
		return counts, &domain.EngineError{Op: "rating counts", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var v, n int
		if err := rows.Scan(&v, &n); err != nil {
			return counts, &domain.EngineError{Op: "rating counts", Err: err}
		}
		if v >= 1 && v <= 5 {
			counts[v-1] = n
		}
	}
	if err := rows.Err(); err != nil {
		return counts, &domain.EngineError{Op: "rating counts", Err: err}
	}
	return counts, nil
}

// CategoryAgg is one raw cost-by-category row.
type CategoryAgg struct {
	Category string
	Cents    int64
	Count    int
}

// CategoryCosts returns the top categories by total cost in cents.
func (s *Store) CategoryCosts(ctx context.Context, r domain.Range, limit int) ([]CategoryAgg, error) {
	start, end := r.Bounds()
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, SUM(cost_cents), COUNT(*)
		FROM sessions WHERE `+rangeFilter+` AND category IS NOT NULL
		GROUP BY category ORDER BY SUM(cost_cents) DESC LIMIT ?`,
		start, end, limit)
	if err != nil {
		return nil, &domain.EngineError{Op: "category costs", Err: err}
	}
	defer rows.Close()

	out := []CategoryAgg{}
	for rows.Next() {
		var a CategoryAgg
		if err := rows.Scan(&a.Category, &a.Cents, &a.Count); err != nil {
			return nil, &domain.EngineError{Op: "category costs", Err: err}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.EngineError{Op: "category costs", Err: err}
	}
	return out, nil
}

// SessionsInRange returns full session rows for the range, ordered by
// start time. Used by the CSV exporter.
func (s *Store) SessionsInRange(ctx context.Context, r domain.Range) ([]domain.Session, error) {
	start, end := r.Bounds()
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, start_time, end_time, user_id, country, language,
		       sentiment, escalated, forwarded_hr, category, summary, rating,
		       duration_seconds, messages_sent, messages_total,
		       avg_response_time, tokens, cost_cents, cost_eur, source_url
		FROM sessions WHERE `+rangeFilter+`
		ORDER BY start_time`,
		start, end)
	if err != nil {
		return nil, &domain.EngineError{Op: "sessions in range", Err: err}
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		var sess domain.Session
		var startRaw, endRaw string
		var country, language, sentiment, category, summary, sourceURL sql.NullString
		var rating sql.NullFloat64
		if err := rows.Scan(&sess.SessionID, &startRaw, &endRaw, &sess.UserID,
			&country, &language, &sentiment, &sess.Escalated, &sess.ForwardedHR,
			&category, &summary, &rating, &sess.DurationSeconds,
			&sess.MessagesSent, &sess.MessagesTotal, &sess.AvgResponseTime,
			&sess.Tokens, &sess.CostCents, &sess.CostEUR, &sourceURL); err != nil {
			return nil, &domain.EngineError{Op: "sessions in range", Err: err}
		}
		sess.StartTime, _ = time.Parse(domain.TimeLayout, startRaw)
		sess.EndTime, _ = time.Parse(domain.TimeLayout, endRaw)
		sess.Country = country.String
		sess.Language = language.String
		sess.Sentiment = sentiment.String
		sess.Category = category.String
		sess.Summary = summary.String
		sess.SourceURL = sourceURL.String
		if rating.Valid {
			sess.Rating = &rating.Float64
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.EngineError{Op: "sessions in range", Err: err}
	}
	return out, nil
}
