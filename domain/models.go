// Package domain defines the core domain models for the analytics store.
package domain

import "time"

// TimeLayout is the canonical timestamp format stored in the engine.
// All timestamps are normalized to UTC before storage so that SQLite's
// date functions and lexicographic range comparisons agree.
const TimeLayout = "2006-01-02 15:04:05"

// Sentiment values stored on a session.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Resolution status labels, in fixed priority order. A session with both
// flags set counts only as Escalated.
const (
	ResolutionEscalated   = "Escalated"
	ResolutionForwardedHR = "Forwarded to HR"
	ResolutionResolved    = "Resolved"
)

// Session is one complete chatbot conversation record with aggregate
// metrics and metadata. UserID is an anonymized hash; the raw client
// address never reaches the store.
type Session struct {
	SessionID       string    `json:"session_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	UserID          string    `json:"user_id"`
	Country         string    `json:"country"`
	Language        string    `json:"language"`
	Sentiment       string    `json:"sentiment"`
	Escalated       bool      `json:"escalated"`
	ForwardedHR     bool      `json:"forwarded_hr"`
	Category        string    `json:"category,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	Rating          *float64  `json:"rating,omitempty"`
	DurationSeconds int       `json:"duration_seconds"`
	MessagesSent    int       `json:"messages_sent"`
	MessagesTotal   int       `json:"messages_total"`
	AvgResponseTime float64   `json:"avg_response_time"`
	Tokens          int       `json:"tokens"`
	CostCents       int       `json:"cost_cents"`
	CostEUR         float64   `json:"cost_eur"`
	SourceURL       string    `json:"source_url,omitempty"`
}

// Message is a single transcript entry belonging to one session.
type Message struct {
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
}

// Question is one user question extracted from a session.
type Question struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

// Range is an inclusive [Start, End] window compared against stored
// session start timestamps.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Bounds returns the range endpoints in the stored timestamp format.
func (r Range) Bounds() (string, string) {
	return r.Start.UTC().Format(TimeLayout), r.End.UTC().Format(TimeLayout)
}

// Stats is the unfiltered store summary.
type Stats struct {
	TotalSessions int       `json:"total_sessions"`
	DateRange     DateRange `json:"date_range"`
}

// DateRange holds the earliest and latest stored session start times,
// empty when the store has no rows.
type DateRange struct {
	Min string `json:"min,omitempty"`
	Max string `json:"max,omitempty"`
}
