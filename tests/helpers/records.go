package helpers

import (
	"time"

	"github.com/sessionlens/sessionlens/domain"
)

// RecordOption mutates a fixture record.
type RecordOption func(*domain.SessionRecord)

// Record builds a well-formed session record fixture.
func Record(id string, start time.Time, opts ...RecordOption) domain.SessionRecord {
	rec := domain.SessionRecord{
		SessionID: id,
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Add(5 * time.Minute).Format(time.RFC3339),
		Transcript: []domain.TranscriptEntry{
			{Timestamp: start.Format(time.RFC3339), Role: "User", Content: "hello"},
			{Timestamp: start.Add(time.Minute).Format(time.RFC3339), Role: "Assistant", Content: "hi"},
		},
		Sentiment: domain.SentimentNeutral,
		Category:  "General Inquiry",
		Questions: []string{"How do I reset my password?"},
		Summary:   "short exchange",
	}
	rec.Messages.ResponseTime.Avg = 10
	rec.Messages.Amount.User = 2
	rec.Messages.Amount.Total = 4
	rec.Messages.Tokens = 100
	rec.Messages.Cost.EUR.Cent = 150
	rec.Messages.SourceURL = "https://example.test/chat/" + id
	rec.User.IP = "10.0.0.1"
	rec.User.Country = "NL"
	rec.User.Language = "nl"

	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// WithRating sets the optional user rating.
func WithRating(v float64) RecordOption {
	return func(rec *domain.SessionRecord) { rec.UserRating = &v }
}

// WithSentiment overrides the sentiment.
func WithSentiment(s string) RecordOption {
	return func(rec *domain.SessionRecord) { rec.Sentiment = s }
}

// WithFlags sets the escalated and forwarded-to-HR flags.
func WithFlags(escalated, forwardedHR bool) RecordOption {
	return func(rec *domain.SessionRecord) {
		rec.Escalated = escalated
		rec.ForwardedHR = forwardedHR
	}
}

// WithCategory overrides the category; empty stores NULL.
func WithCategory(c string) RecordOption {
	return func(rec *domain.SessionRecord) { rec.Category = c }
}

// WithCostCents overrides the cost in cents.
func WithCostCents(cents float64) RecordOption {
	return func(rec *domain.SessionRecord) { rec.Messages.Cost.EUR.Cent = cents }
}

// WithUser overrides the user block.
func WithUser(ip, country, language string) RecordOption {
	return func(rec *domain.SessionRecord) {
		rec.User.IP = ip
		rec.User.Country = country
		rec.User.Language = language
	}
}

// WithQuestions overrides the question list.
func WithQuestions(qs ...string) RecordOption {
	return func(rec *domain.SessionRecord) { rec.Questions = qs }
}

// WithDuration stretches the session to the given length.
func WithDuration(d time.Duration) RecordOption {
	return func(rec *domain.SessionRecord) {
		start, _ := time.Parse(time.RFC3339, rec.StartTime)
		rec.EndTime = start.Add(d).Format(time.RFC3339)
	}
}
