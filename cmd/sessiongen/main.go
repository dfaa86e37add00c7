// Command sessiongen generates synthetic session batches for loading
// into the analytics store during development and demos.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sessionlens/sessionlens/domain"
)

var categories = []string{
	"Technical Support", "Billing", "Account Management",
	"Product Information", "General Inquiry", "Feature Request",
	"Bug Report", "Onboarding", "Unrecognized / Other",
}

var questions = []string{
	"How do I reset my password?",
	"What are your pricing plans?",
	"How can I upgrade my account?",
	"I'm having trouble logging in",
	"Can you explain this feature?",
	"How do I export my data?",
	"Is there a mobile app available?",
	"How secure is my data?",
	"Can I integrate with other tools?",
	"What's included in the free plan?",
	"How do I cancel my subscription?",
	"Can I get a demo?",
	"What payment methods do you accept?",
	"How do I add team members?",
	"Is there an API available?",
}

var (
	countries  = []string{"NL", "DE", "FR", "GB", "US", "ES", "IT", "BE", "PL", "SE"}
	languages  = []string{"en", "nl", "de", "fr", "es", "it", "pl", "sv"}
	sentiments = []string{"positive", "neutral", "negative"}
	roles      = []string{"User", "Assistant"}
)

var vocab = strings.Fields(
	"user clicked button saw error page loaded slowly feedback suggested feature " +
		"broken flow needs work improved filter sort option lag issue fixed release " +
		"beta test variant copy cta layout confusing clearer steps cart added removed quantity")

func main() {
	n := flag.Int("n", 100, "number of sessions to generate")
	out := flag.String("o", "sessions.json", "output file")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	days := flag.Int("days", 30, "spread sessions over this many days")
	noRating := flag.Bool("no-rating", false, "never include user_rating")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	anchor := time.Now().UTC().AddDate(0, 0, -*days)

	records := make([]domain.SessionRecord, 0, *n)
	for i := 0; i < *n; i++ {
		records = append(records, makeSession(rng, anchor, *days, !*noRating))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal records: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	log.Printf("Wrote %d sessions to %s", len(records), *out)
}

func makeSession(rng *rand.Rand, anchor time.Time, days int, withRating bool) domain.SessionRecord {
	sid := uuid.New().String()
	start := randTime(rng, anchor, days)
	end := randTime(rng, anchor, days)
	if end.Before(start) {
		start, end = end, start
	}

	rec := domain.SessionRecord{
		SessionID:   sid,
		StartTime:   start.Format(time.RFC3339),
		EndTime:     end.Format(time.RFC3339),
		Sentiment:   pick(rng, sentiments),
		Escalated:   rng.Intn(2) == 0,
		ForwardedHR: rng.Intn(2) == 0,
		Category:    pick(rng, categories),
		Summary:     sentence(rng, 10) + " " + sentence(rng, 10),
	}

	for i := 0; i < 3+rng.Intn(6); i++ {
		rec.Transcript = append(rec.Transcript, domain.TranscriptEntry{
			Timestamp: randTime(rng, anchor, days).Format(time.RFC3339),
			Role:      pick(rng, roles),
			Content:   sentence(rng, 8+rng.Intn(9)),
		})
	}

	rec.Messages.ResponseTime.Avg = round2(rng.Float64() * 120)
	rec.Messages.Amount.User = 1 + rng.Intn(10)
	rec.Messages.Amount.Total = 3 + rng.Intn(18)
	rec.Messages.Tokens = 50 + rng.Intn(4951)
	rec.Messages.Cost.EUR.Cent = round2(rng.Float64() * 500)
	rec.Messages.Cost.EUR.Full = round2(rec.Messages.Cost.EUR.Cent / 100)
	rec.Messages.SourceURL = "https://redacted.local/chat/" + sid

	rec.User.IP = fmt.Sprintf("%d.%d.%d.%d",
		1+rng.Intn(254), rng.Intn(256), rng.Intn(256), 1+rng.Intn(254))
	rec.User.Country = pick(rng, countries)
	rec.User.Language = pick(rng, languages)

	for _, q := range rng.Perm(len(questions))[:2+rng.Intn(4)] {
		rec.Questions = append(rec.Questions, questions[q])
	}

	if withRating && rng.Float64() < 0.8 {
		rating := []float64{1, 2, 3, 4, 5, 4.5}[rng.Intn(6)]
		rec.UserRating = &rating
	}
	return rec
}

func randTime(rng *rand.Rand, anchor time.Time, days int) time.Time {
	return anchor.
		AddDate(0, 0, rng.Intn(days+1)).
		Add(time.Duration(rng.Intn(86400)) * time.Second)
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

func sentence(rng *rand.Rand, words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = vocab[rng.Intn(len(vocab))]
	}
	s := strings.Join(parts, " ") + "."
	return strings.ToUpper(s[:1]) + s[1:]
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
