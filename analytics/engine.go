// Package analytics computes the range-filtered KPIs, breakdowns and
// time series behind the dashboard.
package analytics

import (
	"context"
	"math"
	"strings"

	"github.com/sessionlens/sessionlens/domain"
	"github.com/sessionlens/sessionlens/store"
)

const (
	topQuestions  = 5
	topCountries  = 10
	topLanguages  = 8
	topCategories = 10

	questionMaxLen = 50
)

// Engine answers aggregate queries against one store. Each query is
// independent and parameterized only by the caller's range.
type Engine struct {
	store *store.Store
}

// New creates an aggregation engine reading from the given store.
func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Metrics computes the scalar KPIs for an inclusive date range. A range
// matching zero rows degrades every field to its identity value; an
// engine fault fails the whole call with no partial result.
func (e *Engine) Metrics(ctx context.Context, r domain.Range) (*domain.Metrics, error) {
	t, err := e.store.KPITotals(ctx, r)
	if err != nil {
		return nil, err
	}

	m := &domain.Metrics{
		TotalSessions:      t.Total,
		UniqueUsers:        t.UniqueUsers,
		AvgSessionMinutes:  round1(t.AvgDurationSec / 60),
		AvgResponseSeconds: round1(t.AvgResponseSec),
		PeakUsageTime:      "N/A",
	}
	if t.Total > 0 {
		m.ResolvedPercent = round1(float64(t.Resolved) / float64(t.Total) * 100)
	}
	if t.ActiveDays > 0 {
		m.AvgDailyCostEUR = round2(float64(t.CostCents) / 100 / float64(t.ActiveDays))
	}
	if t.AvgRating != nil {
		avg := round1(*t.AvgRating)
		m.AvgRating = &avg
	}

	hour, ok, err := e.store.PeakHour(ctx, r)
	if err != nil {
		return nil, err
	}
	if ok {
		m.PeakUsageTime = hour + ":00"
	}
	return m, nil
}

// ChartData computes every breakdown and time series for the range.
// Country and language codes are resolved into display names for the
// caller's locale, falling back to the raw code.
func (e *Engine) ChartData(ctx context.Context, r domain.Range, locale string) (*domain.ChartData, error) {
	cd := &domain.ChartData{
		Sentiment:          []domain.LabelCount{},
		TopQuestions:       []domain.LabelCount{},
		ResponseTimePerDay: []domain.DatePoint{},
		CostPerDay:         []domain.DatePoint{},
		Countries:          []domain.LabelCount{},
		Languages:          []domain.LabelCount{},
		CostByCategory:     []domain.CategoryCost{},
	}

	sentiment, err := e.store.SentimentCounts(ctx, r)
	if err != nil {
		return nil, err
	}
	for _, lc := range sentiment {
		cd.Sentiment = append(cd.Sentiment, domain.LabelCount{
			Label: capitalize(lc.Label),
			Count: lc.Count,
		})
	}

	if cd.Resolution, err = e.store.ResolutionCounts(ctx, r); err != nil {
		return nil, err
	}
	if cd.Categories, err = e.store.CategoryCounts(ctx, r); err != nil {
		return nil, err
	}

	questions, err := e.store.QuestionCounts(ctx, r, topQuestions)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		cd.TopQuestions = append(cd.TopQuestions, domain.LabelCount{
			Label: questionLabel(q.Label),
			Count: q.Count,
		})
	}

	if cd.SessionsPerDay, err = e.store.SessionsPerDay(ctx, r); err != nil {
		return nil, err
	}
	respPerDay, err := e.store.ResponseTimePerDay(ctx, r)
	if err != nil {
		return nil, err
	}
	for _, p := range respPerDay {
		cd.ResponseTimePerDay = append(cd.ResponseTimePerDay, domain.DatePoint{
			Date: p.Date, Value: round1(p.Value),
		})
	}
	costPerDay, err := e.store.CostPerDay(ctx, r)
	if err != nil {
		return nil, err
	}
	for _, p := range costPerDay {
		cd.CostPerDay = append(cd.CostPerDay, domain.DatePoint{
			Date: p.Date, Value: round2(p.Value / 100),
		})
	}
	if cd.MessagesPerDay, err = e.store.MessagesPerDay(ctx, r); err != nil {
		return nil, err
	}
	if cd.SentimentPerDay, err = e.store.SentimentPerDay(ctx, r); err != nil {
		return nil, err
	}

	countries, err := e.store.CountryCounts(ctx, r, topCountries)
	if err != nil {
		return nil, err
	}
	for _, c := range countries {
		cd.Countries = append(cd.Countries, domain.LabelCount{
			Label: countryName(c.Label, locale),
			Count: c.Count,
		})
	}
	languages, err := e.store.LanguageCounts(ctx, r, topLanguages)
	if err != nil {
		return nil, err
	}
	for _, l := range languages {
		cd.Languages = append(cd.Languages, domain.LabelCount{
			Label: languageName(l.Label, locale),
			Count: l.Count,
		})
	}

	if cd.DurationMinutes, err = e.store.DurationMinutes(ctx, r); err != nil {
		return nil, err
	}
	if cd.MessageCounts, err = e.store.MessageCounts(ctx, r); err != nil {
		return nil, err
	}

	if cd.Ratings.Counts, err = e.store.RatingCounts(ctx, r); err != nil {
		return nil, err
	}
	kpi, err := e.store.KPITotals(ctx, r)
	if err != nil {
		return nil, err
	}
	if kpi.AvgRating != nil {
		avg := round1(*kpi.AvgRating)
		cd.Ratings.Average = &avg
	}

	costs, err := e.store.CategoryCosts(ctx, r, topCategories)
	if err != nil {
		return nil, err
	}
	for _, c := range costs {
		eur := float64(c.Cents) / 100
		cd.CostByCategory = append(cd.CostByCategory, domain.CategoryCost{
			Category: c.Category,
			TotalEUR: round2(eur),
			AvgEUR:   round4(eur / float64(c.Count)),
			Count:    c.Count,
		})
	}

	return cd, nil
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// questionLabel strips HTML angle brackets and truncates long questions
// to 50 characters with an ellipsis suffix.
func questionLabel(s string) string {
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	runes := []rune(s)
	if len(runes) > questionMaxLen {
		return string(runes[:questionMaxLen]) + "..."
	}
	return s
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
