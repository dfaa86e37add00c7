package domain

// Metrics holds the scalar KPIs for a date range. Zero-row ranges degrade
// to identity values (0, nil, "N/A") instead of failing.
type Metrics struct {
	TotalSessions      int      `json:"total_sessions"`
	UniqueUsers        int      `json:"unique_users"`
	AvgSessionMinutes  float64  `json:"avg_session_minutes"`
	AvgResponseSeconds float64  `json:"avg_response_seconds"`
	ResolvedPercent    float64  `json:"resolved_percent"`
	AvgDailyCostEUR    float64  `json:"avg_daily_cost_eur"`
	AvgRating          *float64 `json:"avg_rating"`
	PeakUsageTime      string   `json:"peak_usage_time"`
}

// LabelCount is one bucket of a categorical breakdown.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DatePoint is one entry of a daily time series, Date in YYYY-MM-DD.
type DatePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SentimentDay is the daily positive/neutral/negative triple.
type SentimentDay struct {
	Date     string `json:"date"`
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
}

// RatingDistribution counts ratings per discrete value 1..5.
// Average is nil when no session in range carries a rating.
type RatingDistribution struct {
	Counts  [5]int   `json:"counts"`
	Average *float64 `json:"average"`
}

// CategoryCost is one row of the cost-by-category breakdown.
type CategoryCost struct {
	Category string  `json:"category"`
	TotalEUR float64 `json:"total_eur"`
	AvgEUR   float64 `json:"avg_eur"`
	Count    int     `json:"count"`
}

// ChartData bundles every range-filtered breakdown and time series the
// dashboard renders. Duration and message-count arrays are handed off
// unbinned; histogram bucketing is a presentation concern.
type ChartData struct {
	Sentiment          []LabelCount       `json:"sentiment"`
	Resolution         []LabelCount       `json:"resolution"`
	Categories         []LabelCount       `json:"categories"`
	TopQuestions       []LabelCount       `json:"top_questions"`
	SessionsPerDay     []DatePoint        `json:"sessions_per_day"`
	ResponseTimePerDay []DatePoint        `json:"response_time_per_day"`
	CostPerDay         []DatePoint        `json:"cost_per_day"`
	MessagesPerDay     []DatePoint        `json:"messages_per_day"`
	SentimentPerDay    []SentimentDay     `json:"sentiment_per_day"`
	Countries          []LabelCount       `json:"countries"`
	Languages          []LabelCount       `json:"languages"`
	DurationMinutes    []int              `json:"duration_minutes"`
	MessageCounts      []int              `json:"message_counts"`
	Ratings            RatingDistribution `json:"ratings"`
	CostByCategory     []CategoryCost     `json:"cost_by_category"`
}
