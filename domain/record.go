package domain

// SessionRecord is the raw input shape for one session in a batch load.
// Field names mirror the upstream JSON export consumed by the dashboard.
type SessionRecord struct {
	SessionID   string            `json:"session_id"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	Transcript  []TranscriptEntry `json:"transcript"`
	Messages    MessageMetrics    `json:"messages"`
	User        UserInfo          `json:"user"`
	Sentiment   string            `json:"sentiment"`
	Escalated   bool              `json:"escalated"`
	ForwardedHR bool              `json:"forwarded_hr"`
	Category    string            `json:"category"`
	Questions   []string          `json:"questions"`
	Summary     string            `json:"summary"`
	UserRating  *float64          `json:"user_rating,omitempty"`
}

// TranscriptEntry is one message of a session transcript.
type TranscriptEntry struct {
	Timestamp string `json:"timestamp"`
	Role      string `json:"role"`
	Content   string `json:"content"`
}

// MessageMetrics carries the per-session message aggregates of the input
// format. Cost cents are the source of truth; the euro figure is derived.
type MessageMetrics struct {
	ResponseTime struct {
		Avg float64 `json:"avg"`
	} `json:"response_time"`
	Amount struct {
		User  int `json:"user"`
		Total int `json:"total"`
	} `json:"amount"`
	Tokens int `json:"tokens"`
	Cost   struct {
		EUR struct {
			Cent float64 `json:"cent"`
			Full float64 `json:"full"`
		} `json:"eur"`
	} `json:"cost"`
	SourceURL string `json:"source_url"`
}

// UserInfo is the unanonymized user block of the input format. IP is
// hashed by the loader before anything is written to the engine.
type UserInfo struct {
	IP       string `json:"ip"`
	Country  string `json:"country"`
	Language string `json:"language"`
}
