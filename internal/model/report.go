package model

type Report struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	Email         string        `json:"email,omitempty"`
	SearchQueries []string      `json:"search_queries"`
	URLs          []string      `json:"urls"`
	Content       string        `json:"content"`
	EventsSummary string        `json:"events_summary,omitempty"`
	Events        []EventRecord `json:"events,omitempty"`
	Status        string        `json:"status"`
	GeneratedAt   int64         `json:"generated_at"`
	ValidUntil    int64         `json:"valid_until"`
}

type Competitor struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// BusinessReport is the insight variant generated for a business profile.
// Rows are append-only; a new report is written on every regeneration.
type BusinessReport struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	Competitors    []Competitor `json:"local_competitors"`
	MarketInsights []string     `json:"market_insights"`
	TrendingTopics []string     `json:"trending_topics"`
	GeneratedAt    int64        `json:"generated_at"`
	ValidUntil     int64        `json:"valid_until"`
}

type SearchSummary struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Query     string `json:"query"`
	Summary   string `json:"summary"`
	CreatedAt int64  `json:"created_at"`
}
