package model

// EventRecord is derived from a SearchSnippet by heuristic parsing. Extraction
// is best-effort: an empty date or location means the heuristic found nothing,
// not that the record is broken.
type EventRecord struct {
	Title             string `json:"title"`
	URL               string `json:"url"`
	Description       string `json:"description"`
	ExtractedDate     string `json:"extracted_date"`
	ExtractedLocation string `json:"extracted_location"`
	Source            string `json:"source"`
}

// Event is a listing synced from the external event provider, keyed per user
// and calendar month.
type Event struct {
	UserID      string `json:"user_id"`
	EventID     string `json:"event_id"`
	YearMonth   string `json:"year_month"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	URL         string `json:"url,omitempty"`
	Venue       string `json:"venue,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}
