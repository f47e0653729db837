package model

type FeedPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Subreddit  string  `json:"subreddit"`
	Score      int64   `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	Content    string  `json:"content,omitempty"`
}
