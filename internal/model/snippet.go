package model

// SearchSnippet is one ranked result from the external search capability.
// Instances are immutable once produced; slice order is the provider's
// relevance order and must be preserved downstream.
type SearchSnippet struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}
