package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/databridge/databridge/internal/model"
	"github.com/databridge/databridge/internal/search"
)

const searchResultLimit = 15

var dateKeywords = []string{
	"today", "tomorrow", "tonight",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var locationIndicators = []string{"at ", "in ", "venue: ", "location: "}

// Pipeline turns a location into structured event records by searching the web
// and heuristically parsing the returned snippets.
type Pipeline struct {
	searcher search.Searcher
}

func NewPipeline(searcher search.Searcher) *Pipeline {
	return &Pipeline{searcher: searcher}
}

// SearchLocalEvents runs one search for events around location and parses each
// snippet independently. A snippet that yields nothing is dropped; it never
// fails the batch.
func (p *Pipeline) SearchLocalEvents(ctx context.Context, location, eventType, dateRange string) []model.EventRecord {
	query := BuildQuery(location, eventType, dateRange)
	snippets := p.searcher.Search(ctx, query, searchResultLimit)

	records := make([]model.EventRecord, 0, len(snippets))
	for _, snippet := range snippets {
		if record, ok := ParseSnippet(snippet); ok {
			records = append(records, record)
		}
	}
	logutil.GetLogger(ctx).Info("local event search completed",
		zap.String("location", location),
		zap.Int("snippets", len(snippets)),
		zap.Int("events", len(records)),
	)
	return records
}

// BuildQuery assembles the composite event search query. The trailing terms
// bias results toward pages that list schedules rather than news coverage.
func BuildQuery(location, eventType, dateRange string) string {
	query := "events in " + location
	if eventType != "" {
		query += " " + eventType
	}
	if dateRange != "" {
		query += " " + dateRange
	}
	return query + " schedule dates tickets"
}

// ParseSnippet derives a best-effort event record from one snippet. Empty
// extracted fields mean the heuristics found nothing, which is not an error.
func ParseSnippet(snippet model.SearchSnippet) (model.EventRecord, bool) {
	if snippet.Title == "" && snippet.URL == "" && snippet.Description == "" {
		return model.EventRecord{}, false
	}
	text := snippet.Title + " " + snippet.Description
	return model.EventRecord{
		Title:             snippet.Title,
		URL:               snippet.URL,
		Description:       snippet.Description,
		ExtractedDate:     ExtractDate(text),
		ExtractedLocation: ExtractLocation(text),
		Source:            "Google Search",
	}, true
}

// ExtractDate returns the context around the first weekday, month, or
// relative-day keyword in text, or "" when none appears.
func ExtractDate(text string) string {
	lower := strings.ToLower(text)
	for _, keyword := range dateKeywords {
		pos := strings.Index(lower, keyword)
		if pos < 0 {
			continue
		}
		start := pos - 20
		if start < 0 {
			start = 0
		}
		end := pos + 30
		if end > len(text) {
			end = len(text)
		}
		return strings.TrimSpace(text[start:end])
	}
	return ""
}

// ExtractLocation returns the text following the first venue indicator,
// bounded by the next comma, period, or newline within a 50 character window.
func ExtractLocation(text string) string {
	lower := strings.ToLower(text)
	for _, indicator := range locationIndicators {
		pos := strings.Index(lower, indicator)
		if pos < 0 {
			continue
		}
		start := pos + len(indicator)
		end := start + 50
		if end > len(text) {
			end = len(text)
		}
		window := text[start:end]
		for _, delimiter := range []string{",", ".", "\n"} {
			if cut := strings.Index(window, delimiter); cut >= 0 {
				window = window[:cut]
				break
			}
		}
		return strings.TrimSpace(window)
	}
	return ""
}

// Summarize renders a deterministic numbered digest of events.
func Summarize(records []model.EventRecord) string {
	if len(records) == 0 {
		return "No events found."
	}
	var sb strings.Builder
	sb.WriteString("Here are the upcoming events in your area:\n\n")
	for i, record := range records {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, record.Title)
		if record.ExtractedDate != "" {
			fmt.Fprintf(&sb, "   When: %s\n", record.ExtractedDate)
		}
		if record.ExtractedLocation != "" {
			fmt.Fprintf(&sb, "   Where: %s\n", record.ExtractedLocation)
		}
		fmt.Fprintf(&sb, "   More info: %s\n\n", record.URL)
	}
	return sb.String()
}
