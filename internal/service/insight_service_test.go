package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/databridge/databridge/internal/model"
)

func TestInsightGenerate_CombinesAllBranches(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]model.SearchSnippet{
		competitorQuery("Blue Bottle", "Oakland", "coffee"): {
			{Title: "Rival Roasters", URL: "https://rival.example.com", Description: "a nearby roastery"},
		},
		marketQuery("Blue Bottle", "Oakland", "coffee"): {
			{Title: "ignored", Description: "specialty coffee keeps growing"},
		},
		newsQuery("Blue Bottle", "Oakland"): {
			{Title: "Blue Bottle opens new cafe"},
		},
	}}
	svc := NewInsightService(searcher)

	insights, err := svc.Generate(context.Background(), "Blue Bottle", "Oakland", "coffee")
	require.NoError(t, err)
	require.Equal(t, []model.Competitor{{
		Name:        "Rival Roasters",
		URL:         "https://rival.example.com",
		Description: "a nearby roastery",
	}}, insights.Competitors)
	require.Equal(t, []string{"specialty coffee keeps growing"}, insights.MarketInsights)
	require.Equal(t, []string{"Blue Bottle opens new cafe"}, insights.Trends)
}

func TestInsightGenerate_EmptySearchesYieldEmptyInsights(t *testing.T) {
	svc := NewInsightService(&stubSearcher{})
	insights, err := svc.Generate(context.Background(), "Blue Bottle", "Oakland", "")
	require.NoError(t, err)
	require.Empty(t, insights.Competitors)
	require.Empty(t, insights.MarketInsights)
	require.Empty(t, insights.Trends)
}

func TestInsightQueries(t *testing.T) {
	require.Equal(t, "Blue Bottle competitors near Oakland coffee", competitorQuery("Blue Bottle", "Oakland", "coffee"))
	require.Equal(t, "Blue Bottle competitors near Oakland", competitorQuery("Blue Bottle", "Oakland", ""))
	require.Equal(t, "coffee market trends Oakland", marketQuery("Blue Bottle", "Oakland", "coffee"))
	require.Equal(t, "Blue Bottle market trends Oakland", marketQuery("Blue Bottle", "Oakland", ""))
	require.Equal(t, "Blue Bottle Oakland news", newsQuery("Blue Bottle", "Oakland"))
}

func TestExtractHelpers_SkipEmptySnippets(t *testing.T) {
	snippets := []model.SearchSnippet{
		{},
		{Title: "only title"},
		{Description: "only description"},
	}
	require.Len(t, extractCompetitors(snippets), 1)
	require.Equal(t, []string{"only title", "only description"}, extractInsights(snippets))
	require.Equal(t, []string{"only title"}, extractTrends(snippets))
}
