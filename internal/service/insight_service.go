package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/databridge/databridge/internal/model"
	"github.com/databridge/databridge/internal/search"
)

const insightResultLimit = 5

// Insights is the combined output of the three concurrent insight searches.
// The fields are independent; the branches that fill them have no ordering
// relationship.
type Insights struct {
	Competitors    []model.Competitor
	MarketInsights []string
	Trends         []string
}

type InsightService struct {
	searcher search.Searcher
}

func NewInsightService(searcher search.Searcher) *InsightService {
	return &InsightService{searcher: searcher}
}

// Generate fans out the competitor, market-trend, and news searches
// concurrently and joins all three before returning. There is no
// partial-result short circuit: every branch completes (or the shared context
// is cancelled) before the combined insights are assembled.
func (s *InsightService) Generate(ctx context.Context, businessName, location, industry string) (*Insights, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("business", businessName), zap.String("location", location))

	insights := &Insights{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snippets := s.searcher.Search(gctx, competitorQuery(businessName, location, industry), insightResultLimit)
		insights.Competitors = extractCompetitors(snippets)
		return gctx.Err()
	})
	g.Go(func() error {
		snippets := s.searcher.Search(gctx, marketQuery(businessName, location, industry), insightResultLimit)
		insights.MarketInsights = extractInsights(snippets)
		return gctx.Err()
	})
	g.Go(func() error {
		snippets := s.searcher.Search(gctx, newsQuery(businessName, location), insightResultLimit)
		insights.Trends = extractTrends(snippets)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("insights generated",
		zap.Int("competitors", len(insights.Competitors)),
		zap.Int("market_insights", len(insights.MarketInsights)),
		zap.Int("trends", len(insights.Trends)),
	)
	return insights, nil
}

func competitorQuery(businessName, location, industry string) string {
	query := fmt.Sprintf("%s competitors near %s", businessName, location)
	if industry != "" {
		query += " " + industry
	}
	return query
}

func marketQuery(businessName, location, industry string) string {
	subject := industry
	if subject == "" {
		subject = businessName
	}
	return fmt.Sprintf("%s market trends %s", subject, location)
}

func newsQuery(businessName, location string) string {
	return fmt.Sprintf("%s %s news", businessName, location)
}

func extractCompetitors(snippets []model.SearchSnippet) []model.Competitor {
	competitors := make([]model.Competitor, 0, len(snippets))
	for _, s := range snippets {
		if s.Title == "" && s.URL == "" {
			continue
		}
		competitors = append(competitors, model.Competitor{
			Name:        s.Title,
			URL:         s.URL,
			Description: s.Description,
		})
	}
	return competitors
}

func extractInsights(snippets []model.SearchSnippet) []string {
	insights := make([]string, 0, len(snippets))
	for _, s := range snippets {
		text := s.Description
		if text == "" {
			text = s.Title
		}
		if text == "" {
			continue
		}
		insights = append(insights, text)
	}
	return insights
}

func extractTrends(snippets []model.SearchSnippet) []string {
	trends := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if s.Title == "" {
			continue
		}
		trends = append(trends, s.Title)
	}
	return trends
}
