package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/databridge/databridge/internal/ai"
	"github.com/databridge/databridge/internal/model"
	appErr "github.com/databridge/databridge/internal/pkg/errors"
	"github.com/databridge/databridge/internal/search"
)

const searchSummaryPrompt = `Summarize the following search results for the query "%s" into a concise, factual digest.
Keep key names, numbers, and sources. Output ONLY the summary text.

RESULTS:
%s`

type searchSummaryStore interface {
	Insert(ctx context.Context, summary *model.SearchSummary) error
}

type SearchResult struct {
	Query    string `json:"query"`
	Summary  string `json:"summary,omitempty"`
	SearchID string `json:"search_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

type BatchResult struct {
	RawResults      []model.SearchSnippet `json:"raw_results"`
	ProcessedChunks []string              `json:"processed_chunks"`
}

// SearchService backs the ad-hoc search endpoints: per-query summarization and
// the raw batch variant that skips the model entirely.
type SearchService struct {
	searcher     search.Searcher
	gen          ai.IGenerator
	embedder     ai.IEmbedder
	summaries    searchSummaryStore
	chunkSize    int
	chunkOverlap int
	topK         int
	now          func() time.Time
}

func NewSearchService(searcher search.Searcher, gen ai.IGenerator, embedder ai.IEmbedder, summaries searchSummaryStore, cfg ReportConfig) *SearchService {
	size := cfg.ChunkSize
	if size <= 0 {
		size = search.DefaultChunkSize
	}
	overlap := cfg.ChunkOverlap
	if overlap <= 0 || overlap >= size {
		overlap = search.DefaultChunkOverlap
	}
	return &SearchService{
		searcher:     searcher,
		gen:          gen,
		embedder:     embedder,
		summaries:    summaries,
		chunkSize:    size,
		chunkOverlap: overlap,
		topK:         cfg.TopK,
		now:          time.Now,
	}
}

// Run summarizes each query independently. A failure on one query is reported
// in that query's result entry and never aborts its siblings.
func (s *SearchService) Run(ctx context.Context, userID string, queries []string, numResults int) ([]SearchResult, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: queries are required", appErr.ErrInvalid)
	}
	logger := logutil.GetLogger(ctx).With(zap.String("user_id", userID))

	results := make([]SearchResult, 0, len(queries))
	for _, query := range queries {
		summary, err := s.summarizeQuery(ctx, query, numResults)
		if err != nil {
			logger.Warn("query summarization failed", zap.String("query", query), zap.Error(err))
			results = append(results, SearchResult{Query: query, Error: err.Error()})
			continue
		}
		record := &model.SearchSummary{
			ID:        newID(),
			UserID:    userID,
			Query:     query,
			Summary:   summary,
			CreatedAt: s.now().Unix(),
		}
		if err := s.summaries.Insert(ctx, record); err != nil {
			return nil, err
		}
		results = append(results, SearchResult{Query: query, Summary: summary, SearchID: record.ID})
	}
	return results, nil
}

// Batch returns raw snippets and processed chunks for all queries without
// invoking the model.
func (s *SearchService) Batch(ctx context.Context, queries []string, perQuery int) (*BatchResult, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: queries are required", appErr.ErrInvalid)
	}
	result := &BatchResult{
		RawResults:      []model.SearchSnippet{},
		ProcessedChunks: []string{},
	}
	var combined strings.Builder
	for _, query := range queries {
		snippets := s.searcher.Search(ctx, query, perQuery)
		result.RawResults = append(result.RawResults, snippets...)
		combined.WriteString(search.RenderSnippets(snippets))
	}
	result.ProcessedChunks = search.Chunk(combined.String(), s.chunkSize, s.chunkOverlap)
	return result, nil
}

func (s *SearchService) summarizeQuery(ctx context.Context, query string, numResults int) (string, error) {
	snippets := s.searcher.Search(ctx, query, numResults)
	text := search.RenderSnippets(snippets)
	chunks := search.Chunk(text, s.chunkSize, s.chunkOverlap)
	index := search.BuildIndex(ctx, s.embedder, chunks)
	selected := index.TopK(ctx, query, s.topK)

	prompt := fmt.Sprintf(searchSummaryPrompt, query, strings.Join(selected, "\n\n"))
	summary, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize query: %w", err)
	}
	return summary, nil
}
