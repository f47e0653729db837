package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/databridge/databridge/internal/model"
	appErr "github.com/databridge/databridge/internal/pkg/errors"
)

type stubSummaryStore struct {
	inserted []*model.SearchSummary
	err      error
}

func (s *stubSummaryStore) Insert(ctx context.Context, summary *model.SearchSummary) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, summary)
	return nil
}

// failNthGenerator fails on call failAt (1-based) and succeeds otherwise.
type failNthGenerator struct {
	calls  int
	failAt int
	output string
}

func (g *failNthGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.calls == g.failAt {
		return "", errors.New("model overloaded")
	}
	return g.output, nil
}

func newTestSearchService(searcher *stubSearcher, gen *failNthGenerator, store *stubSummaryStore) *SearchService {
	svc := NewSearchService(searcher, gen, nil, store, ReportConfig{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TopK:         8,
	})
	svc.now = func() time.Time { return time.Unix(1_760_000_000, 0) }
	return svc
}

func TestSearchRun_RequiresQueries(t *testing.T) {
	svc := newTestSearchService(&stubSearcher{}, &failNthGenerator{}, &stubSummaryStore{})
	_, err := svc.Run(context.Background(), "u1", nil, 5)
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestSearchRun_PerQueryFailureIsolated(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]model.SearchSnippet{
		"good":   {{Title: "result", URL: "https://example.com", Description: "text"}},
		"broken": {{Title: "other", URL: "https://example.org", Description: "text"}},
	}}
	gen := &failNthGenerator{failAt: 1, output: "summary text"}
	store := &stubSummaryStore{}
	svc := newTestSearchService(searcher, gen, store)

	results, err := svc.Run(context.Background(), "u1", []string{"broken", "good"}, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, "broken", results[0].Query)
	require.NotEmpty(t, results[0].Error)
	require.Empty(t, results[0].SearchID)

	require.Equal(t, "good", results[1].Query)
	require.Equal(t, "summary text", results[1].Summary)
	require.NotEmpty(t, results[1].SearchID)

	require.Len(t, store.inserted, 1)
	require.Equal(t, "good", store.inserted[0].Query)
	require.Equal(t, "u1", store.inserted[0].UserID)
}

func TestSearchBatch_NoModelCall(t *testing.T) {
	searcher := &stubSearcher{results: map[string][]model.SearchSnippet{
		"a": {{Title: "first", URL: "https://a.example.com", Description: "da"}},
		"b": {{Title: "second", URL: "https://b.example.com", Description: "db"}},
	}}
	gen := &failNthGenerator{failAt: 1}
	svc := newTestSearchService(searcher, gen, &stubSummaryStore{})

	result, err := svc.Batch(context.Background(), []string{"a", "b"}, 5)
	require.NoError(t, err)
	require.Zero(t, gen.calls)
	require.Len(t, result.RawResults, 2)
	require.NotEmpty(t, result.ProcessedChunks)
}

func TestSearchBatch_RequiresQueries(t *testing.T) {
	svc := newTestSearchService(&stubSearcher{}, &failNthGenerator{}, &stubSummaryStore{})
	_, err := svc.Batch(context.Background(), nil, 5)
	require.ErrorIs(t, err, appErr.ErrInvalid)
}
