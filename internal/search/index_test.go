package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// vectorStubEmbedder returns a fixed vector per known text and fails on
// anything else.
type vectorStubEmbedder struct {
	vectors map[string][]float32
}

func (e *vectorStubEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	vec, ok := e.vectors[text]
	if !ok {
		return nil, errors.New("unknown text")
	}
	return vec, nil
}

func (e *vectorStubEmbedder) ModelName() string {
	return "stub"
}

func TestTopK_PreservesOriginalOrder(t *testing.T) {
	embedder := &vectorStubEmbedder{vectors: map[string][]float32{
		"first":  {0.1, 0.9},
		"second": {0.9, 0.1},
		"third":  {0.2, 0.8},
		"fourth": {0.85, 0.15},
		"query":  {1, 0},
	}}
	chunks := []string{"first", "second", "third", "fourth"}
	idx := BuildIndex(context.Background(), embedder, chunks)
	require.Equal(t, 4, idx.Len())

	// second and fourth score highest but must come back in chunk order
	got := idx.TopK(context.Background(), "query", 2)
	require.Equal(t, []string{"second", "fourth"}, got)
}

func TestTopK_NilEmbedderPassThrough(t *testing.T) {
	chunks := []string{"a", "b", "c"}
	idx := BuildIndex(context.Background(), nil, chunks)
	require.Equal(t, chunks, idx.TopK(context.Background(), "query", 2))
}

func TestTopK_KTooLargePassThrough(t *testing.T) {
	embedder := &vectorStubEmbedder{vectors: map[string][]float32{
		"a": {1, 0}, "b": {0, 1}, "query": {1, 0},
	}}
	chunks := []string{"a", "b"}
	idx := BuildIndex(context.Background(), embedder, chunks)
	require.Equal(t, chunks, idx.TopK(context.Background(), "query", 5))
}

func TestTopK_QueryEmbedFailurePassThrough(t *testing.T) {
	embedder := &vectorStubEmbedder{vectors: map[string][]float32{
		"a": {1, 0}, "b": {0, 1}, "c": {1, 1},
	}}
	chunks := []string{"a", "b", "c"}
	idx := BuildIndex(context.Background(), embedder, chunks)
	require.Equal(t, chunks, idx.TopK(context.Background(), "unembeddable", 2))
}

func TestBuildIndex_PartialEmbedFailureKeepsSlots(t *testing.T) {
	embedder := &vectorStubEmbedder{vectors: map[string][]float32{
		"a": {1, 0}, "c": {0, 1},
	}}
	chunks := []string{"a", "broken", "c"}
	idx := BuildIndex(context.Background(), embedder, chunks)
	require.Equal(t, 3, idx.Len())
	require.Len(t, idx.vectors, 2)
}

func TestCosineSimilarity(t *testing.T) {
	require.InDelta(t, 1.0, float64(cosineSimilarity([]float32{1, 0}, []float32{2, 0})), 1e-6)
	require.InDelta(t, 0.0, float64(cosineSimilarity([]float32{1, 0}, []float32{0, 1})), 1e-6)
	require.Equal(t, float32(0), cosineSimilarity([]float32{1}, []float32{1, 2}))
	require.Equal(t, float32(0), cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
