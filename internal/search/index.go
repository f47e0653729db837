package search

import (
	"context"
	"math"
	"sort"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/databridge/databridge/internal/ai"
)

// Index is an ephemeral in-memory similarity index over text chunks. It is
// built per pipeline invocation and discarded afterwards; nothing here is
// persisted. A chunk whose embedding failed stays in the index without a
// vector so the fallback path can still return it.
type Index struct {
	embedder ai.IEmbedder
	chunks   []string
	vectors  map[int][]float32
}

// BuildIndex embeds every chunk. Embedding failures never propagate: a chunk
// that cannot be embedded keeps its slot with no vector, and a fully failed
// build produces an index that TopK degrades to pass-through on.
func BuildIndex(ctx context.Context, embedder ai.IEmbedder, chunks []string) *Index {
	idx := &Index{
		embedder: embedder,
		chunks:   chunks,
		vectors:  make(map[int][]float32, len(chunks)),
	}
	if embedder == nil {
		return idx
	}
	logger := logutil.GetLogger(ctx)
	for i, chunk := range chunks {
		vec, err := embedder.Embed(ctx, chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			logger.Warn("embed chunk failed", zap.Int("position", i), zap.Error(err))
			continue
		}
		idx.vectors[i] = vec
	}
	logger.Debug("index built", zap.Int("chunks", len(chunks)), zap.Int("vectors", len(idx.vectors)))
	return idx
}

func (idx *Index) Len() int {
	return len(idx.chunks)
}

// TopK returns the k chunks most similar to query, in their original chunk
// order so acquisition ordering survives into the synthesis prompt. Without
// vectors (embedder missing or every embed failed) or when the query itself
// cannot be embedded, all chunks are returned unchanged.
func (idx *Index) TopK(ctx context.Context, query string, k int) []string {
	if len(idx.vectors) == 0 || idx.embedder == nil || k <= 0 || k >= len(idx.chunks) {
		return idx.chunks
	}
	queryVec, err := idx.embedder.Embed(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		logutil.GetLogger(ctx).Warn("embed query failed, returning all chunks", zap.Error(err))
		return idx.chunks
	}
	type match struct {
		position int
		score    float32
	}
	matches := make([]match, 0, len(idx.vectors))
	for pos, vec := range idx.vectors {
		matches = append(matches, match{position: pos, score: cosineSimilarity(queryVec, vec)})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].position < matches[j].position
	})
	if k > len(matches) {
		k = len(matches)
	}
	selected := matches[:k]
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].position < selected[j].position
	})
	result := make([]string, 0, k)
	for _, m := range selected {
		result = append(result, idx.chunks[m.position])
	}
	return result
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
