package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/databridge/databridge/internal/ai"
	"github.com/databridge/databridge/internal/events"
	"github.com/databridge/databridge/internal/model"
	appErr "github.com/databridge/databridge/internal/pkg/errors"
	"github.com/databridge/databridge/internal/search"
)

const reportPromptTemplate = `Based on the following search queries and content, generate a comprehensive report.

Search Queries:
%s

Content:
%s

Please create a detailed report that:
1. Summarizes the main findings
2. Identifies key patterns and insights
3. Provides relevant recommendations
4. Cites specific sources when appropriate
If the content contains no usable information, return a blank report instead of inventing one.

Report:
`

type reportStore interface {
	Insert(ctx context.Context, report *model.Report) error
	GetLatestSince(ctx context.Context, userID string, cutoff int64) (*model.Report, error)
}

type ReportConfig struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	Freshness    time.Duration
}

type GenerateReportInput struct {
	UserID        string
	Email         string
	SearchQueries []string
	URLs          []string
	Location      string
	BusinessName  string
}

// ReportService runs the full report pipeline: acquisition over queries and
// URLs, chunking, embedding, retrieval, one LLM synthesis call, the optional
// local-event merge, and the append-only persist behind the freshness gate.
type ReportService struct {
	searcher search.Searcher
	fetcher  search.PageFetcher
	gen      ai.IGenerator
	embedder ai.IEmbedder
	events   *events.Pipeline
	reports  reportStore
	cfg      ReportConfig
	now      func() time.Time
}

func NewReportService(
	searcher search.Searcher,
	fetcher search.PageFetcher,
	gen ai.IGenerator,
	embedder ai.IEmbedder,
	eventPipeline *events.Pipeline,
	reports reportStore,
	cfg ReportConfig,
) *ReportService {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = search.DefaultChunkSize
	}
	if cfg.ChunkOverlap <= 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = search.DefaultChunkOverlap
	}
	if cfg.Freshness <= 0 {
		cfg.Freshness = 7 * 24 * time.Hour
	}
	return &ReportService{
		searcher: searcher,
		fetcher:  fetcher,
		gen:      gen,
		embedder: embedder,
		events:   eventPipeline,
		reports:  reports,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Generate returns a fresh report id for the user. A stored report whose
// generated_at falls inside the rolling freshness window is reused without a
// synthesis call; otherwise a new report is generated and appended. The
// check-then-generate sequence is not atomic: two concurrent calls in a stale
// window may both generate, which is accepted (append-only, newest wins on
// the next read).
func (s *ReportService) Generate(ctx context.Context, input GenerateReportInput) (*model.Report, bool, error) {
	if input.UserID == "" {
		return nil, false, fmt.Errorf("%w: user id is required", appErr.ErrInvalid)
	}
	if len(input.SearchQueries) == 0 && len(input.URLs) == 0 {
		return nil, false, fmt.Errorf("%w: at least one search query or url is required", appErr.ErrInvalid)
	}
	logger := logutil.GetLogger(ctx).With(zap.String("user_id", input.UserID))

	cutoff := s.now().Add(-s.cfg.Freshness).Unix()
	existing, err := s.reports.GetLatestSince(ctx, input.UserID, cutoff)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		logger.Info("returning cached report", zap.String("report_id", existing.ID), zap.Int64("generated_at", existing.GeneratedAt))
		return existing, false, nil
	}

	content, err := s.synthesize(ctx, input.SearchQueries, input.URLs)
	if err != nil {
		return nil, false, err
	}

	var eventsSummary string
	var eventRecords []model.EventRecord
	if input.Location != "" && s.events != nil {
		eventRecords = s.events.SearchLocalEvents(ctx, input.Location, "", "")
		eventsSummary = events.Summarize(eventRecords)
	}

	now := s.now()
	report := &model.Report{
		ID:            newID(),
		UserID:        input.UserID,
		Email:         input.Email,
		SearchQueries: input.SearchQueries,
		URLs:          input.URLs,
		Content:       content,
		EventsSummary: eventsSummary,
		Events:        eventRecords,
		Status:        "completed",
		GeneratedAt:   now.Unix(),
		ValidUntil:    now.Add(s.cfg.Freshness).Unix(),
	}
	if err := s.reports.Insert(ctx, report); err != nil {
		return nil, false, err
	}
	logger.Info("report generated", zap.String("report_id", report.ID), zap.Int("events", len(eventRecords)))
	return report, true, nil
}

// GetFresh returns the user's newest report inside the freshness window, or
// ErrNotFound when every stored report has aged out.
func (s *ReportService) GetFresh(ctx context.Context, userID string) (*model.Report, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", appErr.ErrInvalid)
	}
	cutoff := s.now().Add(-s.cfg.Freshness).Unix()
	report, err := s.reports.GetLatestSince(ctx, userID, cutoff)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, appErr.ErrNotFound
	}
	return report, nil
}

// synthesize acquires content for every query and URL, selects the most
// relevant chunks, and makes exactly one model call. A transient model failure
// is not retried; it propagates to the caller as the generation error.
func (s *ReportService) synthesize(ctx context.Context, queries []string, urls []string) (string, error) {
	logger := logutil.GetLogger(ctx)

	var combined strings.Builder
	for _, query := range queries {
		snippets := s.searcher.Search(ctx, query, 0)
		combined.WriteString(search.RenderSnippets(snippets))
	}
	for _, rawURL := range urls {
		text, err := s.fetcher.FetchURL(ctx, rawURL)
		if err != nil {
			// one bad URL never aborts the batch
			logger.Warn("url fetch failed, skipping", zap.String("url", rawURL), zap.Error(err))
			continue
		}
		combined.WriteString("\n")
		combined.WriteString(text)
		combined.WriteString("\n")
	}

	chunks := search.Chunk(combined.String(), s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	index := search.BuildIndex(ctx, s.embedder, chunks)
	selected := index.TopK(ctx, strings.Join(queries, "\n"), s.cfg.TopK)

	prompt := fmt.Sprintf(reportPromptTemplate, strings.Join(queries, "\n"), strings.Join(selected, "\n\n"))
	content, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("synthesize report: %w", err)
	}
	return content, nil
}
