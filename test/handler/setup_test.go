package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/databridge/databridge/internal/events"
	"github.com/databridge/databridge/internal/handler"
	"github.com/databridge/databridge/internal/model"
	appErr "github.com/databridge/databridge/internal/pkg/errors"
	"github.com/databridge/databridge/internal/pkg/jwt"
	"github.com/databridge/databridge/internal/service"
)

var testJWTSecret = []byte("test-secret")

type envelope struct {
	Code    uint32          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type memSearcher struct {
	results map[string][]model.SearchSnippet
}

func (s *memSearcher) Search(ctx context.Context, query string, limit int) []model.SearchSnippet {
	return s.results[query]
}

type memFetcher struct{}

func (memFetcher) FetchURL(ctx context.Context, url string) (string, error) {
	return "fetched page text for " + url, nil
}

type memGenerator struct{}

func (memGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "generated text", nil
}

type memBusinessStore struct {
	profiles map[string]*model.BusinessProfile
}

func (s *memBusinessStore) Upsert(ctx context.Context, profile *model.BusinessProfile) error {
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *memBusinessStore) Get(ctx context.Context, userID string) (*model.BusinessProfile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return profile, nil
}

type memBusinessReportStore struct {
	reports []*model.BusinessReport
}

func (s *memBusinessReportStore) Insert(ctx context.Context, report *model.BusinessReport) error {
	s.reports = append(s.reports, report)
	return nil
}

func (s *memBusinessReportStore) GetLatestSince(ctx context.Context, userID string, cutoff int64) (*model.BusinessReport, error) {
	var latest *model.BusinessReport
	for _, report := range s.reports {
		if report.UserID != userID || report.GeneratedAt <= cutoff {
			continue
		}
		if latest == nil || report.GeneratedAt > latest.GeneratedAt {
			latest = report
		}
	}
	return latest, nil
}

type memReportStore struct {
	reports []*model.Report
}

func (s *memReportStore) Insert(ctx context.Context, report *model.Report) error {
	s.reports = append(s.reports, report)
	return nil
}

func (s *memReportStore) GetLatestSince(ctx context.Context, userID string, cutoff int64) (*model.Report, error) {
	var latest *model.Report
	for _, report := range s.reports {
		if report.UserID != userID || report.GeneratedAt <= cutoff {
			continue
		}
		if latest == nil || report.GeneratedAt > latest.GeneratedAt {
			latest = report
		}
	}
	return latest, nil
}

type memSummaryStore struct {
	summaries []*model.SearchSummary
}

func (s *memSummaryStore) Insert(ctx context.Context, summary *model.SearchSummary) error {
	s.summaries = append(s.summaries, summary)
	return nil
}

type memEventFetcher struct {
	listings []events.TicketmasterEvent
}

func (s *memEventFetcher) FetchEvents(ctx context.Context, location string) ([]events.TicketmasterEvent, error) {
	if events.ExtractPostalCode(location) == "" {
		return nil, appErr.ErrInvalid
	}
	return s.listings, nil
}

type memEventStore struct {
	items []model.Event
}

func (s *memEventStore) UpsertBatch(ctx context.Context, items []model.Event) error {
	s.items = append(s.items, items...)
	return nil
}

func (s *memEventStore) ListByMonth(ctx context.Context, userID, yearMonth string) ([]model.Event, error) {
	var out []model.Event
	for _, item := range s.items {
		if item.UserID == userID && item.YearMonth == yearMonth {
			out = append(out, item)
		}
	}
	return out, nil
}

type memFeedStore struct {
	posts []model.FeedPost
}

func (s *memFeedStore) InsertNew(ctx context.Context, posts []model.FeedPost) (int, error) {
	s.posts = append(s.posts, posts...)
	return len(posts), nil
}

func (s *memFeedStore) List(ctx context.Context) ([]model.FeedPost, error) {
	return s.posts, nil
}

type testEnv struct {
	router      http.Handler
	feedStore   *memFeedStore
	reportStore *memReportStore
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	searcher := &memSearcher{results: map[string][]model.SearchSnippet{
		"coffee shops": {{Title: "Best Coffee", URL: "https://example.com", Description: "top picks"}},
	}}
	reportStore := &memReportStore{}
	feedStore := &memFeedStore{}

	cfg := service.ReportConfig{ChunkSize: 1000, ChunkOverlap: 200, TopK: 8, Freshness: 7 * 24 * time.Hour}
	reportService := service.NewReportService(searcher, memFetcher{}, memGenerator{}, nil, nil, reportStore, cfg)
	insightService := service.NewInsightService(searcher)
	businessService := service.NewBusinessService(
		&memBusinessStore{profiles: make(map[string]*model.BusinessProfile)},
		&memBusinessReportStore{},
		insightService,
		7*24*time.Hour,
	)
	searchService := service.NewSearchService(searcher, memGenerator{}, nil, &memSummaryStore{}, cfg)
	eventService := service.NewEventService(&memEventFetcher{listings: []events.TicketmasterEvent{
		{EventID: "ev1", Name: "Jazz Night", StartDate: "2026-09-12T20:00:00Z"},
	}}, &memEventStore{})
	feedService := service.NewFeedService(feedStore)

	deps := handler.RouterDeps{
		Businesses: handler.NewBusinessHandler(businessService),
		Reports:    handler.NewReportHandler(reportService),
		Searches:   handler.NewSearchHandler(searchService),
		Events:     handler.NewEventHandler(eventService),
		Posts:      handler.NewPostHandler(feedService),
		JWTSecret:  testJWTSecret,
	}

	engine, err := webapi.NewEngine(
		"/api",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
	)
	require.NoError(t, err)
	return &testEnv{router: engine, feedStore: feedStore, reportStore: reportStore}
}

func authToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.GenerateToken(userID, userID+"@example.com", testJWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var env envelope
	if resp.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	}
	return resp, env
}
