package service

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/databridge/databridge/internal/model"
)

type businessStore interface {
	Upsert(ctx context.Context, profile *model.BusinessProfile) error
	Get(ctx context.Context, userID string) (*model.BusinessProfile, error)
}

type businessReportStore interface {
	Insert(ctx context.Context, report *model.BusinessReport) error
	GetLatestSince(ctx context.Context, userID string, cutoff int64) (*model.BusinessReport, error)
}

type insightGenerator interface {
	Generate(ctx context.Context, businessName, location, industry string) (*Insights, error)
}

type UpsertBusinessInput struct {
	BusinessName string `json:"business_name"`
	Location     string `json:"location"`
	Industry     string `json:"industry"`
	Website      string `json:"website"`
}

// BusinessService owns profile upserts and the freshness-gated insight report.
type BusinessService struct {
	businesses businessStore
	reports    businessReportStore
	insights   insightGenerator
	freshness  time.Duration
	cache      *expirable.LRU[string, *model.BusinessReport]
	now        func() time.Time
}

func NewBusinessService(businesses businessStore, reports businessReportStore, insights insightGenerator, freshness time.Duration) *BusinessService {
	if freshness <= 0 {
		freshness = 7 * 24 * time.Hour
	}
	// the in-process cache only shortcuts the stored-report lookup; the
	// repo remains the source of truth for the freshness decision
	cacheTTL := freshness
	if cacheTTL > time.Hour {
		cacheTTL = time.Hour
	}
	return &BusinessService{
		businesses: businesses,
		reports:    reports,
		insights:   insights,
		freshness:  freshness,
		cache:      expirable.NewLRU[string, *model.BusinessReport](1024, nil, cacheTTL),
		now:        time.Now,
	}
}

// CreateOrUpdate merge-writes the caller's profile. Calling twice with the
// same payload leaves a single profile row with the second write's fields.
func (s *BusinessService) CreateOrUpdate(ctx context.Context, userID string, input UpsertBusinessInput) (*model.BusinessProfile, error) {
	profile := &model.BusinessProfile{
		UserID:       userID,
		BusinessName: input.BusinessName,
		Location:     input.Location,
		Industry:     input.Industry,
		Website:      input.Website,
		UpdatedAt:    s.now().Unix(),
	}
	if err := s.businesses.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	s.cache.Remove(userID)
	return profile, nil
}

// GetReport implements the freshness gate: return the newest stored insight
// report inside the rolling window, otherwise regenerate from the profile.
// A missing profile is a NotFound condition; it is never auto-created.
func (s *BusinessService) GetReport(ctx context.Context, userID string) (*model.BusinessReport, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("user_id", userID))

	cutoff := s.now().Add(-s.freshness).Unix()
	if cached, ok := s.cache.Get(userID); ok && cached.GeneratedAt > cutoff {
		return cached, nil
	}
	stored, err := s.reports.GetLatestSince(ctx, userID, cutoff)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		s.cache.Add(userID, stored)
		return stored, nil
	}

	profile, err := s.businesses.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	insights, err := s.insights.Generate(ctx, profile.BusinessName, profile.Location, profile.Industry)
	if err != nil {
		return nil, err
	}
	now := s.now()
	report := &model.BusinessReport{
		ID:             newID(),
		UserID:         userID,
		Competitors:    insights.Competitors,
		MarketInsights: insights.MarketInsights,
		TrendingTopics: insights.Trends,
		GeneratedAt:    now.Unix(),
		ValidUntil:     now.Add(s.freshness).Unix(),
	}
	if err := s.reports.Insert(ctx, report); err != nil {
		return nil, err
	}
	s.cache.Add(userID, report)
	logger.Info("business report regenerated", zap.String("report_id", report.ID))
	return report, nil
}
