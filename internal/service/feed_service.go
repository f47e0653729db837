package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/databridge/databridge/internal/model"
)

type feedPostStore interface {
	InsertNew(ctx context.Context, posts []model.FeedPost) (int, error)
	List(ctx context.Context) ([]model.FeedPost, error)
}

// FeedService stores scanned posts, de-duplicating by URL so repeated polls of
// the same feed are idempotent.
type FeedService struct {
	store feedPostStore
}

func NewFeedService(store feedPostStore) *FeedService {
	return &FeedService{store: store}
}

// Ingest assigns ids to unidentified posts and inserts the unseen ones.
// Returns how many posts were actually new.
func (s *FeedService) Ingest(ctx context.Context, posts []model.FeedPost) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}
	for i := range posts {
		if posts[i].ID == "" {
			posts[i].ID = newID()
		}
	}
	inserted, err := s.store.InsertNew(ctx, posts)
	if err != nil {
		return inserted, err
	}
	logutil.GetLogger(ctx).Debug("feed posts ingested",
		zap.Int("received", len(posts)),
		zap.Int("inserted", inserted),
	)
	return inserted, nil
}

func (s *FeedService) List(ctx context.Context) ([]model.FeedPost, error) {
	posts, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.FeedPost{}
	}
	return posts, nil
}
