package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/databridge/databridge/internal/scanner"
	"github.com/databridge/databridge/internal/service"
)

// FeedScanJob polls each configured subreddit and hands the posts to the feed
// service. One subreddit failing never stops the sweep over the rest.
type FeedScanJob struct {
	client     *scanner.RedditClient
	feed       *service.FeedService
	subreddits []string
	limit      int
}

func NewFeedScanJob(client *scanner.RedditClient, feed *service.FeedService, subreddits []string, limit int) *FeedScanJob {
	return &FeedScanJob{
		client:     client,
		feed:       feed,
		subreddits: subreddits,
		limit:      limit,
	}
}

func (j *FeedScanJob) Name() string {
	return "feed_scan"
}

func (j *FeedScanJob) Run(ctx context.Context) error {
	if j.client == nil || j.feed == nil {
		return nil
	}
	logger := logutil.GetLogger(ctx)
	for _, subreddit := range j.subreddits {
		posts, err := j.client.FetchNewPosts(ctx, subreddit, j.limit)
		if err != nil {
			logger.Warn("subreddit scan failed", zap.String("subreddit", subreddit), zap.Error(err))
			continue
		}
		inserted, err := j.feed.Ingest(ctx, posts)
		if err != nil {
			logger.Warn("feed ingest failed", zap.String("subreddit", subreddit), zap.Error(err))
			continue
		}
		if inserted > 0 {
			logger.Info("new posts found", zap.String("subreddit", subreddit), zap.Int("inserted", inserted))
		}
	}
	return nil
}
