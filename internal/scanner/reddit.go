package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/databridge/databridge/internal/model"
	appErr "github.com/databridge/databridge/internal/pkg/errors"
)

const redditBaseURL = "https://www.reddit.com"

// RedditClient polls a subreddit's public new-listing JSON endpoint. No OAuth
// credential is needed for read-only listing access.
type RedditClient struct {
	userAgent string
	client    *http.Client
}

func NewRedditClient(userAgent string, timeout time.Duration) *RedditClient {
	return &RedditClient{
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				URL        string  `json:"url"`
				Score      int64   `json:"score"`
				CreatedUTC float64 `json:"created_utc"`
				SelfText   string  `json:"selftext"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (c *RedditClient) FetchNewPosts(ctx context.Context, subreddit string, limit int) ([]model.FeedPost, error) {
	if limit <= 0 {
		limit = 10
	}
	endpoint := fmt.Sprintf("%s/r/%s/new.json?limit=%s", redditBaseURL, subreddit, strconv.Itoa(limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: reddit status %s: %s", appErr.ErrUpstream, resp.Status, strings.TrimSpace(string(raw)))
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("%w: decode reddit listing: %v", appErr.ErrUpstream, err)
	}
	posts := make([]model.FeedPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, model.FeedPost{
			Title:      child.Data.Title,
			URL:        child.Data.URL,
			Subreddit:  subreddit,
			Score:      child.Data.Score,
			CreatedUTC: child.Data.CreatedUTC,
			Content:    child.Data.SelfText,
		})
	}
	return posts, nil
}
