package search

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/databridge/databridge/internal/model"
)

// maxPageSize is the largest result count the Custom Search API returns per
// page; larger limits are satisfied by paging with the start offset.
const maxPageSize = 10

// Searcher is the acquisition capability the pipelines depend on. Search never
// returns an error: a transport or quota failure yields an empty slice and the
// condition is logged out of band. A failure while paging past the first page
// returns the snippets collected so far. Callers cannot distinguish "failed"
// from "zero results" by the return value alone.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) []model.SearchSnippet
}

type Client struct {
	svc     *customsearch.Service
	cx      string
	timeout time.Duration
}

func NewClient(ctx context.Context, apiKey, cseID string, timeout time.Duration) (*Client, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create customsearch service: %w", err)
	}
	return &Client{svc: svc, cx: cseID, timeout: timeout}, nil
}

func (c *Client) Search(ctx context.Context, query string, limit int) []model.SearchSnippet {
	logger := logutil.GetLogger(ctx).With(zap.String("query", query), zap.Int("limit", limit))
	if limit <= 0 {
		limit = maxPageSize
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	snippets := make([]model.SearchSnippet, 0, limit)
	for start := int64(1); len(snippets) < limit; {
		pageSize := int64(limit - len(snippets))
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
		resp, err := c.svc.Cse.List().
			Cx(c.cx).
			Q(query).
			Num(pageSize).
			Start(start).
			Context(ctx).
			Do()
		if err != nil {
			// a later page failing must not discard pages already collected
			logger.Error("search request failed", zap.Error(err), zap.Int("collected", len(snippets)))
			if len(snippets) == 0 {
				return nil
			}
			break
		}
		if len(resp.Items) == 0 {
			break
		}
		for _, item := range resp.Items {
			snippets = append(snippets, model.SearchSnippet{
				Title:       item.Title,
				URL:         item.Link,
				Description: item.Snippet,
			})
		}
		start += int64(len(resp.Items))
	}
	logger.Debug("search completed", zap.Int("results", len(snippets)))
	return snippets
}

// RenderSnippets joins snippets into the text block fed to the chunker,
// preserving rank order.
func RenderSnippets(snippets []model.SearchSnippet) string {
	text := ""
	for _, s := range snippets {
		text += fmt.Sprintf("\nTitle: %s\nSnippet: %s\n", s.Title, s.Description)
	}
	return text
}
