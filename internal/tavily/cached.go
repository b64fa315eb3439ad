package tavily

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/cache"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

// Searcher is satisfied by HTTPClient and CachedClient.
type Searcher interface {
	Search(ctx context.Context, query string, opts models.SearchOptions) ([]models.SearchResult, error)
}

// CachedClient memoises successful searches. Course pages change rarely, so
// repeated runs for a role reuse earlier results.
type CachedClient struct {
	next  Searcher
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedClient(next Searcher, c cache.Cache, ttl time.Duration) *CachedClient {
	return &CachedClient{next: next, cache: c, ttl: ttl}
}

func (c *CachedClient) Search(ctx context.Context, query string, opts models.SearchOptions) ([]models.SearchResult, error) {
	key := cache.SearchKey(query, opts.Depth, strconv.Itoa(opts.MaxResults),
		strconv.FormatBool(opts.IncludeRawContent), strconv.FormatBool(opts.IncludeAnswer))

	if raw, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var results []models.SearchResult
		if err := json.Unmarshal(raw, &results); err == nil {
			return results, nil
		}
	}

	results, err := c.next.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(results); err == nil {
		if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
			slog.Warn("caching search results failed", "query", query, "error", err)
		}
	}
	return results, nil
}

var (
	_ Searcher = (*HTTPClient)(nil)
	_ Searcher = (*CachedClient)(nil)
)
