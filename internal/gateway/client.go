// Package gateway wraps the language model and the search provider with the
// degradation rules the pipeline relies on: completions retry on rate limits
// and collapse to "" on failure, searches collapse to an empty result set.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/llm"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

const (
	defaultRetryMax     = 3
	defaultInitialDelay = 5 * time.Second
)

// Searcher runs a content search.
type Searcher interface {
	Search(ctx context.Context, query string, opts models.SearchOptions) ([]models.SearchResult, error)
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the SleepFunc backed by a real timer.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Client is the rate-limited entry point to external model and search APIs.
type Client struct {
	provider     llm.Provider
	searcher     Searcher
	retryMax     int
	initialDelay time.Duration
	sleep        SleepFunc
}

// Option configures a Client.
type Option func(*Client)

// WithSearcher sets the search provider. Without one Search always returns
// an empty set.
func WithSearcher(s Searcher) Option {
	return func(c *Client) { c.searcher = s }
}

// WithRetry overrides the attempt budget and the first backoff delay.
func WithRetry(max int, initialDelay time.Duration) Option {
	return func(c *Client) {
		if max > 0 {
			c.retryMax = max
		}
		if initialDelay > 0 {
			c.initialDelay = initialDelay
		}
	}
}

// WithSleep replaces the backoff timer.
func WithSleep(fn SleepFunc) Option {
	return func(c *Client) { c.sleep = fn }
}

// New creates a Client over provider.
func New(provider llm.Provider, opts ...Option) *Client {
	c := &Client{
		provider:     provider,
		retryMax:     defaultRetryMax,
		initialDelay: defaultInitialDelay,
		sleep:        Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasSearch reports whether a search provider is configured.
func (c *Client) HasSearch() bool { return c.searcher != nil }

// Complete returns the model's answer to prompt, or "" when none could be
// obtained. Rate-limit errors are retried with delay initialDelay*2^attempt;
// any other error ends the call immediately.
func (c *Client) Complete(ctx context.Context, prompt string) string {
	for attempt := 0; attempt < c.retryMax; attempt++ {
		text, err := c.provider.Complete(ctx, prompt)
		if err == nil {
			return text
		}

		if !llm.IsRateLimited(err) {
			slog.Error("language model call failed", "provider", c.provider.Name(), "error", err)
			return ""
		}

		if attempt == c.retryMax-1 {
			break
		}

		delay := c.initialDelay * time.Duration(1<<attempt)
		slog.Warn("language model rate limited, backing off",
			"provider", c.provider.Name(), "attempt", attempt+1, "delay", delay.String())
		if err := c.sleep(ctx, delay); err != nil {
			slog.Error("backoff interrupted", "error", err)
			return ""
		}
	}

	slog.Error("language model retries exhausted", "provider", c.provider.Name(), "attempts", c.retryMax)
	return ""
}

// Search runs query against the search provider. Failures yield an empty,
// non-nil result set.
func (c *Client) Search(ctx context.Context, query string, opts models.SearchOptions) []models.SearchResult {
	if c.searcher == nil {
		return []models.SearchResult{}
	}
	results, err := c.searcher.Search(ctx, query, opts)
	if err != nil {
		slog.Warn("search failed", "query", query, "error", err)
		return []models.SearchResult{}
	}
	if results == nil {
		return []models.SearchResult{}
	}
	return results
}
