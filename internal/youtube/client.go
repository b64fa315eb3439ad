// Package youtube discovers tutorial videos and their details through the
// YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

var ErrNotFound = errors.New("video not found")

// SearchItem is a discovered video before enrichment.
type SearchItem struct {
	VideoID string
	Title   string
	Channel string
}

// Video holds the details needed to describe a video in an analysis.
type Video struct {
	ID          string
	Title       string
	Channel     string
	Description string
	ViewCount   int64
	// Duration is the raw ISO-8601 content duration, e.g. PT12M5S.
	Duration string
}

// Client is the interface for video discovery.
type Client interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchItem, error)
	Video(ctx context.Context, id string) (*Video, error)
}

// APIClient implements Client on the official API bindings.
type APIClient struct {
	svc *yt.Service
}

// NewAPIClient creates a client authenticated with apiKey. A non-empty
// endpoint replaces the default API host.
func NewAPIClient(ctx context.Context, apiKey, endpoint string, opts ...option.ClientOption) (*APIClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &APIClient{svc: svc}, nil
}

// Search finds medium-length captioned videos ordered by relevance.
func (c *APIClient) Search(ctx context.Context, query string, maxResults int) ([]SearchItem, error) {
	resp, err := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		Order("relevance").
		MaxResults(int64(maxResults)).
		VideoDuration("medium").
		VideoCaption("closedCaption").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search %q: %w", query, err)
	}

	items := make([]SearchItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.Id == nil || it.Id.VideoId == "" {
			continue
		}
		item := SearchItem{VideoID: it.Id.VideoId}
		if it.Snippet != nil {
			item.Title = it.Snippet.Title
			item.Channel = it.Snippet.ChannelTitle
		}
		items = append(items, item)
	}
	return items, nil
}

// Video fetches snippet, statistics and content details for one video.
func (c *APIClient) Video(ctx context.Context, id string) (*Video, error) {
	resp, err := c.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(id).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube video %s: %w", id, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	item := resp.Items[0]
	v := &Video{ID: id, Duration: "PT0S"}
	if item.Snippet != nil {
		v.Title = item.Snippet.Title
		v.Channel = item.Snippet.ChannelTitle
		v.Description = item.Snippet.Description
	}
	if item.Statistics != nil {
		v.ViewCount = int64(item.Statistics.ViewCount)
	}
	if item.ContentDetails != nil && item.ContentDetails.Duration != "" {
		v.Duration = item.ContentDetails.Duration
	}
	return v, nil
}

var _ Client = (*APIClient)(nil)
