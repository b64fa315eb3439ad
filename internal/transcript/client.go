// Package transcript extracts the spoken text of a video.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sentinel errors for transcript provider failures.
var (
	ErrUnavailable  = errors.New("transcript provider unavailable")
	ErrNoTranscript = errors.New("no transcript for video")
	ErrTimeout      = errors.New("transcript request timeout")
)

// Fetcher returns the plain-text transcript of a video.
type Fetcher interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

// HTTPClient implements Fetcher using the Supadata REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient creates a new Supadata client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Transcript(ctx context.Context, videoID string) (string, error) {
	params := url.Values{
		"videoId": {videoID},
		"text":    {"true"},
	}
	u := fmt.Sprintf("%s/youtube/transcript?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classifyError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNoTranscript, videoID)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding transcript response: %w", err)
	}

	text := strings.TrimSpace(body.Content)
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrNoTranscript, videoID)
	}
	return text, nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

type transcriptResponse struct {
	Content string `json:"content"`
	Lang    string `json:"lang"`
}

var _ Fetcher = (*HTTPClient)(nil)
