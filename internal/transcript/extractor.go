package transcript

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/cache"
)

const (
	// minDescriptionLen is the character count a description must exceed to stand in
	// for a transcript.
	minDescriptionLen = 100
	descriptionPrefix = "Video Description: "
	defaultCacheTTL   = 7 * 24 * time.Hour
)

// Extractor tries the transcript provider first and falls back to the video
// description. Provider transcripts are cached by video ID.
type Extractor struct {
	primary Fetcher
	cache   cache.Cache
	ttl     time.Duration
}

// NewExtractor creates an Extractor. primary and c may be nil.
func NewExtractor(primary Fetcher, c cache.Cache) *Extractor {
	return &Extractor{primary: primary, cache: c, ttl: defaultCacheTTL}
}

// Extract returns the best available text body for a video, or "" when no
// channel produced usable text.
func (e *Extractor) Extract(ctx context.Context, videoID, description string) string {
	if text := e.fromProvider(ctx, videoID); text != "" {
		return text
	}

	if utf8.RuneCountInString(description) > minDescriptionLen {
		slog.Info("using video description as transcript", "video_id", videoID)
		return descriptionPrefix + description
	}

	slog.Warn("all transcript extraction methods failed", "video_id", videoID)
	return ""
}

func (e *Extractor) fromProvider(ctx context.Context, videoID string) string {
	if e.primary == nil {
		return ""
	}

	key := cache.TranscriptKey(videoID)
	if e.cache != nil {
		if val, ok, err := e.cache.Get(ctx, key); err == nil && ok {
			return string(val)
		}
	}

	text, err := e.primary.Transcript(ctx, videoID)
	if err != nil {
		slog.Warn("transcript provider failed", "video_id", videoID, "error", err)
		return ""
	}

	slog.Info("extracted transcript", "video_id", videoID, "chars", len(text))
	if e.cache != nil {
		if err := e.cache.Set(ctx, key, []byte(text), e.ttl); err != nil {
			slog.Warn("caching transcript failed", "video_id", videoID, "error", err)
		}
	}
	return text
}
