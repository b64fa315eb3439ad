// Package analyzer produces the SkillAnalysis for a single role and skill:
// video discovery, enrichment, transcript extraction and model synthesis.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/gateway"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/youtube"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/textparse"
)

const (
	// NoContentSummary is reported when discovery finds no videos.
	NoContentSummary = "No content found"
	// FailedPlaceholder replaces every list when the model's answer could not
	// be parsed.
	FailedPlaceholder = "Analysis failed - please review manually"
)

// Completer is the rate-limited language model.
type Completer interface {
	Complete(ctx context.Context, prompt string) string
}

// Extractor returns the text body of a video, or "".
type Extractor interface {
	Extract(ctx context.Context, videoID, description string) string
}

// Config tunes discovery size and pacing.
type Config struct {
	MaxVideos    int
	RequestDelay time.Duration
	PreviewChars int
}

func (c Config) withDefaults() Config {
	if c.MaxVideos <= 0 {
		c.MaxVideos = 3
	}
	if c.PreviewChars <= 0 {
		c.PreviewChars = 800
	}
	return c
}

// SkillAnalyzer analyses one skill at a time. Videos are processed
// sequentially with a pause after each.
type SkillAnalyzer struct {
	llm         Completer
	videos      youtube.Client
	transcripts Extractor
	cfg         Config
	sleep       func(ctx context.Context, d time.Duration) error
}

// New creates a SkillAnalyzer. A nil sleep uses a real timer.
func New(llm Completer, videos youtube.Client, transcripts Extractor, cfg Config, sleep func(ctx context.Context, d time.Duration) error) *SkillAnalyzer {
	if sleep == nil {
		sleep = gateway.Sleep
	}
	return &SkillAnalyzer{
		llm:         llm,
		videos:      videos,
		transcripts: transcripts,
		cfg:         cfg.withDefaults(),
		sleep:       sleep,
	}
}

// Analyze never fails: missing data degrades into empty or placeholder
// fields.
func (a *SkillAnalyzer) Analyze(ctx context.Context, role, skill string) models.SkillAnalysis {
	slog.Info("processing skill", "role", role, "skill", skill)

	query := fmt.Sprintf("%s %s tutorial", role, skill)
	items, err := a.videos.Search(ctx, query, a.cfg.MaxVideos)
	if err != nil {
		slog.Error("video search failed", "skill", skill, "error", err)
		items = nil
	}
	if len(items) == 0 {
		slog.Warn("no videos found", "skill", skill)
		return models.EmptySkillAnalysis(skill, NoContentSummary)
	}

	contents := make([]models.VideoContent, 0, len(items))
	for _, item := range items {
		vc, ok := a.enrich(ctx, item)
		if !ok {
			continue
		}
		contents = append(contents, vc)

		if a.cfg.RequestDelay > 0 {
			if err := a.sleep(ctx, a.cfg.RequestDelay); err != nil {
				slog.Warn("video pacing interrupted", "skill", skill, "error", err)
				break
			}
		}
	}

	return a.synthesize(ctx, skill, contents)
}

func (a *SkillAnalyzer) enrich(ctx context.Context, item youtube.SearchItem) (models.VideoContent, bool) {
	details, err := a.videos.Video(ctx, item.VideoID)
	if err != nil {
		slog.Warn("could not get video details, skipping", "video_id", item.VideoID, "error", err)
		return models.VideoContent{}, false
	}

	return models.VideoContent{
		VideoID:    item.VideoID,
		Title:      details.Title,
		Channel:    details.Channel,
		ViewCount:  details.ViewCount,
		Duration:   youtube.FormatDuration(details.Duration),
		Transcript: a.transcripts.Extract(ctx, item.VideoID, details.Description),
	}, true
}

func (a *SkillAnalyzer) synthesize(ctx context.Context, skill string, contents []models.VideoContent) models.SkillAnalysis {
	if len(contents) == 0 {
		return models.EmptySkillAnalysis(skill, fmt.Sprintf("No video content available for %s", skill))
	}

	resp := a.llm.Complete(ctx, skillPrompt(skill, contents, a.cfg.PreviewChars))
	sections := textparse.ParseSections(resp)

	result := models.SkillAnalysis{
		Skill:         skill,
		Videos:        contents,
		Subskills:     sections.List(textparse.Subskills),
		KeyTakeaways:  sections.List(textparse.KeyTakeaways),
		ImportantInfo: sections.List(textparse.ImportantInfo),
		Summary:       sections.Text(textparse.Summary),
	}

	if len(result.Subskills) == 0 && len(result.KeyTakeaways) == 0 {
		slog.Warn("skill analysis could not be parsed", "skill", skill, "response_len", len(resp))
		result.Subskills = []string{FailedPlaceholder}
		result.KeyTakeaways = []string{FailedPlaceholder}
		result.ImportantInfo = []string{FailedPlaceholder}
		if result.Summary == "" {
			result.Summary = fmt.Sprintf("Analysis failed for %s. Videos were processed successfully.", skill)
		}
		return result
	}

	slog.Info("skill analysis completed", "skill", skill, "subskills", len(result.Subskills))
	return result
}
