// Package app builds the analysis services shared by the server and the CLI
// from a loaded configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/analyzer"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/cache"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/config"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/courses"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/gateway"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/llm"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/pipeline"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/report"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/store"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/tavily"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/transcript"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/youtube"
)

// SearchCacheTTL bounds how long course searches are reused.
const SearchCacheTTL = 24 * time.Hour

// Services are the long-lived collaborators of an analysis run.
type Services struct {
	Gateway  *gateway.Client
	Workflow *pipeline.Workflow

	closers []io.Closer
}

// Options toggles optional stages on top of the configuration.
type Options struct {
	// DisableCourses skips the course scan even when a search key is set.
	DisableCourses bool
}

// Build wires the language model, video, transcript and search clients into
// a Workflow. c is required; use cache.NewMemoryCache when Redis is not set.
func Build(ctx context.Context, cfg *config.Config, c cache.Cache, opts Options) (*Services, error) {
	provider, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create AI provider: %w", err)
	}
	s := &Services{}
	if cl, ok := provider.(io.Closer); ok {
		s.closers = append(s.closers, cl)
	}
	slog.Info("AI provider initialized", "provider", provider.Name())

	gwOpts := []gateway.Option{gateway.WithRetry(cfg.Pipeline.RetryMax, cfg.Pipeline.RetryInitialDelay)}
	if cfg.Tavily.APIKey != "" {
		search := tavily.NewHTTPClient(cfg.Tavily.BaseURL, cfg.Tavily.APIKey, cfg.Tavily.Timeout)
		gwOpts = append(gwOpts, gateway.WithSearcher(tavily.NewCachedClient(search, c, SearchCacheTTL)))
	}
	s.Gateway = gateway.New(provider, gwOpts...)

	videos, err := youtube.NewAPIClient(ctx, cfg.YouTube.APIKey, cfg.YouTube.BaseURL)
	if err != nil {
		s.Close()
		return nil, err
	}

	var fetcher transcript.Fetcher
	if cfg.Supadata.APIKey != "" {
		fetcher = transcript.NewHTTPClient(cfg.Supadata.BaseURL, cfg.Supadata.APIKey, cfg.Supadata.Timeout)
	} else {
		slog.Warn("SUPADATA_API_KEY not set, transcripts fall back to video descriptions")
	}
	extractor := transcript.NewExtractor(fetcher, c)

	an := analyzer.New(s.Gateway, videos, extractor, analyzer.Config{
		MaxVideos:    cfg.Pipeline.MaxVideosPerSkill,
		RequestDelay: cfg.Pipeline.RequestDelay,
		PreviewChars: cfg.Pipeline.PreviewChars,
	}, nil)
	orchestrator := pipeline.NewOrchestrator(an, s.Gateway, cfg.Output.Dir)

	wfOpts := []pipeline.WorkflowOption{pipeline.WithReport(report.WritePDF, cfg.Output.PDFDir)}
	if cfg.CoursesEnabled() && !opts.DisableCourses {
		scanner := courses.NewScanner(s.Gateway,
			courses.WithSites(cfg.Courses.Sites),
			courses.WithResultsPerSite(cfg.Courses.ResultsPerSite),
			courses.WithSiteDelay(cfg.Courses.SiteDelay, nil),
		)
		wfOpts = append(wfOpts, pipeline.WithCourseScan(scanner, cfg.Pipeline.TopModules))
	}
	s.Workflow = pipeline.NewWorkflow(orchestrator, wfOpts...)
	return s, nil
}

// Close releases provider connections.
func (s *Services) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// NewCache connects to Redis when a URL is configured and falls back to the
// in-process cache otherwise.
func NewCache(ctx context.Context, cfg config.RedisConfig) (cache.Cache, error) {
	if cfg.URL == "" {
		slog.Info("REDIS_URL not set, using in-memory cache")
		return cache.NewMemoryCache(), nil
	}
	rc, err := cache.NewRedisCache(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("create redis cache: %w", err)
	}
	if err := rc.Ping(ctx); err != nil {
		rc.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")
	return rc, nil
}

// OpenStore connects to the run history database and applies migrations.
// It returns a nil Store when no database is configured.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	if cfg.URL == "" {
		slog.Info("DATABASE_URL not set, run history disabled")
		return nil, nil
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	slog.Info("database connected")

	if err := store.RunMigrations(cfg.URL); err != nil {
		st.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")
	return st, nil
}
