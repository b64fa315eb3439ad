// Package main is the entrypoint for the career analysis API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/api"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/api/handler"
	mw "github.com/thomthomthomas/SMART-CAREER-Singapore/internal/api/middleware"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/app"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/cache"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/config"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/jobs"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/logging"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/roles"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/scheduler"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid config
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog := logging.New(logging.Options{
		Level: cfg.Log.SlogLevel(),
		JSON:  cfg.IsProduction(),
		File:  cfg.Log.File,
	})
	defer closeLog()
	slog.SetDefault(logger)
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Cache: Redis when configured, in-process otherwise
	c, err := app.NewCache(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer c.Close()

	// 3. Optional run history
	st, err := app.OpenStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	// 4. Analysis services
	svc, err := app.Build(ctx, cfg, c, app.Options{})
	if err != nil {
		return err
	}
	defer svc.Close()

	opts := []jobs.Option{jobs.WithCache(c, jobs.DefaultStatusTTL)}
	if st != nil {
		opts = append(opts, jobs.WithStore(st))
	}
	tracker := jobs.NewTracker(svc.Workflow, opts...)

	// 5. Scheduled re-analysis
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		reqs, err := scheduler.ParseRoles(cfg.Scheduler.Roles)
		if err != nil {
			return fmt.Errorf("parse scheduler roles: %w", err)
		}
		sched, err = scheduler.New(tracker, cfg.Scheduler.Cron, reqs)
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		sched.Start()
	}

	// 6. Build router with dependencies
	catalogue := roles.NewCatalogue(cfg.Output.Dir, cfg.Output.PDFDir)
	deps := newDependencies(cfg, c, st, tracker, catalogue, roles.NewProfiler(svc.Gateway, c))
	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr, "auth", deps.Auth.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sched != nil {
		sched.Stop(shutdownTimeout)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := tracker.Wait(shutdownCtx); err != nil {
		slog.Warn("analysis still running at shutdown", "error", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newDependencies wires handlers for every route. The run history endpoint
// stays unwired when no database is configured.
func newDependencies(cfg *config.Config, c cache.Cache, st store.Store, tracker handler.Tracker,
	catalogue handler.Catalogue, profiler handler.Profiler) api.Dependencies {
	checks := map[string]handler.Pinger{"cache": c, "database": nil}
	deps := api.Dependencies{
		Auth:      mw.NewAuth(cfg.API.KeyHashes),
		RateLimit: mw.NewRateLimit(c, cfg.API.RateLimitPerMinute),

		StartAnalysisHandler:  handler.NewStartAnalysisHandler(tracker),
		AnalysisStatusHandler: handler.NewAnalysisStatusHandler(tracker),
		AnalysisResultHandler: handler.NewAnalysisResultHandler(tracker),

		ChatHandler: handler.NewChatHandler(),

		ListRolesHandler:    handler.NewListRolesHandler(catalogue),
		GetRoleHandler:      handler.NewGetRoleHandler(catalogue, profiler),
		RoleMarkdownHandler: handler.NewRoleMarkdownHandler(catalogue),
		RolePDFHandler:      handler.NewRolePDFHandler(catalogue),
	}
	if st != nil {
		checks["database"] = st
		deps.ListRunsHandler = handler.NewListRunsHandler(st)
	}
	deps.HealthHandler = handler.NewHealthHandler(checks)
	return deps
}
