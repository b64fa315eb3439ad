// Package scheduler re-runs the analysis of configured roles on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/jobs"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

// Tracker is the part of jobs.Tracker the scheduler drives.
type Tracker interface {
	Start(ctx context.Context, req models.AnalysisRequest) (uuid.UUID, error)
	Busy() bool
	Wait(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	job     *AnalyzeJob
	stopJob context.CancelFunc
}

// New registers one job that walks requests on spec. spec has a seconds field.
func New(tracker Tracker, spec string, requests []models.AnalysisRequest) (*Scheduler, error) {
	logger := slogAdapter{}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	job := &AnalyzeJob{ctx: ctx, tracker: tracker, requests: requests}
	if _, err := c.AddJob(spec, job); err != nil {
		cancel()
		return nil, fmt.Errorf("adding analysis job (spec %q): %w", spec, err)
	}
	slog.Info("scheduled role analysis registered", "spec", spec, "roles", len(requests))

	return &Scheduler{cron: c, job: job, stopJob: cancel}, nil
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started")
}

// Stop stops scheduling and waits up to timeout for a running walk to return.
// A run already started by the tracker is not interrupted.
func (s *Scheduler) Stop(timeout time.Duration) {
	s.stopJob()
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		slog.Info("scheduler stopped")
	case <-time.After(timeout):
		slog.Warn("scheduler stop timed out", "timeout", timeout)
	}
}

// AnalyzeJob implements cron.Job. It starts each request in turn and waits
// for it to finish before the next.
type AnalyzeJob struct {
	ctx      context.Context
	tracker  Tracker
	requests []models.AnalysisRequest
}

func (j *AnalyzeJob) Run() {
	for _, req := range j.requests {
		if j.ctx.Err() != nil {
			return
		}
		if j.tracker.Busy() {
			slog.Info("tracker busy, skipping scheduled role", "role", req.Role)
			continue
		}

		runID, err := j.tracker.Start(j.ctx, req)
		if errors.Is(err, jobs.ErrAlreadyRunning) {
			slog.Info("tracker busy, skipping scheduled role", "role", req.Role)
			continue
		}
		if err != nil {
			slog.Error("starting scheduled analysis failed", "role", req.Role, "error", err)
			continue
		}
		slog.Info("scheduled analysis started", "role", req.Role, "run_id", runID)

		if err := j.tracker.Wait(j.ctx); err != nil {
			return
		}
	}
}

// ParseRoles parses entries of the form "Role:skill one|skill two".
// The role part may be empty; the skills part may not.
func ParseRoles(entries []string) ([]models.AnalysisRequest, error) {
	out := make([]models.AnalysisRequest, 0, len(entries))
	for _, e := range entries {
		role, skillList, ok := strings.Cut(e, ":")
		if !ok {
			return nil, fmt.Errorf("scheduler role %q: expected Role:skill1|skill2", e)
		}

		var skills []string
		for _, s := range strings.Split(skillList, "|") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
		if len(skills) == 0 {
			return nil, fmt.Errorf("scheduler role %q: no skills", e)
		}
		out = append(out, models.AnalysisRequest{Role: strings.TrimSpace(role), Skills: skills})
	}
	return out, nil
}

// slogAdapter routes cron's own logging through slog.
type slogAdapter struct{}

func (slogAdapter) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
