// Package jobs runs the analysis workflow in the background and keeps the
// single shared status record that callers poll.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/cache"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/pipeline"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/store"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

var (
	ErrAlreadyRunning = errors.New("analysis already running")
	ErrNoResult       = errors.New("no analysis result available")
)

// DefaultStatusTTL is how long mirrored status snapshots live in the cache.
const DefaultStatusTTL = 24 * time.Hour

// Runner executes one full workflow run.
type Runner interface {
	Run(ctx context.Context, req models.AnalysisRequest, progress pipeline.ProgressFunc) (string, error)
}

// Tracker allows one run at a time. Every progress update replaces the
// previous snapshot; no history is kept in memory.
type Tracker struct {
	runner    Runner
	store     store.Store
	cache     cache.Cache
	statusTTL time.Duration
	now       func() time.Time

	mu     sync.RWMutex
	status models.JobStatus
	runID  uuid.UUID
	// done is closed when the current run finishes; nil before the first run.
	done chan struct{}
}

type Option func(*Tracker)

// WithStore records every run in the run history.
func WithStore(s store.Store) Option {
	return func(t *Tracker) { t.store = s }
}

// WithCache mirrors status snapshots into the cache keyed by run ID.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(t *Tracker) {
		t.cache = c
		if ttl > 0 {
			t.statusTTL = ttl
		}
	}
}

func NewTracker(runner Runner, opts ...Option) *Tracker {
	t := &Tracker{
		runner:    runner,
		statusTTL: DefaultStatusTTL,
		now:       time.Now,
		status:    models.JobStatus{Status: models.JobStatusIdle},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start launches a run and returns its ID without waiting for it.
// It fails with ErrAlreadyRunning while another run is in flight.
func (t *Tracker) Start(ctx context.Context, req models.AnalysisRequest) (uuid.UUID, error) {
	if len(req.Skills) == 0 {
		return uuid.Nil, pipeline.ErrNoSkills
	}

	t.mu.Lock()
	if t.status.Status == models.JobStatusRunning {
		t.mu.Unlock()
		return uuid.Nil, ErrAlreadyRunning
	}
	runID := uuid.New()
	started := t.now().UTC()
	t.runID = runID
	t.status = models.JobStatus{
		Status:    models.JobStatusRunning,
		Progress:  0,
		Message:   "Initializing analysis.",
		StartTime: &started,
		RunID:     runID.String(),
	}
	snapshot := t.status
	done := make(chan struct{})
	t.done = done
	t.mu.Unlock()

	role := pipeline.RoleFor(req)
	if t.store != nil {
		run := &models.Run{
			ID:        runID,
			Role:      role,
			Skills:    req.Skills,
			Status:    models.JobStatusRunning,
			Message:   snapshot.Message,
			StartedAt: started,
		}
		if err := t.store.CreateRun(ctx, run); err != nil {
			slog.Error("recording run failed", "run_id", runID, "error", err)
		}
	}
	t.mirror(snapshot)

	slog.Info("analysis started", "run_id", runID, "role", role, "skills", req.Skills)

	// The run outlives the request that started it.
	runCtx := context.WithoutCancel(ctx)
	go t.run(runCtx, runID, req, done)

	return runID, nil
}

func (t *Tracker) run(ctx context.Context, runID uuid.UUID, req models.AnalysisRequest, done chan<- struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analysis panicked", "run_id", runID, "panic", r)
			t.fail(ctx, runID, fmt.Errorf("panic: %v", r))
		}
	}()

	resultFile, err := t.runner.Run(ctx, req, func(u pipeline.Update) {
		t.update(ctx, runID, u)
	})
	if err != nil {
		slog.Error("analysis failed", "run_id", runID, "error", err)
		t.fail(ctx, runID, err)
		return
	}

	// Runners normally report completion themselves.
	if !t.completed(runID) {
		t.update(ctx, runID, pipeline.Update{
			Status:     models.JobStatusCompleted,
			Progress:   100,
			Message:    "Analysis completed!",
			ResultFile: resultFile,
		})
	}
	slog.Info("analysis completed", "run_id", runID, "result_file", resultFile)
}

func (t *Tracker) completed(runID uuid.UUID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.runID == runID && t.status.Status == models.JobStatusCompleted
}

func (t *Tracker) update(ctx context.Context, runID uuid.UUID, u pipeline.Update) {
	t.mu.Lock()
	if t.runID != runID {
		t.mu.Unlock()
		return
	}
	if u.Status != "" {
		t.status.Status = u.Status
	}
	t.status.Progress = u.Progress
	t.status.Message = u.Message
	if u.ResultFile != "" {
		rf := u.ResultFile
		t.status.ResultFile = &rf
	}
	snapshot := t.status
	t.mu.Unlock()

	slog.Debug("analysis progress", "run_id", runID, "progress", u.Progress, "message", u.Message)

	if t.store != nil {
		opts := []store.RunUpdateOption{store.WithProgress(u.Progress), store.WithMessage(u.Message)}
		if u.ResultFile != "" {
			opts = append(opts, store.WithResultFile(u.ResultFile))
		}
		t.record(ctx, runID, snapshot.Status, opts...)
	}
	t.mirror(snapshot)
}

// fail flips the status to error and keeps the last reported progress.
func (t *Tracker) fail(ctx context.Context, runID uuid.UUID, err error) {
	msg := err.Error()

	t.mu.Lock()
	if t.runID != runID {
		t.mu.Unlock()
		return
	}
	t.status.Status = models.JobStatusError
	t.status.Message = "Analysis failed."
	t.status.Error = &msg
	snapshot := t.status
	t.mu.Unlock()

	if t.store != nil {
		t.record(ctx, runID, models.JobStatusError,
			store.WithMessage(snapshot.Message), store.WithErrorMessage(msg))
	}
	t.mirror(snapshot)
}

func (t *Tracker) record(ctx context.Context, runID uuid.UUID, status string, opts ...store.RunUpdateOption) {
	if err := t.store.UpdateRunStatus(ctx, runID, status, opts...); err != nil {
		slog.Warn("updating run history failed", "run_id", runID, "status", status, "error", err)
	}
}

func (t *Tracker) mirror(s models.JobStatus) {
	if t.cache == nil || s.RunID == "" {
		return
	}
	runID, err := uuid.Parse(s.RunID)
	if err != nil {
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		slog.Warn("encoding job status failed", "run_id", runID, "error", err)
		return
	}
	if err := t.cache.SetJobStatus(context.Background(), runID, data, t.statusTTL); err != nil {
		slog.Warn("caching job status failed", "run_id", runID, "error", err)
	}
}

// Status returns a copy of the current snapshot.
func (t *Tracker) Status() models.JobStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyStatus(t.status)
}

// StatusOf returns the snapshot of a specific run: the live one when it is
// the current run, else the cached mirror.
func (t *Tracker) StatusOf(ctx context.Context, runID uuid.UUID) (models.JobStatus, bool, error) {
	t.mu.RLock()
	if t.runID == runID {
		s := copyStatus(t.status)
		t.mu.RUnlock()
		return s, true, nil
	}
	t.mu.RUnlock()

	if t.cache == nil {
		return models.JobStatus{}, false, nil
	}
	data, ok, err := t.cache.GetJobStatus(ctx, runID)
	if err != nil || !ok {
		return models.JobStatus{}, false, err
	}
	var s models.JobStatus
	if err := json.Unmarshal(data, &s); err != nil {
		return models.JobStatus{}, false, fmt.Errorf("decoding cached job status: %w", err)
	}
	return s, true, nil
}

// Result loads the analysis of the last completed run. It returns
// ErrNoResult when no result file is recorded or the file is gone.
func (t *Tracker) Result() (models.ComprehensiveAnalysis, string, error) {
	s := t.Status()
	if s.ResultFile == nil {
		return models.ComprehensiveAnalysis{}, "", ErrNoResult
	}
	path := *s.ResultFile
	if _, err := os.Stat(path); err != nil {
		return models.ComprehensiveAnalysis{}, path, ErrNoResult
	}
	a, err := pipeline.Load(path)
	if err != nil {
		return models.ComprehensiveAnalysis{}, path, fmt.Errorf("loading result: %w", err)
	}
	return a, path, nil
}

// Busy reports whether a run is in flight.
func (t *Tracker) Busy() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status.Status == models.JobStatusRunning
}

// Wait blocks until the latest run finishes or ctx is done. It returns
// immediately when no run was ever started.
func (t *Tracker) Wait(ctx context.Context) error {
	t.mu.RLock()
	done := t.done
	t.mu.RUnlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func copyStatus(s models.JobStatus) models.JobStatus {
	if s.ResultFile != nil {
		rf := *s.ResultFile
		s.ResultFile = &rf
	}
	if s.Error != nil {
		e := *s.Error
		s.Error = &e
	}
	if s.StartTime != nil {
		st := *s.StartTime
		s.StartTime = &st
	}
	return s
}
