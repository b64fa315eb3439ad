package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/api/response"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/jobs"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

// Tracker defines the job control operations the analysis handlers depend on.
type Tracker interface {
	Start(ctx context.Context, req models.AnalysisRequest) (uuid.UUID, error)
	Status() models.JobStatus
	StatusOf(ctx context.Context, runID uuid.UUID) (models.JobStatus, bool, error)
	Result() (models.ComprehensiveAnalysis, string, error)
}

// RunLister reads the run history.
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]*models.Run, error)
}

const maxRunsLimit = 200

type startResponse struct {
	Status  string `json:"status"`
	RunID   string `json:"run_id"`
	Message string `json:"message"`
}

type resultResponse struct {
	Status   string                       `json:"status"`
	Data     models.ComprehensiveAnalysis `json:"data"`
	FilePath string                       `json:"file_path"`
}

type pendingDetails struct {
	Status   string  `json:"status"`
	Error    *string `json:"error"`
	FilePath *string `json:"file_path"`
}

// NewStartAnalysisHandler returns an http.HandlerFunc for POST /api/v1/analysis.
func NewStartAnalysisHandler(t Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role   string   `json:"role"`
			Skills []string `json:"skills"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		skills := make([]string, 0, len(req.Skills))
		for _, s := range req.Skills {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
		if len(skills) == 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "skills is required", nil)
			return
		}

		runID, err := t.Start(r.Context(), models.AnalysisRequest{Role: strings.TrimSpace(req.Role), Skills: skills})
		if err != nil {
			if errors.Is(err, jobs.ErrAlreadyRunning) {
				response.Error(w, http.StatusConflict, "ANALYSIS_RUNNING", "Analysis is already running", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start analysis", nil)
			return
		}

		response.Accepted(w, startResponse{
			Status:  "started",
			RunID:   runID.String(),
			Message: "Analysis started for: " + strings.Join(skills, ", "),
		})
	}
}

// NewAnalysisStatusHandler returns an http.HandlerFunc for GET /api/v1/analysis/status.
// An optional run_id query parameter selects an earlier run.
func NewAnalysisStatusHandler(t Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("run_id")
		if raw == "" {
			response.JSON(w, t.Status())
			return
		}

		runID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "run_id must be a UUID", nil)
			return
		}
		status, ok, err := t.StatusOf(r.Context(), runID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read run status", nil)
			return
		}
		if !ok {
			response.Error(w, http.StatusNotFound, "RUN_NOT_FOUND", "Run not found", nil)
			return
		}
		response.JSON(w, status)
	}
}

// NewAnalysisResultHandler returns an http.HandlerFunc for GET /api/v1/analysis/result.
func NewAnalysisResultHandler(t Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		analysis, path, err := t.Result()
		if err == nil {
			response.JSON(w, resultResponse{Status: models.JobStatusCompleted, Data: analysis, FilePath: path})
			return
		}

		s := t.Status()
		if errors.Is(err, jobs.ErrNoResult) {
			response.Error(w, http.StatusNotFound, "RESULT_NOT_READY", "No analysis result available",
				pendingDetails{Status: s.Status, Error: s.Error, FilePath: s.ResultFile})
			return
		}
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load analysis result",
			pendingDetails{Status: s.Status, Error: s.Error, FilePath: s.ResultFile})
	}
}

// NewListRunsHandler returns an http.HandlerFunc for GET /api/v1/analysis/runs.
func NewListRunsHandler(s RunLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer", nil)
				return
			}
			limit = min(n, maxRunsLimit)
		}

		runs, err := s.ListRuns(r.Context(), limit)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list runs", nil)
			return
		}
		response.List(w, runs, response.ListMeta{Count: len(runs), Limit: limit})
	}
}
