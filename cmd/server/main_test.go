package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/api"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/cache"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/config"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/jobs"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/pipeline"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/roles"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/store"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

// --- mocks ---

type testStore struct {
	pingErr error
}

func (s *testStore) Ping(_ context.Context) error                        { return s.pingErr }
func (s *testStore) Close() error                                        { return nil }
func (s *testStore) CreateRun(_ context.Context, _ *models.Run) error    { return nil }
func (s *testStore) GetRun(_ context.Context, _ uuid.UUID) (*models.Run, error) {
	return nil, store.ErrNotFound
}
func (s *testStore) ListRuns(_ context.Context, _ int) ([]*models.Run, error) {
	return []*models.Run{{ID: uuid.New(), Role: "Nurse", Status: models.JobStatusCompleted}}, nil
}
func (s *testStore) UpdateRunStatus(_ context.Context, _ uuid.UUID, _ string, _ ...store.RunUpdateOption) error {
	return nil
}

var _ store.Store = (*testStore)(nil)

type noopRunner struct{}

func (noopRunner) Run(_ context.Context, _ models.AnalysisRequest, _ pipeline.ProgressFunc) (string, error) {
	return "", nil
}

// --- helpers ---

func newTestRouter(t *testing.T, st store.Store) http.Handler {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{API: config.APIConfig{RateLimitPerMinute: 60}}
	c := cache.NewMemoryCache()
	deps := newDependencies(cfg, c, st, jobs.NewTracker(noopRunner{}),
		roles.NewCatalogue(dir, dir), roles.NewProfiler(nil, c))
	return api.NewRouter(deps)
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

// --- tests ---

func TestHealth_WithoutDatabase(t *testing.T) {
	w := get(newTestRouter(t, nil), "/api/v1/health")

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body.Data.Status)
	assert.Equal(t, "ok", body.Data.Checks["cache"])
	assert.Equal(t, "disabled", body.Data.Checks["database"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	w := get(newTestRouter(t, &testStore{pingErr: errors.New("refused")}), "/api/v1/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRuns_NotImplementedWithoutDatabase(t *testing.T) {
	w := get(newTestRouter(t, nil), "/api/v1/analysis/runs")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestRuns_WithDatabase(t *testing.T) {
	w := get(newTestRouter(t, &testStore{}), "/api/v1/analysis/runs")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nurse")
}

func TestStatus_IdleAtStartup(t *testing.T) {
	w := get(newTestRouter(t, nil), "/api/v1/analysis/status")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"idle"`)
}

func TestRoles_EmptyCatalogue(t *testing.T) {
	w := get(newTestRouter(t, nil), "/api/v1/roles")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
}
