package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/api/response"
)

// Pinger is a dependency whose reachability the health check reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// NewHealthHandler returns an http.HandlerFunc for GET /api/v1/health. Nil
// checks are reported as "disabled".
func NewHealthHandler(checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "OK", Checks: make(map[string]string, len(checks))}
		for name, p := range checks {
			if p == nil {
				resp.Checks[name] = "disabled"
				continue
			}
			if err := p.Ping(ctx); err != nil {
				slog.Warn("health check failed", "check", name, "error", err)
				resp.Checks[name] = "error"
				resp.Status = "DEGRADED"
				continue
			}
			resp.Checks[name] = "ok"
		}

		if resp.Status != "OK" {
			response.Status(w, http.StatusServiceUnavailable, resp)
			return
		}
		response.JSON(w, resp)
	}
}
