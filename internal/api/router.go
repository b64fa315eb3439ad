package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/thomthomthomas/SMART-CAREER-Singapore/internal/api/middleware"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	StartAnalysisHandler  http.HandlerFunc
	AnalysisStatusHandler http.HandlerFunc
	AnalysisResultHandler http.HandlerFunc
	ListRunsHandler       http.HandlerFunc

	ChatHandler http.HandlerFunc

	ListRolesHandler    http.HandlerFunc
	GetRoleHandler      http.HandlerFunc
	RoleMarkdownHandler http.HandlerFunc
	RolePDFHandler      http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		if deps.Auth != nil {
			r.Use(deps.Auth.Authenticate)
		}
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Post("/api/v1/analysis", orNotImplemented(deps.StartAnalysisHandler))
		r.Get("/api/v1/analysis/status", orNotImplemented(deps.AnalysisStatusHandler))
		r.Get("/api/v1/analysis/result", orNotImplemented(deps.AnalysisResultHandler))
		r.Get("/api/v1/analysis/runs", orNotImplemented(deps.ListRunsHandler))

		r.Post("/api/v1/chat", orNotImplemented(deps.ChatHandler))

		r.Get("/api/v1/roles", orNotImplemented(deps.ListRolesHandler))
		r.Get("/api/v1/roles/{slug}", orNotImplemented(deps.GetRoleHandler))
		r.Get("/api/v1/roles/{slug}/report.md", orNotImplemented(deps.RoleMarkdownHandler))
		r.Get("/api/v1/roles/{slug}/pdf", orNotImplemented(deps.RolePDFHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
