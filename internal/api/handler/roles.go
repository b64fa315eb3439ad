package handler

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/api/response"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/report"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/roles"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

// Catalogue lists persisted analyses by role.
type Catalogue interface {
	List() ([]roles.Role, error)
	Find(slug string) (roles.Role, error)
	Analysis(slug string) (models.ComprehensiveAnalysis, error)
}

// Profiler builds the role card shown by GET /api/v1/roles/{slug}.
type Profiler interface {
	Profile(ctx context.Context, r roles.Role, a models.ComprehensiveAnalysis, pdfURL string) roles.Profile
}

type roleSummary struct {
	Slug      string   `json:"slug"`
	Role      string   `json:"role"`
	Skills    []string `json:"skills"`
	CreatedAt string   `json:"created_at,omitempty"`
	HasPDF    bool     `json:"has_pdf"`
}

// NewListRolesHandler returns an http.HandlerFunc for GET /api/v1/roles.
func NewListRolesHandler(c Catalogue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := c.List()
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list roles", nil)
			return
		}
		out := make([]roleSummary, 0, len(list))
		for _, role := range list {
			out = append(out, roleSummary{
				Slug:      role.Slug,
				Role:      role.Name,
				Skills:    role.Skills,
				CreatedAt: role.CreatedAt,
				HasPDF:    role.HasPDF,
			})
		}
		response.List(w, out, response.ListMeta{Count: len(out)})
	}
}

// NewGetRoleHandler returns an http.HandlerFunc for GET /api/v1/roles/{slug}.
func NewGetRoleHandler(c Catalogue, p Profiler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, analysis, ok := loadRole(w, c, chi.URLParam(r, "slug"))
		if !ok {
			return
		}
		response.JSON(w, p.Profile(r.Context(), role, analysis, "/api/v1/roles/"+role.Slug+"/pdf"))
	}
}

// NewRoleMarkdownHandler returns an http.HandlerFunc for GET /api/v1/roles/{slug}/report.md.
func NewRoleMarkdownHandler(c Catalogue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, analysis, ok := loadRole(w, c, chi.URLParam(r, "slug"))
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(report.Markdown(analysis)))
	}
}

// NewRolePDFHandler returns an http.HandlerFunc for GET /api/v1/roles/{slug}/pdf.
func NewRolePDFHandler(c Catalogue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := c.Find(chi.URLParam(r, "slug"))
		if err != nil {
			roleError(w, err)
			return
		}
		if !role.HasPDF {
			response.Error(w, http.StatusNotFound, "PDF_NOT_FOUND", "PDF not found", nil)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="`+filepath.Base(role.PDFPath)+`"`)
		http.ServeFile(w, r, role.PDFPath)
	}
}

func loadRole(w http.ResponseWriter, c Catalogue, slug string) (roles.Role, models.ComprehensiveAnalysis, bool) {
	role, err := c.Find(slug)
	if err != nil {
		roleError(w, err)
		return roles.Role{}, models.ComprehensiveAnalysis{}, false
	}
	analysis, err := c.Analysis(slug)
	if err != nil {
		roleError(w, err)
		return roles.Role{}, models.ComprehensiveAnalysis{}, false
	}
	return role, analysis, true
}

func roleError(w http.ResponseWriter, err error) {
	if errors.Is(err, roles.ErrNotFound) {
		response.Error(w, http.StatusNotFound, "ROLE_NOT_FOUND", "Role not found", nil)
		return
	}
	response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load role", nil)
}
