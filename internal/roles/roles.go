// Package roles lists the role analyses persisted in the output directory.
package roles

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/pipeline"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

var ErrNotFound = errors.New("role not found")

const resultGlob = "*_comprehensive_analysis.json"

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Role is one persisted analysis.
type Role struct {
	Slug      string   `json:"slug"`
	Name      string   `json:"role"`
	Skills    []string `json:"skills"`
	CreatedAt string   `json:"created_at,omitempty"`
	JSONPath  string   `json:"json_path"`
	PDFPath   string   `json:"pdf_path,omitempty"`
	HasPDF    bool     `json:"has_pdf"`
}

// Slugify lower-cases name and collapses every run of other characters into
// a single hyphen: "Data Analyst (Jr.)" -> "data-analyst-jr".
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Trim(nonSlug.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "role"
	}
	return s
}

// Catalogue discovers roles from the result and PDF directories on demand.
type Catalogue struct {
	jsonDir string
	pdfDir  string
}

func NewCatalogue(jsonDir, pdfDir string) *Catalogue {
	if pdfDir == "" {
		pdfDir = jsonDir
	}
	return &Catalogue{jsonDir: jsonDir, pdfDir: pdfDir}
}

// List returns every role in the catalogue directories.
func (c *Catalogue) List() ([]Role, error) {
	return Discover(c.jsonDir, c.pdfDir)
}

// Discover returns every persisted analysis under jsonDir, sorted by file
// name. PDF companions are looked up in pdfDir. Unreadable files are skipped.
func Discover(jsonDir, pdfDir string) ([]Role, error) {
	matches, err := filepath.Glob(filepath.Join(jsonDir, resultGlob))
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	sort.Strings(matches)

	roles := make([]Role, 0, len(matches))
	for _, path := range matches {
		r, err := load(path, pdfDir)
		if err != nil {
			slog.Warn("skipping unreadable analysis", "path", path, "error", err)
			continue
		}
		roles = append(roles, r)
	}
	return roles, nil
}

// Find returns the role with the given slug.
func (c *Catalogue) Find(slug string) (Role, error) {
	roles, err := c.List()
	if err != nil {
		return Role{}, err
	}
	for _, r := range roles {
		if r.Slug == slug {
			return r, nil
		}
	}
	return Role{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
}

// Analysis loads the full analysis of the role with the given slug.
func (c *Catalogue) Analysis(slug string) (models.ComprehensiveAnalysis, error) {
	r, err := c.Find(slug)
	if err != nil {
		return models.ComprehensiveAnalysis{}, err
	}
	return pipeline.Load(r.JSONPath)
}

func load(path, pdfDir string) (Role, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Role{}, err
	}
	var a models.ComprehensiveAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return Role{}, err
	}

	name := strings.TrimSpace(a.MainRole)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	skills := make([]string, 0, len(a.SkillsBreakdown))
	for _, s := range a.SkillsBreakdown {
		skills = append(skills, s.Skill)
	}

	r := Role{
		Slug:      Slugify(name),
		Name:      name,
		Skills:    skills,
		CreatedAt: a.CreatedAt,
		JSONPath:  path,
	}
	pdf := filepath.Join(pdfDir, pipeline.PDFFileName(name))
	if _, err := os.Stat(pdf); err == nil {
		r.PDFPath = pdf
		r.HasPDF = true
	}
	return r, nil
}
