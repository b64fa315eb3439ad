package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/courses"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

var ErrNoSkills = errors.New("at least one skill is required")

// Update is one progress milestone of a workflow run.
type Update struct {
	Status     string
	Progress   int
	Message    string
	ResultFile string
}

// ProgressFunc receives workflow milestones in order.
type ProgressFunc func(Update)

// CourseScanner discovers course modules for a topic.
type CourseScanner interface {
	Scan(ctx context.Context, topic string) models.CourseScan
}

// ReportWriter renders the companion PDF of a finished analysis.
type ReportWriter func(analysis models.ComprehensiveAnalysis, path string) error

// Workflow is the full staged run behind a job: course scan, skill
// refinement, skill analysis and report rendering.
type Workflow struct {
	orchestrator *Orchestrator
	scanner      CourseScanner
	report       ReportWriter
	outputDir    string
	pdfDir       string
	topModules   int
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithCourseScan enables the course-page scan stage.
func WithCourseScan(s CourseScanner, topModules int) WorkflowOption {
	return func(w *Workflow) {
		w.scanner = s
		w.topModules = topModules
	}
}

// WithReport writes a PDF next to each result into pdfDir.
func WithReport(r ReportWriter, pdfDir string) WorkflowOption {
	return func(w *Workflow) {
		w.report = r
		w.pdfDir = pdfDir
	}
}

func NewWorkflow(o *Orchestrator, opts ...WorkflowOption) *Workflow {
	w := &Workflow{orchestrator: o, outputDir: o.outputDir, topModules: 5}
	for _, opt := range opts {
		opt(w)
	}
	if w.pdfDir == "" {
		w.pdfDir = w.outputDir
	}
	return w
}

// RoleFor returns the role of req, defaulting to the title-cased first skill.
func RoleFor(req models.AnalysisRequest) string {
	if r := strings.TrimSpace(req.Role); r != "" {
		return r
	}
	if len(req.Skills) == 0 {
		return ""
	}
	return cases.Title(language.English).String(strings.TrimSpace(req.Skills[0]))
}

// Run executes every stage and returns the path of the JSON result.
func (w *Workflow) Run(ctx context.Context, req models.AnalysisRequest, progress ProgressFunc) (string, error) {
	if progress == nil {
		progress = func(Update) {}
	}
	if len(req.Skills) == 0 {
		return "", ErrNoSkills
	}

	role := RoleFor(req)
	skills := append([]string(nil), req.Skills...)

	progress(Update{Status: models.JobStatusRunning, Progress: 0, Message: "Initializing analysis."})

	progress(Update{Status: models.JobStatusRunning, Progress: 20, Message: "Running web scraper."})
	var scan models.CourseScan
	if w.scanner != nil {
		scan = w.scanner.Scan(ctx, skills[0])
		if _, err := courses.Save(scan, w.outputDir); err != nil {
			slog.Warn("saving course scan failed", "role", role, "error", err)
		}
	}

	progress(Update{Status: models.JobStatusRunning, Progress: 50, Message: "Updating skills from modules."})
	if top := courses.TopSkills(scan, w.topModules); len(top) > 0 {
		slog.Info("skills replaced by ranked course modules", "role", role, "skills", top)
		skills = top
	}

	progress(Update{Status: models.JobStatusRunning, Progress: 80, Message: "Running YouTube agent..."})
	analysis, resultFile, err := w.orchestrator.Run(ctx, role, skills)
	if err != nil {
		return "", fmt.Errorf("running orchestrator: %w", err)
	}

	progress(Update{Status: models.JobStatusRunning, Progress: 95, Message: "Finding results..."})
	if w.report != nil {
		pdfPath := filepath.Join(w.pdfDir, PDFFileName(role))
		if err := w.report(analysis, pdfPath); err != nil {
			slog.Warn("writing pdf report failed", "role", role, "error", err)
		} else {
			slog.Info("pdf report written", "role", role, "path", pdfPath)
		}
	}

	progress(Update{Status: models.JobStatusCompleted, Progress: 100, Message: "Analysis completed!", ResultFile: resultFile})
	return resultFile, nil
}
