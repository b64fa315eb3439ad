// Package pipeline runs the per-skill analyzer across a role's skills,
// synthesizes the role-level guidance and persists the result.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/textparse"
)

const (
	resultSuffix = "_comprehensive_analysis.json"
	pdfSuffix    = "_skills_report.pdf"
)

// Placeholders used when role-level synthesis yields nothing.
var (
	ConsiderationsFailed = []string{"Comprehensive analysis failed"}
	LearningPathFailed   = []string{"Learning path generation failed"}
	NoSkillsAnalyzed     = []string{"No skills analyzed"}
	NoLearningPath       = []string{"No learning path generated"}
)

// SkillAnalyzer produces the analysis of one skill.
type SkillAnalyzer interface {
	Analyze(ctx context.Context, role, skill string) models.SkillAnalysis
}

// Completer is the rate-limited language model.
type Completer interface {
	Complete(ctx context.Context, prompt string) string
}

// Orchestrator analyses skills strictly one after another.
type Orchestrator struct {
	analyzer  SkillAnalyzer
	llm       Completer
	outputDir string
	now       func() time.Time
}

func NewOrchestrator(analyzer SkillAnalyzer, llm Completer, outputDir string) *Orchestrator {
	return &Orchestrator{analyzer: analyzer, llm: llm, outputDir: outputDir, now: time.Now}
}

// Run analyses every skill in order, synthesizes the role summary and writes
// it to the output directory. The only error is a failure to persist.
func (o *Orchestrator) Run(ctx context.Context, role string, skills []string) (models.ComprehensiveAnalysis, string, error) {
	slog.Info("starting comprehensive analysis", "role", role, "skills", skills)

	analyses := make([]models.SkillAnalysis, 0, len(skills))
	for _, skill := range skills {
		analyses = append(analyses, o.analyzer.Analyze(ctx, role, skill))
	}

	result := o.Synthesize(ctx, role, analyses)
	path, err := Save(result, o.outputDir)
	if err != nil {
		return result, "", err
	}
	slog.Info("comprehensive analysis saved", "role", role, "path", path)
	return result, path, nil
}

// Synthesize builds the role-level record from finished skill analyses.
func (o *Orchestrator) Synthesize(ctx context.Context, role string, analyses []models.SkillAnalysis) models.ComprehensiveAnalysis {
	result := models.ComprehensiveAnalysis{
		MainRole:        role,
		SkillsBreakdown: analyses,
		CreatedAt:       o.now().Format("2006-01-02T15:04:05.000000"),
	}
	if result.SkillsBreakdown == nil {
		result.SkillsBreakdown = []models.SkillAnalysis{}
	}

	if len(analyses) == 0 {
		result.ImportantConsiderations = NoSkillsAnalyzed
		result.LearningPath = NoLearningPath
		return result
	}

	resp := o.llm.Complete(ctx, rolePrompt(role, analyses))
	sections := textparse.ParseSections(resp)
	considerations := sections.List(textparse.ImportantConsiderations)
	path := sections.List(textparse.LearningPath)

	if len(considerations) == 0 && len(path) == 0 {
		slog.Error("role synthesis produced no guidance", "role", role, "response_len", len(resp))
		result.ImportantConsiderations = ConsiderationsFailed
		result.LearningPath = LearningPathFailed
		return result
	}

	result.ImportantConsiderations = considerations
	result.LearningPath = path
	return result
}

// Save writes analysis as indented JSON to its role-derived file in dir,
// replacing any earlier run for the same role.
func Save(analysis models.ComprehensiveAnalysis, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	data, err := json.MarshalIndent(analysis, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encoding analysis: %w", err)
	}

	path := filepath.Join(dir, ResultFileName(analysis.MainRole))
	tmp, err := os.CreateTemp(dir, ".analysis-*.json")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing analysis: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing analysis: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("replacing analysis: %w", err)
	}
	return path, nil
}

// Load reads a persisted analysis.
func Load(path string) (models.ComprehensiveAnalysis, error) {
	var a models.ComprehensiveAnalysis
	data, err := os.ReadFile(path)
	if err != nil {
		return a, fmt.Errorf("reading analysis: %w", err)
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return a, fmt.Errorf("decoding analysis %s: %w", path, err)
	}
	return a, nil
}

// ResultFileName is the JSON file name for role: "Data Analyst" ->
// "Data_Analyst_comprehensive_analysis.json".
func ResultFileName(role string) string {
	return roleBase(role) + resultSuffix
}

// PDFFileName is the companion report file name for role.
func PDFFileName(role string) string {
	return roleBase(role) + pdfSuffix
}

func roleBase(role string) string {
	return strings.ReplaceAll(role, " ", "_")
}

func rolePrompt(role string, analyses []models.SkillAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Comprehensive analysis for the role: %s\n\n", role)
	for _, a := range analyses {
		fmt.Fprintf(&b, "Skill: %s\n", a.Skill)
		fmt.Fprintf(&b, "Summary: %s\n\n", a.Summary)
	}

	return fmt.Sprintf(`Based on the following skill analyses for the role of "%s", generate:

1. IMPORTANT_CONSIDERATIONS: 3-5 general important considerations for someone pursuing this role, formatted as bullet points.
2. LEARNING_PATH: A step-by-step learning path (5-7 steps) to master the skills for this role, formatted as a numbered list.

Skill Analyses:
%s
Format your response exactly as:

IMPORTANT_CONSIDERATIONS:
- [consideration 1]
- [consideration 2]

LEARNING_PATH:
1. [step 1]
2. [step 2]
`, role, b.String())
}
