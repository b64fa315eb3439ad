package roles_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/pipeline"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/roles"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Data Analyst":        "data-analyst",
		"  UX/UI Designer  ":  "ux-ui-designer",
		"Data Analyst (Jr.)":  "data-analyst-jr",
		"C++ Developer":       "c-developer",
		"":                    "role",
		"!!!":                 "role",
		"DevOps--Engineer_01": "devops-engineer-01",
	}
	for in, want := range tests {
		assert.Equal(t, want, roles.Slugify(in), in)
	}
}

// --- helpers ---

func writeAnalysis(t *testing.T, dir, role string, skills ...string) string {
	t.Helper()
	a := models.ComprehensiveAnalysis{MainRole: role, CreatedAt: "2026-10-17T09:30:00.000000"}
	for _, s := range skills {
		a.SkillsBreakdown = append(a.SkillsBreakdown, models.EmptySkillAnalysis(s, ""))
	}
	path, err := pipeline.Save(a, dir)
	require.NoError(t, err)
	return path
}

func TestCatalogue_List(t *testing.T) {
	jsonDir := t.TempDir()
	pdfDir := t.TempDir()
	writeAnalysis(t, jsonDir, "Teacher", "Lesson Planning")
	dataPath := writeAnalysis(t, jsonDir, "Data Analyst", "SQL", "Excel")
	require.NoError(t, os.WriteFile(filepath.Join(pdfDir, "Data_Analyst_skills_report.pdf"), []byte("%PDF-1.3"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(jsonDir, "website_modules_output.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(jsonDir, "Broken_comprehensive_analysis.json"), []byte(`{not json`), 0o644))

	list, err := roles.NewCatalogue(jsonDir, pdfDir).List()
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "data-analyst", list[0].Slug)
	assert.Equal(t, "Data Analyst", list[0].Name)
	assert.Equal(t, []string{"SQL", "Excel"}, list[0].Skills)
	assert.Equal(t, dataPath, list[0].JSONPath)
	assert.True(t, list[0].HasPDF)
	assert.Equal(t, filepath.Join(pdfDir, "Data_Analyst_skills_report.pdf"), list[0].PDFPath)

	assert.Equal(t, "teacher", list[1].Slug)
	assert.False(t, list[1].HasPDF)
	assert.Empty(t, list[1].PDFPath)
}

func TestCatalogue_NameFallsBackToFileStem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Nurse_comprehensive_analysis.json"), []byte(`{"skills_breakdown":[]}`), 0o644))

	list, err := roles.NewCatalogue(dir, "").List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Nurse_comprehensive_analysis", list[0].Name)
	assert.Equal(t, "nurse-comprehensive-analysis", list[0].Slug)
}

func TestCatalogue_Find(t *testing.T) {
	dir := t.TempDir()
	writeAnalysis(t, dir, "Data Analyst", "SQL")
	c := roles.NewCatalogue(dir, dir)

	r, err := c.Find("data-analyst")
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", r.Name)

	a, err := c.Analysis("data-analyst")
	require.NoError(t, err)
	assert.Equal(t, "SQL", a.SkillsBreakdown[0].Skill)

	_, err = c.Find("astronaut")
	assert.True(t, errors.Is(err, roles.ErrNotFound))
}

func TestCatalogue_EmptyDir(t *testing.T) {
	list, err := roles.NewCatalogue(filepath.Join(t.TempDir(), "missing"), "").List()
	require.NoError(t, err)
	assert.Empty(t, list)
}
