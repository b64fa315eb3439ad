package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

type rgb struct{ r, g, b int }

var (
	titleColor   = rgb{0x2c, 0x3e, 0x50}
	headingColor = rgb{0x34, 0x49, 0x5e}
	sectionColor = rgb{0x29, 0x80, 0xb9}
	mutedColor   = rgb{0x80, 0x80, 0x80}
	bodyColor    = rgb{0x1f, 0x29, 0x37}
)

const lineHeight = 6.0

// WritePDF renders the analysis to an A4 PDF at path, creating parent
// directories as needed. The title page carries the role and date; each
// skill gets its own page.
func WritePDF(a models.ComprehensiveAnalysis, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating pdf dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 18)
	pdf.SetTitle(a.MainRole+" skills analysis report", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	w := &writer{pdf: pdf, tr: tr}

	w.titlePage(a)
	for _, s := range a.SkillsBreakdown {
		w.skillPage(s)
	}
	if len(a.LearningPath) > 0 || len(a.ImportantConsiderations) > 0 {
		pdf.AddPage()
		if len(a.LearningPath) > 0 {
			w.heading("Learning Path")
			for i, step := range a.LearningPath {
				w.body(fmt.Sprintf("%d. %s", i+1, step))
			}
			pdf.Ln(4)
		}
		if len(a.ImportantConsiderations) > 0 {
			w.heading("General Important Considerations")
			w.bullets(a.ImportantConsiderations)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *writer) color(c rgb) { w.pdf.SetTextColor(c.r, c.g, c.b) }

func (w *writer) titlePage(a models.ComprehensiveAnalysis) {
	w.pdf.AddPage()
	w.pdf.Ln(60)
	w.color(titleColor)
	w.pdf.SetFont("Helvetica", "B", 24)
	w.pdf.MultiCell(0, 12, w.tr(strings.ToUpper(a.MainRole)), "", "C", false)
	w.pdf.SetFont("Helvetica", "", 20)
	w.pdf.MultiCell(0, 12, "SKILLS ANALYSIS REPORT", "", "C", false)
	w.pdf.Ln(10)
	w.color(mutedColor)
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.MultiCell(0, lineHeight, w.tr("Generated On: "+a.CreatedAt), "", "C", false)
}

func (w *writer) skillPage(s models.SkillAnalysis) {
	w.pdf.AddPage()
	w.heading("Skill: " + s.Skill)
	if len(s.Subskills) > 0 {
		w.section("Subskills")
		w.bullets(s.Subskills)
	}
	if len(s.KeyTakeaways) > 0 {
		w.section("Key Takeaways")
		w.bullets(s.KeyTakeaways)
	}
	if len(s.ImportantInfo) > 0 {
		w.section("Important Information")
		w.bullets(s.ImportantInfo)
	}
	w.section("Summary")
	w.body(s.Summary)
}

func (w *writer) heading(text string) {
	w.color(headingColor)
	w.pdf.SetFont("Helvetica", "B", 18)
	w.pdf.MultiCell(0, 10, w.tr(text), "", "L", false)
	w.pdf.Ln(2)
}

func (w *writer) section(text string) {
	w.pdf.Ln(2)
	w.color(sectionColor)
	w.pdf.SetFont("Helvetica", "B", 14)
	w.pdf.MultiCell(0, 8, w.tr(text), "", "L", false)
}

func (w *writer) body(text string) {
	w.color(bodyColor)
	w.pdf.SetFont("Helvetica", "", 11)
	w.pdf.MultiCell(0, lineHeight, w.tr(text), "", "L", false)
}

func (w *writer) bullets(items []string) {
	w.color(bodyColor)
	w.pdf.SetFont("Helvetica", "", 11)
	left, _, _, _ := w.pdf.GetMargins()
	for _, it := range items {
		w.pdf.SetX(left + 6)
		w.pdf.MultiCell(0, lineHeight, w.tr("- "+it), "", "L", false)
	}
	w.pdf.Ln(3)
}
