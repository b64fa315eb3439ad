// Package report renders a finished ComprehensiveAnalysis for people.
package report

import (
	"fmt"
	"strings"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

// Markdown renders the analysis as a Markdown document.
func Markdown(a models.ComprehensiveAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# **%s - SKILLS ANALYSIS REPORT**\n\n", strings.ToUpper(a.MainRole))
	fmt.Fprintf(&b, "**Generated On**: %s\n\n", a.CreatedAt)

	for _, s := range a.SkillsBreakdown {
		fmt.Fprintf(&b, "## Skill: %s\n\n", s.Skill)
		bulletSection(&b, "### Subskills:", s.Subskills)
		bulletSection(&b, "### Key Takeaways:", s.KeyTakeaways)
		bulletSection(&b, "### Important Information:", s.ImportantInfo)
		fmt.Fprintf(&b, "### Summary:\n%s\n\n", s.Summary)
		b.WriteString("--- \n\n")
	}

	if len(a.LearningPath) > 0 {
		b.WriteString("## Learning Path:\n")
		for i, step := range a.LearningPath {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		b.WriteString("\n")
	}

	bulletSection(&b, "## General Important Considerations:", a.ImportantConsiderations)
	return b.String()
}

func bulletSection(b *strings.Builder, header string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(header + "\n")
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}
