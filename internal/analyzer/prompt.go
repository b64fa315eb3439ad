package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

const noTranscript = "No transcript available"

func skillPrompt(skill string, videos []models.VideoContent, previewChars int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Skill: %s\n\n", skill)
	for i, v := range videos {
		preview := noTranscript
		if v.Transcript != "" {
			preview = truncateRunes(v.Transcript, previewChars)
		}
		fmt.Fprintf(&b, "Video %d: %s\n", i+1, v.Title)
		fmt.Fprintf(&b, "Channel: %s\n", v.Channel)
		fmt.Fprintf(&b, "Views: %s\n", groupThousands(v.ViewCount))
		fmt.Fprintf(&b, "Content: %s...\n\n", preview)
	}

	return fmt.Sprintf(`Analyze the following skill and video content to extract learning insights:

%[1]s
Provide a comprehensive analysis for the skill "%[2]s" including:

1. SUBSKILLS: List 5-8 specific subskills or topics that learners need to master, formatted as bullet points with specific examples (e.g., for SQL: SELECT, COUNT, JOIN).
2. KEY_TAKEAWAYS: Important concepts or practical applications to note, formatted as bullet points.
3. IMPORTANT_INFO: Any crucial information or best practices related to the skill, formatted as bullet points.
4. SUMMARY: A detailed learning summary covering what students will learn.

Format your response exactly as:

SUBSKILLS:
- [subskill 1: example 1, example 2]
- [subskill 2: example 1, example 2]

KEY_TAKEAWAYS:
- [key takeaway 1]
- [key takeaway 2]

IMPORTANT_INFO:
- [important info 1]
- [important info 2]

SUMMARY:
[A comprehensive paragraph about what learners will gain from these videos]
`, b.String(), skill)
}

// truncateRunes keeps at most n characters of s.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

var viewPrinter = message.NewPrinter(language.English)

// groupThousands formats n with comma separators: 1234567 -> 1,234,567.
func groupThousands(n int64) string {
	return viewPrinter.Sprintf("%d", n)
}
