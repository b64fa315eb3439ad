// Package chat answers free-text messages from the career assistant UI with
// canned replies and, when a career or skill is recognised, an instruction to
// start an analysis.
package chat

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ActionStartAnalysis tells the client to start an analysis for Reply.Skills.
const ActionStartAnalysis = "start_analysis"

// Reply is the assistant's answer to one message.
type Reply struct {
	Message     string   `json:"message"`
	Action      string   `json:"action,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// knownSkills is matched in order; the first substring hit wins.
var knownSkills = []string{
	"data analyst", "software developer", "digital marketing specialist", "ux/ui designer",
	"finance", "money", "accounting", "marketing", "sales", "engineer", "doctor",
	"teacher", "nurse", "artist", "writer", "project manager", "business analyst",
	"cybersecurity", "machine learning", "artificial intelligence", "ai", "python",
	"javascript", "java", "cloud computing", "devops", "product management",
}

var (
	analysisKeywords = []string{"analyze", "analysis", "career", "course", "skill", "job", "recommendation"}
	startKeywords    = []string{"start", "begin", "go", "yes", "do it"}
	helpKeywords     = []string{"help", "what", "how"}

	roleSuggestions = []string{"Data Analyst", "Software Developer", "Digital Marketing Specialist", "UX/UI Designer"}
)

// DefaultSkill is analysed when the user agrees to start without naming one.
const DefaultSkill = "Data Analyst"

// Respond classifies message by keyword and returns the matching reply.
func Respond(message string) Reply {
	msg := strings.ToLower(message)

	if skill := detectSkill(msg); skill != "" {
		return Reply{
			Message: "Great! I'll start a comprehensive analysis for " + skill + ". " +
				"This will include web scraping for courses, YouTube content analysis, " +
				"and personalized recommendations. Please wait while I process this for you...",
			Action: ActionStartAnalysis,
			Skills: []string{cases.Title(language.English).String(skill)},
		}
	}

	switch {
	case containsAny(msg, startKeywords):
		return Reply{
			Message: "Great! I'll start a comprehensive analysis that includes web scraping for courses, " +
				"YouTube content analysis, and personalized career insights. This may take a few minutes.",
			Action: ActionStartAnalysis,
			Skills: []string{DefaultSkill},
		}
	case containsAny(msg, analysisKeywords):
		return Reply{
			Message: "I can help you with a comprehensive career analysis! " +
				"What specific career or skill would you like me to analyze?",
			Suggestions: roleSuggestions,
		}
	case containsAny(msg, helpKeywords):
		return Reply{
			Message: "I'm your Smart Career SG assistant! I can help you with:\n\n" +
				"• Comprehensive career analysis\n" +
				"• Course recommendations from Coursera, edX, and Udemy\n" +
				"• YouTube learning content analysis\n" +
				"• Job market insights and salary information\n" +
				"• Skill development recommendations\n\n" +
				"Just tell me what career or skill you're interested in!",
			Suggestions: []string{
				"Analyze Data Analyst career",
				"Find courses for Python programming",
				"What jobs are in demand?",
			},
		}
	default:
		return Reply{
			Message: "I understand you're interested in career guidance. I can provide comprehensive analysis " +
				"including course recommendations, job market insights, and learning paths. " +
				"What specific career or skill would you like me to analyze?",
			Suggestions: roleSuggestions,
		}
	}
}

func detectSkill(msg string) string {
	for _, s := range knownSkills {
		if strings.Contains(msg, s) {
			return s
		}
	}
	return ""
}

func containsAny(msg string, words []string) bool {
	for _, w := range words {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}
