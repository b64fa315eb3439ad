// Package models contains the shared data model of the skills analysis pipeline.
package models

// VideoContent is one discovered video with its extracted text body.
// Transcript is empty when no extraction channel produced text.
type VideoContent struct {
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	Channel    string `json:"channel"`
	ViewCount  int64  `json:"view_count"`
	Duration   string `json:"duration"`
	Transcript string `json:"transcript"`
}

// SkillAnalysis holds the findings for a single skill. Videos keep discovery order.
type SkillAnalysis struct {
	Skill         string         `json:"skill"`
	Videos        []VideoContent `json:"videos"`
	Subskills     []string       `json:"subskills"`
	KeyTakeaways  []string       `json:"key_takeaways"`
	ImportantInfo []string       `json:"important_info"`
	Summary       string         `json:"summary"`
}

// ComprehensiveAnalysis is the role-level aggregate persisted once per run.
// SkillsBreakdown has one entry per requested skill, in input order.
type ComprehensiveAnalysis struct {
	MainRole                string          `json:"main_role"`
	SkillsBreakdown         []SkillAnalysis `json:"skills_breakdown"`
	ImportantConsiderations []string        `json:"important_considerations"`
	LearningPath            []string        `json:"learning_path"`
	CreatedAt               string          `json:"created_at"`
}

// EmptySkillAnalysis returns the record used when a skill yields no content.
func EmptySkillAnalysis(skill, summary string) SkillAnalysis {
	return SkillAnalysis{
		Skill:         skill,
		Videos:        []VideoContent{},
		Subskills:     []string{},
		KeyTakeaways:  []string{},
		ImportantInfo: []string{},
		Summary:       summary,
	}
}
