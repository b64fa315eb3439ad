package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		action      string
		skills      []string
		suggestions bool
	}{
		{name: "known role", message: "I want to become a Data Analyst", action: ActionStartAnalysis, skills: []string{"Data Analyst"}},
		{name: "first listed skill wins", message: "python or java?", action: ActionStartAnalysis, skills: []string{"Python"}},
		{name: "start without skill", message: "Yes please", action: ActionStartAnalysis, skills: []string{DefaultSkill}},
		{name: "analysis keyword", message: "Recommendation please", suggestions: true},
		{name: "help keyword", message: "How does this work?", suggestions: true},
		{name: "fallback", message: "hello there", suggestions: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Respond(tt.message)
			assert.NotEmpty(t, r.Message)
			assert.Equal(t, tt.action, r.Action)
			assert.Equal(t, tt.skills, r.Skills)
			assert.Equal(t, tt.suggestions, len(r.Suggestions) > 0)
		})
	}
}

func TestRespond_HelpListsCapabilities(t *testing.T) {
	r := Respond("what can you do")
	assert.Contains(t, r.Message, "Smart Career SG assistant")
	assert.Contains(t, r.Suggestions, "What jobs are in demand?")
}

func TestRespond_SkillMessageNamesSkill(t *testing.T) {
	r := Respond("tell me about NURSE roles")
	assert.Equal(t, []string{"Nurse"}, r.Skills)
	assert.Contains(t, r.Message, "analysis for nurse.")
}
