package textparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected any
	}{
		{
			name:     "fenced array",
			input:    "Here you go:\n```json\n[\"a\",\"b\"]\n```\nThanks",
			expected: []any{"a", "b"},
		},
		{
			name:     "bare array",
			input:    `["a","b"]`,
			expected: []any{"a", "b"},
		},
		{
			name:     "bare object with whitespace",
			input:    "\n  {\"module\": \"Joins\"}  \n",
			expected: map[string]any{"module": "Joins"},
		},
		{
			name:     "uppercase fence label",
			input:    "```JSON\n{\"ok\": true}\n```",
			expected: map[string]any{"ok": true},
		},
		{
			name:     "garbage",
			input:    "I could not find any modules, sorry.",
			expected: map[string]any{},
		},
		{
			name:     "malformed fenced block",
			input:    "```json\n[\"a\",\n```",
			expected: map[string]any{},
		},
		{
			name:     "empty",
			input:    "",
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSON(tt.input))
		})
	}
}

func TestExtractJSON_FirstFencedBlockWins(t *testing.T) {
	input := "```json\n[1]\n```\nand\n```json\n[2]\n```"
	assert.Equal(t, []any{float64(1)}, ExtractJSON(input))
}

func TestDecode_Typed(t *testing.T) {
	var out []struct {
		Module string  `json:"module"`
		Score  float64 `json:"relevance_score"`
	}
	err := Decode("```json\n[{\"module\":\"SELECT\",\"relevance_score\":9}]\n```", &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "SELECT", out[0].Module)
	assert.Equal(t, 9.0, out[0].Score)
}

func TestDecode_NoJSON(t *testing.T) {
	var v any
	err := Decode("nothing here", &v)
	assert.ErrorIs(t, err, ErrNoJSON)

	err = Decode("   ", &v)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractStrings(t *testing.T) {
	items, ok := ExtractStrings("```json\n[\"Intro\", 3, \"  Joins \", \"\"]\n```")
	assert.True(t, ok)
	assert.Equal(t, []string{"Intro", "Joins"}, items)

	items, ok = ExtractStrings(`{"modules": []}`)
	assert.False(t, ok)
	assert.Empty(t, items)
}

func TestParseSections_SubskillsAndSummary(t *testing.T) {
	s := ParseSections("SUBSKILLS:\n- X\n- Y\n\nSUMMARY:\nhello world")

	assert.Equal(t, []string{"X", "Y"}, s.List(Subskills))
	assert.Equal(t, "hello world", s.Text(Summary))
	assert.Empty(t, s.List(KeyTakeaways))
}

func TestParseSections_FullAnalysisResponse(t *testing.T) {
	input := `Here is the analysis.

**SUBSKILLS:**
- SELECT statements: SELECT *, column lists
- Aggregation: COUNT, SUM
-

KEY_TAKEAWAYS:
- Practice on real datasets
  - Indexes matter

IMPORTANT_INFO:
- Avoid SELECT * in production
not a bullet, dropped

SUMMARY:
Learners will write queries.
They will also aggregate data.
`
	s := ParseSections(input)

	assert.Equal(t, []string{"SELECT statements: SELECT *, column lists", "Aggregation: COUNT, SUM"}, s.List(Subskills))
	assert.Equal(t, []string{"Practice on real datasets", "Indexes matter"}, s.List(KeyTakeaways))
	assert.Equal(t, []string{"Avoid SELECT * in production"}, s.List(ImportantInfo))
	assert.Equal(t, "Learners will write queries. They will also aggregate data.", s.Text(Summary))
}

func TestParseSections_NumberedLearningPath(t *testing.T) {
	input := `IMPORTANT_CONSIDERATIONS:
- Build a portfolio
- Learn the business domain

LEARNING_PATH:
1. Learn SQL basics
2.Practice with dashboards
10. Ship a capstone project`

	s := ParseSections(input)

	assert.Equal(t, []string{"Build a portfolio", "Learn the business domain"}, s.List(ImportantConsiderations))
	assert.Equal(t, []string{"Learn SQL basics", "Practice with dashboards", "Ship a capstone project"}, s.List(LearningPath))
}

func TestParseSections_LinesOutsideSectionsDropped(t *testing.T) {
	s := ParseSections("- orphan bullet\n1. orphan step\nSUBSKILLS:\n- kept")
	assert.Equal(t, []string{"kept"}, s.List(Subskills))
	assert.Empty(t, s.List(LearningPath))
}

func TestParseSections_HeaderCaseInsensitive(t *testing.T) {
	s := ParseSections("Key_Takeaways:\n- one\nsummary: inline text\nmore text")
	assert.Equal(t, []string{"one"}, s.List(KeyTakeaways))
	assert.Equal(t, "inline text more text", s.Text(Summary))
}

func TestParseSections_KeepsOriginalTextAfterHeader(t *testing.T) {
	s := ParseSections("SUMMARY: Learners master ınteger maths.\nMore text.")
	assert.Equal(t, "Learners master ınteger maths. More text.", s.Text(Summary))

	s = ParseSections("Summary: Straße café")
	assert.Equal(t, "Straße café", s.Text(Summary))
}

func TestParseSections_LastHeaderOnLineWins(t *testing.T) {
	s := ParseSections("SUBSKILLS: then LEARNING_PATH:\n1. step")
	assert.Empty(t, s.List(Subskills))
	assert.Equal(t, []string{"step"}, s.List(LearningPath))
}

func TestParseSections_Empty(t *testing.T) {
	s := ParseSections("")
	assert.NotNil(t, s.List(Subskills))
	assert.Empty(t, s.List(Subskills))
	assert.Equal(t, "", s.Text(Summary))
}
