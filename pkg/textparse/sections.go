package textparse

import (
	"regexp"
	"strings"
)

// Section is a header label of the fixed response format.
type Section string

const (
	Subskills               Section = "SUBSKILLS"
	KeyTakeaways            Section = "KEY_TAKEAWAYS"
	ImportantInfo           Section = "IMPORTANT_INFO"
	Summary                 Section = "SUMMARY"
	ImportantConsiderations Section = "IMPORTANT_CONSIDERATIONS"
	LearningPath            Section = "LEARNING_PATH"
)

// knownSections is checked in order; when a line carries more than one label
// the last match wins.
var knownSections = []Section{
	Subskills,
	KeyTakeaways,
	ImportantInfo,
	Summary,
	ImportantConsiderations,
	LearningPath,
}

// textSections accumulate every non-empty line into one string.
var textSections = map[Section]bool{
	Summary: true,
}

var numberedItem = regexp.MustCompile(`^\d+\.\s*`)

// headerPatterns match "LABEL:" in any case without rewriting the line.
var headerPatterns = func() map[Section]*regexp.Regexp {
	m := make(map[Section]*regexp.Regexp, len(knownSections))
	for _, sec := range knownSections {
		m[sec] = regexp.MustCompile("(?i)" + regexp.QuoteMeta(string(sec)) + ":")
	}
	return m
}()

// Sections is the result of ParseSections.
type Sections struct {
	lists map[Section][]string
	texts map[Section][]string
}

// List returns the bullet or numbered items collected under sec. Never nil.
func (s Sections) List(sec Section) []string {
	if items := s.lists[sec]; items != nil {
		return items
	}
	return []string{}
}

// Text returns the joined lines collected under a summary-type section.
func (s Sections) Text(sec Section) string {
	return strings.Join(s.texts[sec], " ")
}

// ParseSections scans text line by line. A line containing "LABEL:" switches
// the current section. Within list sections, lines starting with "-" or "N."
// become items; within summary sections every non-empty line is kept. Lines
// outside any section are dropped.
func ParseSections(text string) Sections {
	out := Sections{
		lists: make(map[Section][]string),
		texts: make(map[Section][]string),
	}

	var current Section
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if sec, rest, ok := matchHeader(line); ok {
			current = sec
			line = rest
		}
		if current == "" || line == "" {
			continue
		}

		if textSections[current] {
			out.texts[current] = append(out.texts[current], line)
			continue
		}
		if item, ok := listItem(line); ok {
			out.lists[current] = append(out.lists[current], item)
		}
	}
	return out
}

// matchHeader reports whether line carries a section label and returns the
// content that follows the label on the same line.
func matchHeader(line string) (Section, string, bool) {
	var (
		found Section
		idx   int
	)
	for _, sec := range knownSections {
		if loc := headerPatterns[sec].FindStringIndex(line); loc != nil {
			found = sec
			idx = loc[1]
		}
	}
	if found == "" {
		return "", "", false
	}
	return found, strings.Trim(line[idx:], " *#_"), true
}

func listItem(line string) (string, bool) {
	var item string
	switch {
	case strings.HasPrefix(line, "-"):
		item = strings.TrimSpace(line[1:])
	case numberedItem.MatchString(line):
		item = strings.TrimSpace(numberedItem.ReplaceAllString(line, ""))
	default:
		return "", false
	}
	return item, item != ""
}
