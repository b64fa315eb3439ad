package roles

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/cache"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/textparse"
)

const (
	maxSummaryRunes = 800
	maxFacts        = 4
	maxSkills       = 15
	profileTTL      = 24 * time.Hour
)

// Completer is satisfied by gateway.Client.
type Completer interface {
	Complete(ctx context.Context, prompt string) string
}

// Profile is the card shown for one role.
type Profile struct {
	Role       string   `json:"role"`
	Summary    string   `json:"summary"`
	Facts      []string `json:"facts"`
	Skills     []string `json:"skills"`
	PDFURL     *string  `json:"pdfUrl"`
	ImageQuery string   `json:"imageQuery"`
	ImageURL   string   `json:"imageUrl"`
}

// Profiler builds role profiles, asking the language model for a polished
// summary when one is configured and caching the outcome.
type Profiler struct {
	llm   Completer
	cache cache.Cache
}

// NewProfiler accepts a nil llm (profiles are then derived from the analysis
// alone) and a nil cache.
func NewProfiler(llm Completer, c cache.Cache) *Profiler {
	return &Profiler{llm: llm, cache: c}
}

// Profile returns the profile of r built from its analysis a. pdfURL is
// included only when r has a PDF.
func (p *Profiler) Profile(ctx context.Context, r Role, a models.ComprehensiveAnalysis, pdfURL string) Profile {
	key := cache.ProfileKey(r.Slug, a.CreatedAt)
	if cached, ok := p.cached(ctx, key); ok {
		return withPDF(cached, r, pdfURL)
	}

	prof := fallbackProfile(r.Name, a)
	if p.llm != nil {
		p.enrich(ctx, &prof, a)
		prof.ImageQuery = p.imageQuery(ctx, r.Name)
	}
	prof.ImageURL = imageURL(r.Name, prof.ImageQuery)

	p.store(ctx, key, prof)
	return withPDF(prof, r, pdfURL)
}

func (p *Profiler) enrich(ctx context.Context, prof *Profile, a models.ComprehensiveAnalysis) {
	text := p.llm.Complete(ctx, profilePrompt(a))
	if text == "" {
		return
	}

	var parsed struct {
		Summary string   `json:"summary"`
		Facts   []string `json:"facts"`
		Skills  []string `json:"skills"`
	}
	if err := textparse.Decode(objectSpan(text), &parsed); err != nil {
		slog.Warn("role profile response not usable", "role", a.MainRole, "error", err)
		return
	}

	if s := strings.TrimSpace(parsed.Summary); s != "" {
		prof.Summary = truncate(s, maxSummaryRunes)
	}
	if facts := nonEmpty(parsed.Facts); len(facts) > 0 {
		prof.Facts = head(facts, maxFacts)
	}
	if skills := nonEmpty(parsed.Skills); len(skills) > 0 {
		prof.Skills = head(skills, maxSkills)
	}
}

func (p *Profiler) imageQuery(ctx context.Context, role string) string {
	text := p.llm.Complete(ctx, fmt.Sprintf(
		"Return 3-6 comma-separated photo keywords (no quotes, no extra text) "+
			"for a professional, non-cheesy image depicting the job role: %s", role))

	var parts []string
	for _, t := range strings.Split(text, ",") {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return role
	}
	return strings.Join(parts, ", ")
}

func (p *Profiler) cached(ctx context.Context, key string) (Profile, bool) {
	if p.cache == nil {
		return Profile{}, false
	}
	data, ok, err := p.cache.Get(ctx, key)
	if err != nil || !ok {
		return Profile{}, false
	}
	var prof Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return Profile{}, false
	}
	return prof, true
}

func (p *Profiler) store(ctx context.Context, key string, prof Profile) {
	if p.cache == nil {
		return
	}
	prof.PDFURL = nil
	data, err := json.Marshal(prof)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, key, data, profileTTL); err != nil {
		slog.Warn("caching role profile failed", "key", key, "error", err)
	}
}

// fallbackProfile derives a profile from the analysis without the model.
func fallbackProfile(role string, a models.ComprehensiveAnalysis) Profile {
	var summaries []string
	seen := map[string]bool{}
	skills := []string{}
	for _, s := range a.SkillsBreakdown {
		if sum := strings.TrimSpace(s.Summary); sum != "" {
			summaries = append(summaries, sum)
		}
		low := strings.ToLower(s.Skill)
		if s.Skill != "" && !seen[low] {
			seen[low] = true
			skills = append(skills, s.Skill)
		}
	}

	return Profile{
		Role:       role,
		Summary:    truncate(strings.Join(summaries, " "), maxSummaryRunes),
		Facts:      head(nonEmpty(a.ImportantConsiderations), maxFacts),
		Skills:     head(skills, maxSkills),
		ImageQuery: role,
	}
}

func profilePrompt(a models.ComprehensiveAnalysis) string {
	type skillBrief struct {
		Skill     string   `json:"skill"`
		Subskills []string `json:"subskills"`
		Summary   string   `json:"summary"`
	}
	brief := struct {
		Role           string       `json:"role"`
		Skills         []skillBrief `json:"skills"`
		Considerations []string     `json:"important_considerations"`
		LearningPath   []string     `json:"learning_path"`
	}{Role: a.MainRole, Considerations: a.ImportantConsiderations, LearningPath: a.LearningPath}
	for _, s := range a.SkillsBreakdown {
		brief.Skills = append(brief.Skills, skillBrief{Skill: s.Skill, Subskills: s.Subskills, Summary: s.Summary})
	}
	raw, _ := json.Marshal(brief)

	return "You are a career content editor. Given role JSON, return a **pure JSON** object with keys:\n" +
		"summary (100-120 words, Singapore context where relevant),\n" +
		"facts (3-4 crisp bullet strings),\n" +
		"skills (max 15 concise tags). No markdown. Only JSON.\n\n" +
		"ROLE JSON:\n" + string(raw)
}

// imageURL returns a stable stock-photo URL for role.
func imageURL(role, query string) string {
	sum := sha256.Sum256([]byte(role))
	sig := new(big.Int).Mod(new(big.Int).SetBytes(sum[:]), big.NewInt(10_000_000))
	return fmt.Sprintf("https://source.unsplash.com/featured/800x450?%s&sig=%s", url.QueryEscape(query), sig)
}

func withPDF(prof Profile, r Role, pdfURL string) Profile {
	prof.PDFURL = nil
	if r.HasPDF && pdfURL != "" {
		u := pdfURL
		prof.PDFURL = &u
	}
	return prof
}

// objectSpan returns text from the first '{' to the last '}', or text itself.
func objectSpan(text string) string {
	if payload, fenced := textparse.FindJSON(text); fenced {
		return payload
	}
	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func head(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
