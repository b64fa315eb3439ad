// Package courses scans learning sites for courses on a topic, extracts their
// modules and ranks those modules by relevance to the topic.
package courses

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/gateway"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/textparse"
)

// OutputFile is the file name a scan is persisted under.
const OutputFile = "website_modules_output.json"

const (
	siteSearchResults = 5
	neutralScore      = 5
	neutralReason     = "Could not determine relevance"
)

// DefaultSites are the learning platforms scanned when none are configured.
var DefaultSites = []string{
	"https://www.coursera.org",
	"https://www.edx.org",
	"https://www.udemy.com/",
}

// Gateway is the degraded-on-failure access to search and the language model.
type Gateway interface {
	Complete(ctx context.Context, prompt string) string
	Search(ctx context.Context, query string, opts models.SearchOptions) []models.SearchResult
}

// Scanner runs course scans.
type Scanner struct {
	gw             Gateway
	sites          []string
	resultsPerSite int
	siteDelay      time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

// Option configures a Scanner.
type Option func(*Scanner)

func WithSites(sites []string) Option {
	return func(s *Scanner) {
		if len(sites) > 0 {
			s.sites = sites
		}
	}
}

func WithResultsPerSite(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.resultsPerSite = n
		}
	}
}

// WithSiteDelay sets the pause between site searches and the function used
// to wait it out.
func WithSiteDelay(d time.Duration, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Scanner) {
		s.siteDelay = d
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

func NewScanner(gw Gateway, opts ...Option) *Scanner {
	s := &Scanner{
		gw:             gw,
		sites:          DefaultSites,
		resultsPerSite: 2,
		siteDelay:      2 * time.Second,
		sleep:          gateway.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan collects courses and modules for topic on every site and ranks the
// combined module list. It never fails; unreachable sites contribute
// nothing.
func (s *Scanner) Scan(ctx context.Context, topic string) models.CourseScan {
	scan := models.CourseScan{Websites: make([]models.Website, 0, len(s.sites))}
	var collected []string

	for i, site := range s.sites {
		if i > 0 && s.siteDelay > 0 {
			if err := s.sleep(ctx, s.siteDelay); err != nil {
				slog.Warn("course scan interrupted", "topic", topic, "error", err)
				break
			}
		}

		web := s.scanSite(ctx, site, topic)
		collected = append(collected, web.Modules...)
		scan.Websites = append(scan.Websites, web)
	}

	if len(collected) > 0 && topic != "" {
		slog.Info("ranking course modules", "topic", topic, "modules", len(collected))
		ranked := s.Rank(ctx, collected, topic)
		scan.OverallRankedModules = &models.RankedModules{
			Skill:               topic,
			TotalModulesFound:   len(collected),
			UniqueModulesRanked: len(ranked),
			RankedModules:       ranked,
		}
	}
	return scan
}

func (s *Scanner) scanSite(ctx context.Context, site, topic string) models.Website {
	web := models.Website{
		WebsiteName: SiteName(site),
		WebsiteURL:  site,
		Topic:       topic,
		Modules:     []string{},
		Courses:     []models.Course{},
	}

	query := fmt.Sprintf("course %s site:%s", topic, site)
	results := s.gw.Search(ctx, query, models.SearchOptions{MaxResults: siteSearchResults})

	taken := 0
	for _, r := range results {
		if taken == s.resultsPerSite {
			break
		}
		taken++
		if r.Title == "" || r.URL == "" {
			continue
		}
		web.Courses = append(web.Courses, models.Course{Title: r.Title, URL: r.URL})
		web.Modules = append(web.Modules, s.Modules(ctx, r.URL, topic)...)
	}

	slog.Info("scanned course site", "site", web.WebsiteName, "courses", len(web.Courses), "modules", len(web.Modules))
	return web
}

// Modules extracts the module titles of one course page.
func (s *Scanner) Modules(ctx context.Context, pageURL, topic string) []string {
	content := s.pageContent(ctx, pageURL)
	if content == "" {
		slog.Warn("no content for course page", "url", pageURL)
		return []string{}
	}

	resp := s.gw.Complete(ctx, modulesPrompt(topic, content))
	modules, ok := textparse.ExtractStrings(resp)
	if !ok {
		slog.Warn("module extraction returned no list", "url", pageURL)
		return []string{}
	}
	return modules
}

func (s *Scanner) pageContent(ctx context.Context, pageURL string) string {
	results := s.gw.Search(ctx, pageURL, models.SearchOptions{MaxResults: 1, IncludeRawContent: true})
	if len(results) == 0 {
		return ""
	}
	if c := strings.TrimSpace(results[0].RawContent); c != "" {
		return c
	}
	return strings.TrimSpace(results[0].Content)
}

// Rank scores modules against topic. Duplicates are removed first, keeping
// first occurrence. When the model does not answer with a list every module
// receives a neutral score.
func (s *Scanner) Rank(ctx context.Context, modules []string, topic string) []models.RankedModule {
	unique := dedupe(modules)
	if len(unique) == 0 {
		return []models.RankedModule{}
	}

	resp := s.gw.Complete(ctx, rankPrompt(topic, unique))
	arr, ok := textparse.ExtractJSON(resp).([]any)
	if !ok {
		slog.Warn("module ranking returned no list, using neutral scores", "topic", topic)
		ranked := make([]models.RankedModule, 0, len(unique))
		for _, m := range unique {
			ranked = append(ranked, models.RankedModule{Module: m, RelevanceScore: neutralScore, Reason: neutralReason})
		}
		return ranked
	}

	ranked := make([]models.RankedModule, 0, len(arr))
	for _, el := range arr {
		rm, ok := rankedModule(el)
		if !ok {
			slog.Warn("dropping invalid ranked module", "entry", el)
			continue
		}
		ranked = append(ranked, rm)
	}
	return ranked
}

func rankedModule(v any) (models.RankedModule, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return models.RankedModule{}, false
	}
	name, ok := obj["module"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return models.RankedModule{}, false
	}
	score, ok := obj["relevance_score"].(float64)
	if !ok {
		return models.RankedModule{}, false
	}
	reason, ok := obj["reason"].(string)
	if !ok {
		return models.RankedModule{}, false
	}
	return models.RankedModule{Module: name, RelevanceScore: score, Reason: reason}, true
}

// TopSkills returns the names of the first n ranked modules.
func TopSkills(scan models.CourseScan, n int) []string {
	if scan.OverallRankedModules == nil || n <= 0 {
		return []string{}
	}
	ranked := scan.OverallRankedModules.RankedModules
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	names := make([]string, 0, len(ranked))
	for _, rm := range ranked {
		names = append(names, rm.Module)
	}
	return names
}

// Save writes scan as indented JSON to dir/website_modules_output.json.
func Save(scan models.CourseScan, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	data, err := json.MarshalIndent(scan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding course scan: %w", err)
	}
	path := filepath.Join(dir, OutputFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing course scan: %w", err)
	}
	return path, nil
}

// SiteName derives a display name from a site URL: www.edx.org -> Edx.
func SiteName(site string) string {
	host := site
	if u, err := url.Parse(site); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.TrimPrefix(host, "www.")
	label, _, _ := strings.Cut(host, ".")
	label, _, _ = strings.Cut(label, "/")
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + strings.ToLower(label[1:])
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
