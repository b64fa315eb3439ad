package models

// Course is one course page discovered on a learning site.
type Course struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Website groups the courses and modules found on one learning site.
type Website struct {
	WebsiteName string   `json:"website_name"`
	WebsiteURL  string   `json:"website_url"`
	Topic       string   `json:"topic"`
	Modules     []string `json:"modules"`
	Courses     []Course `json:"courses"`
}

// RankedModule is a course module scored for relevance to a skill (1-10).
type RankedModule struct {
	Module         string  `json:"module"`
	RelevanceScore float64 `json:"relevance_score"`
	Reason         string  `json:"reason"`
}

// RankedModules is the cross-site ranking of all collected modules.
type RankedModules struct {
	Skill               string         `json:"skill"`
	TotalModulesFound   int            `json:"total_modules_found"`
	UniqueModulesRanked int            `json:"unique_modules_ranked"`
	RankedModules       []RankedModule `json:"ranked_modules"`
}

// CourseScan is the output of a course-page scan for one topic.
type CourseScan struct {
	Websites             []Website      `json:"websites"`
	OverallRankedModules *RankedModules `json:"overall_ranked_modules,omitempty"`
}
