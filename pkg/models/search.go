package models

// SearchResult is one hit returned by a web search provider.
type SearchResult struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	RawContent string  `json:"raw_content,omitempty"`
	Score      float64 `json:"score"`
}

// SearchOptions controls a web search call.
type SearchOptions struct {
	Depth             string
	MaxResults        int
	IncludeRawContent bool
	IncludeAnswer     bool
}
