// internal/models/scraping.go
package models

import "time"

// ScrapingPlan is an ordered, size-bounded list of URLs to retrieve for a
// category. Immutable once built.
type ScrapingPlan struct {
	Category    Category `json:"category"`
	URLs        []string `json:"urls"`
	Priority    int      `json:"priority"`
	Description string   `json:"description,omitempty"`
}

// PageCount returns the number of pages the plan will fetch.
func (p ScrapingPlan) PageCount() int {
	return len(p.URLs)
}

// ScrapeResult is the outcome of fetching a single URL. Failed fetches are
// represented as Success=false rather than errors, so batch consumers always
// receive one result per requested URL.
type ScrapeResult struct {
	URL       string    `json:"url"`
	Content   string    `json:"content,omitempty"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ProcessedResponse is the synthesizer output handed back to the
// orchestration layer.
type ProcessedResponse struct {
	Answer           string           `json:"answer"`
	Sources          []string         `json:"sources"`
	Confidence       float64          `json:"confidence"`
	RelevantSections []string         `json:"relevantSections"`
	Metadata         ResponseMetadata `json:"metadata"`
}

// ResponseMetadata carries accounting information about a synthesis run.
type ResponseMetadata struct {
	PagesAttempted   int           `json:"pagesAttempted"`
	PagesSuccessful  int           `json:"pagesSuccessful"`
	ProcessingTime   time.Duration `json:"processingTime"`
	Category         Category      `json:"category"`
	Cached           bool          `json:"cached,omitempty"`
}
