package model

import (
	"time"

	"github.com/google/uuid"
)

// CrawlSession aggregates the state of one crawl invocation as it moves
// through the pipeline: planning, crawling, synthesis, and persistence each
// fill in their part. One session corresponds to one start URL.
type CrawlSession struct {
	// ID uniquely identifies this session. Also used to tag output files.
	ID string `json:"id"`

	// StartURL is the URL the crawl began from.
	StartURL string `json:"start_url"`

	// Instructions is the raw user instruction string, possibly empty.
	Instructions string `json:"instructions,omitempty"`

	// Strategy is the planned crawl strategy. Set by the planning step.
	Strategy *CrawlStrategy `json:"strategy,omitempty"`

	// Results are all page results the crawl accepted (content present).
	Results []PageResult `json:"results,omitempty"`

	// VisitedCount is the number of unique URLs visited, including pages
	// that were rejected or failed.
	VisitedCount int `json:"visited_count"`

	// Documents are the synthesized output documents.
	Documents []Document `json:"documents,omitempty"`

	// OutputPath is where the documents were saved, if persistence ran.
	OutputPath string `json:"output_path,omitempty"`

	// StartedAt and FinishedAt bound the session's execution.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`

	// ErrorMessage records a pipeline failure, if any. The session object
	// is still returned so partial results remain inspectable.
	ErrorMessage string `json:"error_message,omitempty"`

	// PerformedSteps names the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`
}

// NewCrawlSession creates a session for the given start URL and instructions.
func NewCrawlSession(startURL, instructions string) *CrawlSession {
	return &CrawlSession{
		ID:           uuid.NewString(),
		StartURL:     startURL,
		Instructions: instructions,
		StartedAt:    time.Now().UTC(),
	}
}

// Duration returns the elapsed session time, or the time since start if the
// session has not finished.
func (s *CrawlSession) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// CategoryCounts returns the number of accepted pages per content category.
func (s *CrawlSession) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	for i := range s.Results {
		counts[s.Results[i].Category()]++
	}
	return counts
}
