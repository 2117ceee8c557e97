package model

// DefaultContentType is the wildcard content type used when the user gave no
// instructions or the planner could not produce specific content types.
const DefaultContentType = "all"

// CrawlStrategy guides keyword matching, content-type detection, and link
// selection during a crawl. It is built once per session by the planner and
// consumed read-only by the crawler and extractor; worker goroutines must
// never mutate it.
type CrawlStrategy struct {
	// Keywords are terms the planner judged important for the task.
	// Used for embedding-based relevance scoring.
	Keywords []string `json:"keywords"`

	// ContentTypes are the page categories worth collecting
	// (e.g., "faq", "pricing"). Defaults to ["all"].
	ContentTypes []string `json:"content_types"`

	// Task is a free-text description of what the user wants extracted.
	// When planning fails, this carries the raw user instructions so
	// relevance judgment still has the user's intent available.
	Task string `json:"task"`
}

// NewCrawlStrategy returns the default strategy: no keywords, the wildcard
// content type, and an empty task.
func NewCrawlStrategy() *CrawlStrategy {
	return &CrawlStrategy{
		Keywords:     []string{},
		ContentTypes: []string{DefaultContentType},
	}
}

// FallbackStrategy returns the strategy used when planning fails: empty
// keywords and default content types, with the raw instructions as the task.
func FallbackStrategy(instructions string) *CrawlStrategy {
	s := NewCrawlStrategy()
	s.Task = instructions
	return s
}

// Normalize fills in defaults after decoding a planner response.
// A malformed or partial response must still yield a usable strategy.
func (s *CrawlStrategy) Normalize() {
	if s.Keywords == nil {
		s.Keywords = []string{}
	}
	if len(s.ContentTypes) == 0 {
		s.ContentTypes = []string{DefaultContentType}
	}
}
