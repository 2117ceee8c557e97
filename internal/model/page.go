package model

// MaxRawHTMLSize is the maximum size of raw HTML retained on a PageResult.
// Larger bodies are truncated to prevent memory issues on pathological pages.
const MaxRawHTMLSize = 5 * 1024 * 1024 // 5MB

// PageResult represents the outcome of visiting a single URL.
// It is created once per visit by the crawl controller's per-URL pipeline
// and never mutated afterwards.
//
// A failed fetch still produces a PageResult (with empty content and a zero
// score) so that visited-set bookkeeping stays consistent; only results
// whose Content is non-empty count as accepted.
type PageResult struct {
	// URL is the address of the visited page as it was queued.
	URL string `json:"url"`

	// Content is the extracted main text of the page. Empty when the page
	// scored at or below the relevance threshold, or when the fetch failed.
	Content string `json:"content,omitempty"`

	// Title is the page title, falling back to the URL when the page has
	// no title element. Empty only for failed fetches.
	Title string `json:"title,omitempty"`

	// RelevanceScore estimates how well the page matches the strategy.
	// Best-effort [0,1]; consumers that need a bounded value should use
	// ClampedScore.
	RelevanceScore float64 `json:"relevance_score"`

	// Metadata carries crawl bookkeeping for this page.
	Metadata PageMetadata `json:"metadata"`
}

// PageMetadata holds per-page crawl bookkeeping.
type PageMetadata struct {
	// Depth is the link distance from the start URL. The start URL is
	// depth 0.
	Depth int `json:"depth"`

	// ContentType is the detected page category (faq, pricing, product,
	// about, general). Empty when the fetch failed.
	ContentType string `json:"content_type,omitempty"`

	// RawHTML is the original response body, retained for downstream
	// reprocessing. Empty when the fetch failed. Excluded from JSON to
	// keep saved sessions small.
	RawHTML string `json:"-"`
}

// NewFailedPageResult returns the contentless result recorded when the
// per-URL pipeline fails. The result keeps the URL and depth so the
// controller's accounting stays intact.
func NewFailedPageResult(url string, depth int) PageResult {
	return PageResult{
		URL:      url,
		Metadata: PageMetadata{Depth: depth},
	}
}

// Accepted reports whether the page passed the relevance threshold and
// contributes content to synthesis.
func (r *PageResult) Accepted() bool {
	return r.Content != ""
}

// ClampedScore returns RelevanceScore clamped to [0,1]. Upstream scoring is
// best-effort and may misbehave; consumers must not trust the raw value.
func (r *PageResult) ClampedScore() float64 {
	switch {
	case r.RelevanceScore < 0:
		return 0
	case r.RelevanceScore > 1:
		return 1
	}
	return r.RelevanceScore
}

// Category returns the detected content type, treating a missing value as
// "general" so grouping never drops a page.
func (r *PageResult) Category() string {
	if r.Metadata.ContentType == "" {
		return "general"
	}
	return r.Metadata.ContentType
}

// TruncateRawHTML enforces MaxRawHTMLSize on the retained body.
// Call this after setting RawHTML.
func (r *PageResult) TruncateRawHTML() {
	if len(r.Metadata.RawHTML) > MaxRawHTMLSize {
		r.Metadata.RawHTML = r.Metadata.RawHTML[:MaxRawHTMLSize]
	}
}
