package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Package-level sentinel errors allow callers to use errors.Is while still
// carrying human-readable messages.
var (
	// ErrNoStartURL is returned when no crawl entry point is specified.
	ErrNoStartURL = errors.New("no start URL specified: provide one or more URLs as arguments")

	// ErrInvalidMaxPages is returned when the page cap is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidConcurrency is returned when the batch width is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxDepth is returned when the depth cap is negative.
	// Zero is valid and means only the start URL is fetched.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidMinRelevance is returned when the acceptance threshold is
	// outside [0,1). A threshold of 1 would reject every page because the
	// comparison is strict.
	ErrInvalidMinRelevance = errors.New("invalid min relevance: must be in [0,1)")

	// ErrUnsupportedOutputFormat is returned for any output format other
	// than "json" or "text".
	ErrUnsupportedOutputFormat = errors.New(`unsupported output format: must be "json" or "text"`)

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the body size cap is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
