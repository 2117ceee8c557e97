package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Crawl bounds follow the original Rufus
// defaults; network settings are conservative enough for slow sites.
const (
	// DefaultMaxPages is the hard cap on unique URLs visited per crawl.
	DefaultMaxPages = 30

	// DefaultConcurrency is the number of pages fetched in parallel within
	// one crawl. It also bounds how many sessions a batch runs at once.
	DefaultConcurrency = 5

	// DefaultMaxDepth is the link-expansion depth cap. The start URL is
	// depth 0; pages at DefaultMaxDepth contribute no frontier expansion.
	DefaultMaxDepth = 3

	// DefaultMinRelevance is the acceptance threshold. A page is accepted
	// only when its relevance score is strictly greater than this value.
	DefaultMinRelevance = 0.3

	// DefaultOutputFormat is the document persistence format.
	DefaultOutputFormat = FormatJSON

	// DefaultOutputFile is the base name for saved document files.
	// A session tag and extension are appended at save time.
	DefaultOutputFile = "rufus_documents"

	// DefaultFetchTimeout bounds each page fetch.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultGenTimeout bounds each text-generation request. Planning and
	// synthesis calls can be slow; a hung call would otherwise stall the
	// whole crawl.
	DefaultGenTimeout = 60 * time.Second

	// DefaultCrawlDelay is the politeness delay between page fetches.
	DefaultCrawlDelay = 500 * time.Millisecond

	// DefaultUserAgent identifies Rufus in HTTP requests.
	DefaultUserAgent = "Rufus/1.0 - Web Data Extraction Tool for RAG Systems"

	// DefaultMaxBodySize limits the response body size read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultGenModel is the text-generation model requested from the
	// OpenAI-compatible endpoint.
	DefaultGenModel = "gpt-4o-mini"

	// DefaultGenBaseURL is the OpenAI-compatible API base URL.
	DefaultGenBaseURL = "https://api.openai.com/v1"

	// AppName is the application name used for XDG directory paths.
	AppName = "rufus"
)

// Supported output formats for document persistence.
const (
	// FormatJSON serializes the document list as a JSON array.
	FormatJSON = "json"

	// FormatText writes a human-readable text rendering per document.
	FormatText = "text"
)

// Config holds all options for one Rufus invocation.
// It is populated from CLI flags plus the optional profile file, validated
// once, and then treated as read-only.
type Config struct {
	// StartURLs are the crawl entry points. Each start URL runs as its
	// own session; multiple URLs are processed as a batch.
	StartURLs []string

	// Instructions is the free-text task description guiding the crawl.
	// Empty instructions skip strategy planning entirely.
	Instructions string

	// MaxPages is the hard cap on unique URLs visited per session.
	MaxPages int

	// Concurrency is the number of pages fetched in parallel within one
	// crawl, and the batch width when multiple start URLs are given.
	Concurrency int

	// MaxDepth is the link-expansion depth cap.
	MaxDepth int

	// MinRelevance is the acceptance threshold (strict > comparison).
	MinRelevance float64

	// OutputFormat selects document persistence: "json" or "text".
	OutputFormat string

	// OutputFile is the base name for saved document files.
	OutputFile string

	// FetchTimeout bounds each page fetch.
	FetchTimeout time.Duration

	// GenTimeout bounds each text-generation request.
	GenTimeout time.Duration

	// CrawlDelay is the politeness delay between page fetches.
	// Zero disables the delay.
	CrawlDelay time.Duration

	// UserAgent is sent with every page fetch.
	UserAgent string

	// MaxBodySize limits how many response bytes are read per page.
	MaxBodySize int64

	// APIKey authenticates against the text-generation endpoint. When
	// empty, generation calls fail and the crawl degrades to
	// embedding-only scoring with no link filtering.
	APIKey string

	// GenBaseURL is the OpenAI-compatible API base URL.
	GenBaseURL string

	// GenModel is the model name for text-generation requests.
	GenModel string

	// EmbeddingsPath points at a word2vec-format text file of word
	// vectors. When empty, keyword scoring always yields zero and
	// relevance rests on the text-generation judgment alone.
	EmbeddingsPath string

	// SameDomainOnly restricts link expansion to the start URL's
	// registered domain (eTLD+1).
	SameDomainOnly bool

	// IgnoreRobots disables robots.txt checks. Default is to honor them.
	IgnoreRobots bool

	// SummaryReport enables a Markdown session summary on stdout after
	// the crawl completes.
	SummaryReport bool

	// Verbose enables debug-level logging.
	Verbose bool

	// ConfigFilePath is an explicit profile file path. If empty, .rufus
	// is searched for in the current and home directories.
	ConfigFilePath string

	// Profiles holds per-site overrides loaded from the profile file.
	Profiles *File

	// DBDir is the directory for the session history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB controls whether sessions are recorded in the history
	// database.
	SaveToDB bool
}

// NewConfig returns a Config with all defaults applied.
func NewConfig() *Config {
	return &Config{
		MaxPages:     DefaultMaxPages,
		Concurrency:  DefaultConcurrency,
		MaxDepth:     DefaultMaxDepth,
		MinRelevance: DefaultMinRelevance,
		OutputFormat: DefaultOutputFormat,
		OutputFile:   DefaultOutputFile,
		FetchTimeout: DefaultFetchTimeout,
		GenTimeout:   DefaultGenTimeout,
		CrawlDelay:   DefaultCrawlDelay,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		GenBaseURL:   DefaultGenBaseURL,
		GenModel:     DefaultGenModel,
	}
}

// XDGDataDir returns the XDG data directory for Rufus.
// On Linux: ~/.local/share/rufus
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for Rufus.
// On Linux: ~/.config/rufus
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any crawling begins.
func (c *Config) Validate() error {
	if len(c.StartURLs) == 0 {
		return ErrNoStartURL
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.MinRelevance < 0 || c.MinRelevance >= 1 {
		return ErrInvalidMinRelevance
	}
	// Requesting any other format is a fatal configuration error.
	if c.OutputFormat != FormatJSON && c.OutputFormat != FormatText {
		return ErrUnsupportedOutputFormat
	}
	if c.FetchTimeout <= 0 || c.GenTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
