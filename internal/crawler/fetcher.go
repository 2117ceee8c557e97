package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// Errors returned by Fetcher.Fetch. Callers use errors.Is to tell policy
// skips apart from transport failures.
var (
	// ErrRobotsDisallowed is returned when robots.txt forbids fetching the URL.
	ErrRobotsDisallowed = errors.New("fetch disallowed by robots.txt")

	// ErrNotHTML is returned when the response is not an HTML document.
	ErrNotHTML = errors.New("response is not HTML")
)

// FetchResult is a successfully fetched and parsed HTML page.
type FetchResult struct {
	// URL is the address that was requested.
	URL string

	// StatusCode is the HTTP status of the final response.
	StatusCode int

	// Body is the raw response body, capped at the configured size.
	Body string

	// Doc is the parsed document.
	Doc *goquery.Document

	// Links are the absolute, normalized HTTP(S) links found on the page,
	// resolved against the final response URL so redirects are honored.
	Links []string
}

// Fetcher downloads HTML pages politely: it consults robots.txt, paces
// requests through a shared rate limit, and caps response bodies.
// A Fetcher is safe for concurrent use.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	headers      map[string]string
	maxBodySize  int64
	ignoreRobots bool
	limiter      *rate.Limiter
	logger       *slog.Logger

	// robots caches robots.txt groups per host. A nil entry means the
	// robots.txt fetch failed and everything is allowed.
	mu     sync.Mutex
	robots map[string]*robotstxt.Group
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets the User-Agent header sent with every request. The
// same identity is used for robots.txt group matching.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHeaders sets extra HTTP headers sent with every page request, on top
// of the User-Agent and Accept headers.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize caps how many bytes of a response body are read.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithCrawlDelay sets the minimum interval between requests. Zero disables
// pacing.
func WithCrawlDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.limiter = rate.NewLimiter(rate.Every(d), 1)
		} else {
			f.limiter = nil
		}
	}
}

// WithIgnoreRobots disables robots.txt checks. Intended for sites the
// operator controls.
func WithIgnoreRobots(ignore bool) FetcherOption {
	return func(f *Fetcher) {
		f.ignoreRobots = ignore
	}
}

// WithFetcherLogger sets a custom logger.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a Fetcher using the given HTTP client. The client
// carries the request timeout; the Fetcher layers politeness on top.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   "Rufus/1.0 - Web Data Extraction Tool for RAG Systems",
		maxBodySize: 5 * 1024 * 1024,
		limiter:     rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		logger:      slog.Default(),
		robots:      make(map[string]*robotstxt.Group),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch downloads and parses one HTML page. Non-2xx statuses, non-HTML
// content, and robots.txt denials are all errors; the caller decides how a
// failed page affects the crawl.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*FetchResult, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", pageURL, err)
	}

	if !f.ignoreRobots && !f.allowedByRobots(ctx, u) {
		return nil, fmt.Errorf("%w: %s", ErrRobotsDisallowed, pageURL)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %q: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %q returned status %d", pageURL, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !isHTMLContentType(ct) {
		return nil, fmt.Errorf("%w: %s has content type %q", ErrNotHTML, pageURL, ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %q: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", pageURL, err)
	}

	// Resolve links against the final URL so redirected pages link
	// relative to where they actually live.
	base := resp.Request.URL

	return &FetchResult{
		URL:        pageURL,
		StatusCode: resp.StatusCode,
		Body:       string(body),
		Doc:        doc,
		Links:      extractLinks(doc, base),
	}, nil
}

// allowedByRobots checks robots.txt for the URL's host, caching the parsed
// group. Hosts whose robots.txt cannot be fetched or parsed allow
// everything.
func (f *Fetcher) allowedByRobots(ctx context.Context, u *url.URL) bool {
	host := u.Scheme + "://" + u.Host

	f.mu.Lock()
	group, cached := f.robots[host]
	f.mu.Unlock()

	if !cached {
		group = f.fetchRobotsGroup(ctx, host)
		f.mu.Lock()
		f.robots[host] = group
		f.mu.Unlock()
	}

	if group == nil {
		return true
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

func (f *Fetcher) fetchRobotsGroup(ctx context.Context, host string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("robots.txt fetch failed, allowing all", "host", host, "error", err)
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		f.logger.Debug("robots.txt parse failed, allowing all", "host", host, "error", err)
		return nil
	}
	return data.FindGroup(f.userAgent)
}

// isHTMLContentType reports whether a Content-Type header denotes HTML.
func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}

// extractLinks collects the absolute, normalized HTTP(S) anchor targets of
// a page.
func extractLinks(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}

		link := NormalizeURL(abs.String())
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})

	return links
}
