package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Risho92/rufus/internal/extractor"
	"github.com/Risho92/rufus/internal/genai"
	"github.com/Risho92/rufus/internal/model"
)

// Controller runs instruction-guided crawls. It owns the frontier, the
// visited set, and the per-URL processing pipeline; fetching, scoring, and
// link selection are delegated to its collaborators.
type Controller struct {
	fetcher   *Fetcher
	generator genai.TextGenerator
	scorer    *extractor.Scorer

	maxPages       int
	concurrency    int
	maxDepth       int
	minRelevance   float64
	sameDomainOnly bool
	logger         *slog.Logger

	// visited holds normalized URLs. Entries are inserted atomically
	// before any network I/O, which is what makes duplicate URLs in the
	// same batch safe.
	mu      sync.Mutex
	visited map[string]bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithMaxPages caps the total number of URLs visited. The cap is hard:
// in-flight batches are sized so the cap is never exceeded.
func WithMaxPages(n int) ControllerOption {
	return func(c *Controller) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithConcurrency sets how many URLs are processed at once.
func WithConcurrency(n int) ControllerOption {
	return func(c *Controller) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithMaxDepth sets the deepest link distance to expand. Pages at the
// maximum depth are still fetched; their links are not followed.
func WithMaxDepth(depth int) ControllerOption {
	return func(c *Controller) {
		if depth >= 0 {
			c.maxDepth = depth
		}
	}
}

// WithMinRelevance sets the score a page must exceed to keep its content.
func WithMinRelevance(threshold float64) ControllerOption {
	return func(c *Controller) {
		c.minRelevance = threshold
	}
}

// WithSameDomainOnly restricts the crawl to the start URL's registered
// domain, so subdomains stay in scope but external sites do not.
func WithSameDomainOnly(same bool) ControllerOption {
	return func(c *Controller) {
		c.sameDomainOnly = same
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a crawl Controller.
func NewController(fetcher *Fetcher, generator genai.TextGenerator, scorer *extractor.Scorer, opts ...ControllerOption) *Controller {
	c := &Controller{
		fetcher:      fetcher,
		generator:    generator,
		scorer:       scorer,
		maxPages:     30,
		concurrency:  5,
		maxDepth:     3,
		minRelevance: 0.3,
		logger:       slog.Default(),
		visited:      make(map[string]bool),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// frontierItem pairs a normalized URL with its link distance from the
// start URL.
type frontierItem struct {
	url   string
	depth int
}

// pageOutcome is what one per-URL pipeline run produces: the page result
// plus the links discovered during the same fetch.
type pageOutcome struct {
	result  model.PageResult
	links   []string
	skipped bool
}

// Crawl visits pages breadth-first from startURL, guided by the strategy.
// Every visited URL yields one PageResult; failed pages yield contentless
// results and the crawl continues. The returned slice includes pages below
// the relevance threshold (with empty content) so callers see the full
// visit history.
func (c *Controller) Crawl(ctx context.Context, startURL string, strategy *model.CrawlStrategy) ([]model.PageResult, error) {
	start, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL %q: %w", startURL, err)
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		start.Scheme = "https"
	}

	c.mu.Lock()
	c.visited = make(map[string]bool)
	c.mu.Unlock()

	normalizedStart := NormalizeURL(start.String())
	frontier := []frontierItem{{url: normalizedStart, depth: 0}}
	var results []model.PageResult

	c.logger.Info("starting crawl",
		"startURL", normalizedStart,
		"maxPages", c.maxPages,
		"maxDepth", c.maxDepth,
	)

	for len(frontier) > 0 && c.VisitedCount() < c.maxPages {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		batchSize := min(c.concurrency, len(frontier), c.maxPages-c.VisitedCount())
		batch := frontier[:batchSize]
		frontier = frontier[batchSize:]

		outcomes := make([]pageOutcome, batchSize)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.concurrency)
		for i, item := range batch {
			g.Go(func() error {
				outcomes[i] = c.processURL(gctx, item, strategy)
				return nil
			})
		}
		// Workers never return errors; a failed page becomes a
		// contentless result. Wait is the batch barrier.
		_ = g.Wait()

		for i, outcome := range outcomes {
			if outcome.skipped {
				continue
			}
			results = append(results, outcome.result)

			if batch[i].depth >= c.maxDepth {
				continue
			}
			frontier = append(frontier, c.expand(ctx, normalizedStart, batch[i], strategy, outcome.links)...)
		}
	}

	c.logger.Info("crawl complete",
		"visited", c.VisitedCount(),
		"results", len(results),
	)
	return results, nil
}

// processURL runs the per-URL pipeline: fetch, extract, score, classify.
// Every failure mode maps to a contentless PageResult so the crawl
// accounting stays intact.
func (c *Controller) processURL(ctx context.Context, item frontierItem, strategy *model.CrawlStrategy) pageOutcome {
	if !c.checkAndMarkVisited(item.url) {
		return pageOutcome{skipped: true}
	}

	c.logger.Debug("processing URL", "url", item.url, "depth", item.depth)

	fetched, err := c.fetcher.Fetch(ctx, item.url)
	if err != nil {
		c.logger.Warn("failed to process URL", "url", item.url, "error", err)
		return pageOutcome{result: model.NewFailedPageResult(item.url, item.depth)}
	}

	// MainContent strips boilerplate in place, so classification and the
	// title run against the cleaned document.
	content := extractor.MainContent(fetched.Doc)
	score := c.scorer.Score(ctx, content, strategy)

	result := model.PageResult{
		URL:            item.url,
		Title:          extractor.Title(fetched.Doc, item.url),
		RelevanceScore: score,
		Metadata: model.PageMetadata{
			Depth:       item.depth,
			ContentType: extractor.DetectContentType(fetched.Doc, item.url),
			RawHTML:     fetched.Body,
		},
	}
	if score > c.minRelevance {
		result.Content = content
	}
	result.TruncateRawHTML()

	return pageOutcome{result: result, links: fetched.Links}
}

// expand turns a page's discovered links into new frontier items. Link
// selection failures make the page a dead end rather than failing the
// crawl.
func (c *Controller) expand(ctx context.Context, startURL string, item frontierItem, strategy *model.CrawlStrategy, links []string) []frontierItem {
	candidates := make([]string, 0, len(links))
	for _, link := range links {
		if c.isVisited(link) {
			continue
		}
		if c.sameDomainOnly && !SameRegisteredDomain(startURL, link) {
			continue
		}
		candidates = append(candidates, link)
	}
	if len(candidates) == 0 {
		return nil
	}

	selected, err := extractor.FilterLinks(ctx, c.generator, strategy, candidates)
	if err != nil {
		c.logger.Warn("link selection failed, treating page as dead end",
			"url", item.url,
			"candidates", len(candidates),
			"error", err,
		)
		return nil
	}

	items := make([]frontierItem, 0, len(selected))
	for _, link := range selected {
		if c.isVisited(link) {
			continue
		}
		items = append(items, frontierItem{url: link, depth: item.depth + 1})
	}
	return items
}

// VisitedCount returns the number of unique URLs visited so far.
func (c *Controller) VisitedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.visited)
}

// checkAndMarkVisited atomically records a URL as visited. It returns
// false when the URL was already visited.
func (c *Controller) checkAndMarkVisited(pageURL string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visited[pageURL] {
		return false
	}
	c.visited[pageURL] = true
	return true
}

func (c *Controller) isVisited(pageURL string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visited[pageURL]
}
