package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Risho92/rufus/internal/model"
)

// BatchProcessor runs crawl sessions for multiple start URLs concurrently.
// Each URL gets its own session and a fresh pipeline from the factory, so
// no crawl state leaks between sites.
type BatchProcessor struct {
	pipelineFactory func() *Pipeline
	concurrency     int
	logger          *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithBatchConcurrency sets how many sessions run at once.
func WithBatchConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. The factory is called once
// per start URL.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     3,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(bp)
	}

	return bp
}

// ProcessBatch crawls every start URL with the same instructions and
// returns one session per URL, in input order. A failed session carries
// its error message; other sessions are unaffected.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, startURLs []string, instructions string) ([]*model.CrawlSession, error) {
	bp.logger.Info("starting batch crawl",
		"sites", len(startURLs),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	sessions := make([]*model.CrawlSession, len(startURLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)
	for i, startURL := range startURLs {
		g.Go(func() error {
			session := model.NewCrawlSession(startURL, instructions)
			// A failed session records its error and keeps the other
			// sites running.
			_ = bp.pipelineFactory().Execute(gctx, session) //nolint:errcheck // error is recorded on the session
			session.FinishedAt = time.Now().UTC()
			sessions[i] = session
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch crawl complete",
		"sites", len(startURLs),
		"elapsed", time.Since(startTime),
	)
	return sessions, err
}
