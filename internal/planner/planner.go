package planner

import (
	"context"
	"log/slog"

	"github.com/Risho92/rufus/internal/genai"
	"github.com/Risho92/rufus/internal/model"
)

// Builder creates crawl strategies from user instructions.
type Builder struct {
	generator genai.TextGenerator
	logger    *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBuilderLogger sets a custom logger.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a Builder that plans strategies with generator.
func NewBuilder(generator genai.TextGenerator, opts ...BuilderOption) *Builder {
	b := &Builder{
		generator: generator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns a strategy for crawling startURL under the given
// instructions. Empty instructions yield the default strategy without
// consulting the service; a failed planning call yields the fallback
// strategy with the raw instructions as the task.
func (b *Builder) Build(ctx context.Context, startURL, instructions string) *model.CrawlStrategy {
	if instructions == "" {
		return model.NewCrawlStrategy()
	}

	strategy, err := b.generator.PlanStrategy(ctx, startURL, instructions)
	if err != nil {
		b.logger.Warn("strategy planning failed, using fallback",
			"startURL", startURL,
			"error", err,
		)
		return model.FallbackStrategy(instructions)
	}

	strategy.Normalize()
	b.logger.Info("created crawl strategy",
		"keywords", strategy.Keywords,
		"contentTypes", strategy.ContentTypes,
		"task", strategy.Task,
	)
	return strategy
}
