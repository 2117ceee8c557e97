package synthesizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Risho92/rufus/internal/genai"
	"github.com/Risho92/rufus/internal/model"
)

// ErrSynthesisFailed is returned when every category's synthesis call
// failed, meaning the crawl produced content but no documents.
var ErrSynthesisFailed = errors.New("document synthesis failed for all categories")

const (
	// defaultMaxPerCategory caps how many pages feed one document.
	defaultMaxPerCategory = 5

	// contentExcerptLimit caps how much of each page's content is sent to
	// the service.
	contentExcerptLimit = 1500
)

// titleCaser renders category names for document titles ("faq" → "Faq").
var titleCaser = cases.Title(language.English)

// Synthesizer builds documents from crawl results.
type Synthesizer struct {
	generator      genai.TextGenerator
	maxPerCategory int
	logger         *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithMaxPerCategory sets how many top pages contribute to each document.
func WithMaxPerCategory(n int) Option {
	return func(s *Synthesizer) {
		if n > 0 {
			s.maxPerCategory = n
		}
	}
}

// WithSynthesizerLogger sets a custom logger.
func WithSynthesizerLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Synthesizer that writes documents with generator.
func New(generator genai.TextGenerator, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		generator:      generator,
		maxPerCategory: defaultMaxPerCategory,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize turns accepted results into one document per content
// category. Results without content are ignored. Categories are processed
// in sorted order so output is deterministic. A failed category is skipped;
// ErrSynthesisFailed is returned only when every category failed.
func (s *Synthesizer) Synthesize(ctx context.Context, results []model.PageResult, instructions string) ([]model.Document, error) {
	groups := groupByCategory(results)
	if len(groups) == 0 {
		return nil, nil
	}

	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	documents := make([]model.Document, 0, len(categories))
	failures := 0
	for _, category := range categories {
		top := topResults(groups[category], s.maxPerCategory)

		body, err := s.generator.SynthesizeDocument(ctx, category, combineResults(top), instructions)
		if err != nil {
			failures++
			s.logger.Warn("category synthesis failed, skipping",
				"category", category,
				"pages", len(top),
				"error", err,
			)
			continue
		}

		sourceURLs := make([]string, 0, len(top))
		for _, r := range top {
			sourceURLs = append(sourceURLs, r.URL)
		}

		title := titleCaser.String(category) + " Information"
		documents = append(documents, model.NewDocument(category, title, body, sourceURLs, instructions))

		s.logger.Info("synthesized document",
			"category", category,
			"sources", len(sourceURLs),
		)
	}

	if len(documents) == 0 && failures > 0 {
		return nil, fmt.Errorf("%w: %d categories", ErrSynthesisFailed, failures)
	}
	return documents, nil
}

// groupByCategory buckets accepted results by content category, treating
// missing categories as "general".
func groupByCategory(results []model.PageResult) map[string][]model.PageResult {
	groups := make(map[string][]model.PageResult)
	for _, r := range results {
		if !r.Accepted() {
			continue
		}
		groups[r.Category()] = append(groups[r.Category()], r)
	}
	return groups
}

// topResults returns the n most relevant results, highest score first.
// Ties keep their original crawl order.
func topResults(results []model.PageResult, n int) []model.PageResult {
	sorted := make([]model.PageResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RelevanceScore > sorted[j].RelevanceScore
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// combineResults renders the pages as one block per page: title, URL, and
// a capped content excerpt.
func combineResults(results []model.PageResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("Page: %s\nURL: %s\nContent: %s...", r.Title, r.URL, excerpt(r.Content)))
	}
	return strings.Join(blocks, "\n\n")
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= contentExcerptLimit {
		return content
	}
	return string(runes[:contentExcerptLimit])
}
