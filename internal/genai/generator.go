package genai

import (
	"context"
	"errors"

	"github.com/Risho92/rufus/internal/model"
)

// TextGenerator is the contract for the external text-generation service.
// All four methods may be slow and may fail; callers own the fallback
// behavior for each call shape.
type TextGenerator interface {
	// PlanStrategy turns free-text instructions into a structured crawl
	// strategy for the given start URL.
	PlanStrategy(ctx context.Context, startURL, instructions string) (*model.CrawlStrategy, error)

	// SelectLinks picks the subset of candidate links judged relevant to
	// the strategy. The returned links are a subset of candidates.
	SelectLinks(ctx context.Context, strategy *model.CrawlStrategy, candidates []string) ([]string, error)

	// JudgeRelevance rates how relevant a content excerpt is to the task,
	// returning a score in [0,1].
	JudgeRelevance(ctx context.Context, task, excerpt string) (float64, error)

	// SynthesizeDocument produces a structured document body from the
	// combined content of a content category.
	SynthesizeDocument(ctx context.Context, category, combinedContent, instructions string) (string, error)
}

// Errors returned by ChatClient. Callers use errors.Is to distinguish
// malformed service output from transport failures.
var (
	// ErrEmptyResponse is returned when the service reply carries no
	// choices or an empty message.
	ErrEmptyResponse = errors.New("text generation returned an empty response")

	// ErrMalformedResponse is returned when the service reply cannot be
	// parsed into the expected shape.
	ErrMalformedResponse = errors.New("text generation returned a malformed response")

	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("no API key configured for text generation")
)
