package extractor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Risho92/rufus/internal/embedding"
	"github.com/Risho92/rufus/internal/genai"
	"github.com/Risho92/rufus/internal/model"
)

const (
	// llmWeight and keywordWeight blend the two relevance signals.
	llmWeight     = 0.7
	keywordWeight = 0.3

	// minContentForJudgment is the content length below which the
	// text-generation service is not consulted. Tiny pages are judged by
	// keywords alone.
	minContentForJudgment = 100

	// excerptLimit caps how much content is sent for judgment.
	excerptLimit = 1500
)

// Scorer rates page content against a crawl strategy.
type Scorer struct {
	generator genai.TextGenerator
	vectors   *embedding.Vectors
	logger    *slog.Logger
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithVectors supplies pre-trained word embeddings for semantic keyword
// scoring. Without vectors, keyword scoring falls back to substring
// matching.
func WithVectors(v *embedding.Vectors) ScorerOption {
	return func(s *Scorer) {
		s.vectors = v
	}
}

// WithScorerLogger sets a custom logger.
func WithScorerLogger(logger *slog.Logger) ScorerOption {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScorer creates a Scorer that consults generator for judgment calls.
func NewScorer(generator genai.TextGenerator, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		generator: generator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score rates content relevance in [0,1]. The keyword score always
// contributes; for substantial content with a defined task, the
// text-generation service's judgment is blended in at llmWeight. A failed
// service call falls back to the keyword score alone.
func (s *Scorer) Score(ctx context.Context, content string, strategy *model.CrawlStrategy) float64 {
	keywordScore := s.keywordScore(content, strategy.Keywords)

	if len(content) <= minContentForJudgment || strategy.Task == "" {
		return keywordScore
	}

	llmScore, err := s.generator.JudgeRelevance(ctx, strategy.Task, excerpt(content))
	if err != nil {
		s.logger.Warn("relevance judgment failed, using keyword score",
			"error", err,
			"keywordScore", keywordScore,
		)
		return keywordScore
	}

	return llmScore*llmWeight + keywordScore*keywordWeight
}

// keywordScore measures how well content matches the strategy keywords.
// With embeddings loaded it is the cosine similarity of averaged word
// vectors; otherwise it is the fraction of keywords found in the content.
func (s *Scorer) keywordScore(content string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	if s.vectors != nil {
		docTokens := embedding.Tokenize(content)
		keywordTokens := embedding.Tokenize(strings.Join(keywords, " "))
		return s.vectors.Similarity(docTokens, keywordTokens)
	}

	contentLower := strings.ToLower(content)
	matches := 0
	for _, keyword := range keywords {
		if strings.Contains(contentLower, strings.ToLower(keyword)) {
			matches++
		}
	}
	score := float64(matches) / float64(len(keywords))
	if score > 1 {
		score = 1
	}
	return score
}

// excerpt truncates content at excerptLimit runes without splitting a rune.
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLimit {
		return content
	}
	return string(runes[:excerptLimit])
}
