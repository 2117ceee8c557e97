package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/Risho92/rufus/internal/model"
)

type stubGenerator struct {
	strategy *model.CrawlStrategy
	err      error
	calls    int
}

func (s *stubGenerator) PlanStrategy(context.Context, string, string) (*model.CrawlStrategy, error) {
	s.calls++
	return s.strategy, s.err
}

func (s *stubGenerator) SelectLinks(context.Context, *model.CrawlStrategy, []string) ([]string, error) {
	return nil, nil
}

func (s *stubGenerator) JudgeRelevance(context.Context, string, string) (float64, error) {
	return 0, nil
}

func (s *stubGenerator) SynthesizeDocument(context.Context, string, string, string) (string, error) {
	return "", nil
}

func TestBuilderBuild(t *testing.T) {
	t.Parallel()

	t.Run("empty instructions skip planning", func(t *testing.T) {
		t.Parallel()

		gen := &stubGenerator{err: errors.New("should not be called")}
		b := NewBuilder(gen)

		strategy := b.Build(context.Background(), "https://example.com", "")
		if gen.calls != 0 {
			t.Errorf("PlanStrategy called %d times, want 0", gen.calls)
		}
		if len(strategy.ContentTypes) != 1 || strategy.ContentTypes[0] != model.DefaultContentType {
			t.Errorf("unexpected default strategy %+v", strategy)
		}
		if strategy.Task != "" {
			t.Errorf("default strategy task = %q, want empty", strategy.Task)
		}
	})

	t.Run("uses planned strategy", func(t *testing.T) {
		t.Parallel()

		planned := &model.CrawlStrategy{
			Keywords:     []string{"pricing"},
			ContentTypes: []string{"pricing"},
			Task:         "find pricing",
		}
		b := NewBuilder(&stubGenerator{strategy: planned})

		strategy := b.Build(context.Background(), "https://example.com", "find pricing info")
		if strategy.Task != "find pricing" {
			t.Errorf("task = %q", strategy.Task)
		}
	})

	t.Run("planning failure falls back to raw instructions", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder(&stubGenerator{err: errors.New("service down")})

		strategy := b.Build(context.Background(), "https://example.com", "find pricing info")
		if strategy.Task != "find pricing info" {
			t.Errorf("fallback task = %q, want raw instructions", strategy.Task)
		}
		if len(strategy.Keywords) != 0 {
			t.Errorf("fallback keywords = %v, want empty", strategy.Keywords)
		}
	})

	t.Run("normalizes partial strategies", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder(&stubGenerator{strategy: &model.CrawlStrategy{Task: "t"}})

		strategy := b.Build(context.Background(), "https://example.com", "x")
		if strategy.Keywords == nil {
			t.Error("keywords should be non-nil after normalization")
		}
		if len(strategy.ContentTypes) != 1 || strategy.ContentTypes[0] != model.DefaultContentType {
			t.Errorf("content types = %v", strategy.ContentTypes)
		}
	})
}
