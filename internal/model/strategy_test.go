package model

import (
	"encoding/json"
	"testing"
)

func TestNewCrawlStrategy(t *testing.T) {
	t.Parallel()

	s := NewCrawlStrategy()
	if len(s.Keywords) != 0 {
		t.Errorf("expected no keywords, got %v", s.Keywords)
	}
	if len(s.ContentTypes) != 1 || s.ContentTypes[0] != DefaultContentType {
		t.Errorf("expected default content types, got %v", s.ContentTypes)
	}
	if s.Task != "" {
		t.Errorf("expected empty task, got %q", s.Task)
	}
}

func TestFallbackStrategy(t *testing.T) {
	t.Parallel()

	s := FallbackStrategy("find pricing info")
	if s.Task != "find pricing info" {
		t.Errorf("expected task to carry raw instructions, got %q", s.Task)
	}
	if len(s.Keywords) != 0 {
		t.Errorf("expected no keywords, got %v", s.Keywords)
	}
}

func TestCrawlStrategyNormalize(t *testing.T) {
	t.Parallel()

	t.Run("fills defaults on partial planner output", func(t *testing.T) {
		t.Parallel()

		var s CrawlStrategy
		if err := json.Unmarshal([]byte(`{"task":"collect FAQs"}`), &s); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		s.Normalize()

		if s.Keywords == nil {
			t.Error("expected keywords initialized")
		}
		if len(s.ContentTypes) != 1 || s.ContentTypes[0] != DefaultContentType {
			t.Errorf("expected default content types, got %v", s.ContentTypes)
		}
	})

	t.Run("keeps planner values", func(t *testing.T) {
		t.Parallel()

		s := CrawlStrategy{Keywords: []string{"price"}, ContentTypes: []string{"pricing"}, Task: "t"}
		s.Normalize()

		if len(s.Keywords) != 1 || s.Keywords[0] != "price" {
			t.Errorf("keywords changed: %v", s.Keywords)
		}
		if len(s.ContentTypes) != 1 || s.ContentTypes[0] != "pricing" {
			t.Errorf("content types changed: %v", s.ContentTypes)
		}
	})
}
