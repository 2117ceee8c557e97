package model

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestNewDocument(t *testing.T) {
	t.Parallel()

	before := time.Now().UTC()
	doc := NewDocument("faq", "Faq Information", "Q: ...", []string{"https://example.com/faq"}, "collect FAQs")
	after := time.Now().UTC()

	if doc.Type != "faq" {
		t.Errorf("expected type faq, got %q", doc.Type)
	}
	if doc.Metadata.CreationTime.Before(before) || doc.Metadata.CreationTime.After(after) {
		t.Errorf("creation time %v outside [%v, %v]", doc.Metadata.CreationTime, before, after)
	}
	if doc.Metadata.InstructionPrompt != "collect FAQs" {
		t.Errorf("unexpected instruction prompt %q", doc.Metadata.InstructionPrompt)
	}
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	t.Parallel()

	docs := []Document{
		NewDocument("pricing", "Pricing Information", "Plans start at...", []string{"https://a", "https://b"}, "find prices"),
		NewDocument("general", "General Information", "About the company.", []string{"https://c"}, ""),
	}

	data, err := json.Marshal(docs)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got []Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(docs, got) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", docs, got)
	}
}

func TestCrawlSessionCategoryCounts(t *testing.T) {
	t.Parallel()

	s := NewCrawlSession("https://example.com", "")
	s.Results = []PageResult{
		{URL: "https://example.com/faq", Content: "x", Metadata: PageMetadata{ContentType: "faq"}},
		{URL: "https://example.com/help", Content: "y", Metadata: PageMetadata{ContentType: "faq"}},
		{URL: "https://example.com", Content: "z"},
	}

	counts := s.CategoryCounts()
	if counts["faq"] != 2 {
		t.Errorf("expected 2 faq pages, got %d", counts["faq"])
	}
	if counts["general"] != 1 {
		t.Errorf("expected 1 general page, got %d", counts["general"])
	}
}
