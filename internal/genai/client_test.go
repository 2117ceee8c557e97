package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Risho92/rufus/internal/model"
)

// newTestServer returns a chat-completions endpoint that always answers with
// the given message content.
func newTestServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); !strings.HasPrefix(auth, "Bearer ") {
			t.Errorf("missing bearer token, got %q", auth)
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
}

func TestChatClientPlanStrategy(t *testing.T) {
	t.Parallel()

	t.Run("parses structured strategy", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, `{"keywords":["pricing","plans"],"content_types":["pricing"],"task":"find pricing"}`)
		defer srv.Close()

		c := NewChatClient("test-key", WithBaseURL(srv.URL))
		strategy, err := c.PlanStrategy(context.Background(), "https://example.com", "find pricing info")
		if err != nil {
			t.Fatalf("PlanStrategy() error: %v", err)
		}

		if len(strategy.Keywords) != 2 || strategy.Keywords[0] != "pricing" {
			t.Errorf("unexpected keywords %v", strategy.Keywords)
		}
		if strategy.Task != "find pricing" {
			t.Errorf("unexpected task %q", strategy.Task)
		}
	})

	t.Run("malformed JSON surfaces as error", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, `not json`)
		defer srv.Close()

		c := NewChatClient("test-key", WithBaseURL(srv.URL))
		if _, err := c.PlanStrategy(context.Background(), "https://example.com", "x"); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("partial strategy gets defaults", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, `{"task":"just a task"}`)
		defer srv.Close()

		c := NewChatClient("test-key", WithBaseURL(srv.URL))
		strategy, err := c.PlanStrategy(context.Background(), "https://example.com", "x")
		if err != nil {
			t.Fatalf("PlanStrategy() error: %v", err)
		}
		if len(strategy.ContentTypes) != 1 || strategy.ContentTypes[0] != model.DefaultContentType {
			t.Errorf("expected default content types, got %v", strategy.ContentTypes)
		}
	})
}

func TestChatClientSelectLinks(t *testing.T) {
	t.Parallel()

	t.Run("returns only offered candidates", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, `{"relevant_links":["https://example.com/faq","https://evil.example/hallucinated"]}`)
		defer srv.Close()

		c := NewChatClient("test-key", WithBaseURL(srv.URL))
		strategy := model.NewCrawlStrategy()
		candidates := []string{"https://example.com/faq", "https://example.com/blog"}

		selected, err := c.SelectLinks(context.Background(), strategy, candidates)
		if err != nil {
			t.Fatalf("SelectLinks() error: %v", err)
		}
		if len(selected) != 1 || selected[0] != "https://example.com/faq" {
			t.Errorf("expected only the offered candidate, got %v", selected)
		}
	})

	t.Run("no candidates means no call", func(t *testing.T) {
		t.Parallel()

		// No server: a request would fail loudly.
		c := NewChatClient("test-key", WithBaseURL("http://127.0.0.1:0"))
		selected, err := c.SelectLinks(context.Background(), model.NewCrawlStrategy(), nil)
		if err != nil {
			t.Fatalf("SelectLinks() error: %v", err)
		}
		if len(selected) != 0 {
			t.Errorf("expected no links, got %v", selected)
		}
	})
}

func TestChatClientJudgeRelevance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    float64
		wantErr bool
	}{
		{name: "plain score", content: "0.8", want: 0.8},
		{name: "whitespace trimmed", content: "  0.25\n", want: 0.25},
		{name: "clamped above one", content: "1.7", want: 1},
		{name: "clamped below zero", content: "-0.2", want: 0},
		{name: "non-numeric", content: "very relevant", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, tt.content)
			defer srv.Close()

			c := NewChatClient("test-key", WithBaseURL(srv.URL))
			got, err := c.JudgeRelevance(context.Background(), "task", "excerpt")

			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Errorf("expected ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("JudgeRelevance() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("JudgeRelevance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestChatClientErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing API key", func(t *testing.T) {
		t.Parallel()

		c := NewChatClient("")
		if _, err := c.JudgeRelevance(context.Background(), "t", "e"); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey, got %v", err)
		}
	})

	t.Run("server error status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := NewChatClient("test-key", WithBaseURL(srv.URL))
		if _, err := c.SynthesizeDocument(context.Background(), "faq", "content", ""); err == nil {
			t.Error("expected error for non-2xx status")
		}
	})

	t.Run("empty choices", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		c := NewChatClient("test-key", WithBaseURL(srv.URL))
		if _, err := c.SynthesizeDocument(context.Background(), "faq", "content", ""); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("expected ErrEmptyResponse, got %v", err)
		}
	})
}
