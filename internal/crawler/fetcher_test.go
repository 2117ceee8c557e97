package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("fetches and parses HTML", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "TestAgent") {
				t.Errorf("unexpected User-Agent %q", ua)
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><head><title>Home</title></head><body>
				<a href="/about">About</a>
				<a href="/about#team">Team</a>
				<a href="mailto:hi@example.com">Mail</a>
			</body></html>`))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithUserAgent("TestAgent/1.0"), WithCrawlDelay(0))
		result, err := f.Fetch(context.Background(), srv.URL+"/")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}

		if result.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d", result.StatusCode)
		}
		// The fragment link normalizes to the same URL and the mailto
		// link is dropped, leaving one link.
		if len(result.Links) != 1 || result.Links[0] != srv.URL+"/about" {
			t.Errorf("Links = %v", result.Links)
		}
	})

	t.Run("sends custom headers", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			if got := r.Header.Get("Authorization"); got != "Bearer token" {
				t.Errorf("Authorization = %q", got)
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body>ok</body></html>`))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(),
			WithHeaders(map[string]string{"Authorization": "Bearer token"}),
			WithCrawlDelay(0),
		)
		if _, err := f.Fetch(context.Background(), srv.URL+"/"); err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
	})

	t.Run("rejects non-2xx status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithCrawlDelay(0))
		if _, err := f.Fetch(context.Background(), srv.URL+"/page"); err == nil {
			t.Error("expected error for status 500")
		}
	})

	t.Run("rejects non-HTML content", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithCrawlDelay(0))
		if _, err := f.Fetch(context.Background(), srv.URL+"/file.pdf"); !errors.Is(err, ErrNotHTML) {
			t.Errorf("expected ErrNotHTML, got %v", err)
		}
	})

	t.Run("caps response body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>" + strings.Repeat("x", 4096) + "</body></html>"))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithCrawlDelay(0), WithMaxBodySize(100))
		result, err := f.Fetch(context.Background(), srv.URL+"/big")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if len(result.Body) != 100 {
			t.Errorf("Body length = %d, want 100", len(result.Body))
		}
	})

	t.Run("respects robots disallow", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
				return
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>ok</body></html>"))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithCrawlDelay(0))

		if _, err := f.Fetch(context.Background(), srv.URL+"/private/page"); !errors.Is(err, ErrRobotsDisallowed) {
			t.Errorf("expected ErrRobotsDisallowed, got %v", err)
		}
		if _, err := f.Fetch(context.Background(), srv.URL+"/public"); err != nil {
			t.Errorf("public path should be allowed, got %v", err)
		}
	})

	t.Run("ignore robots overrides disallow", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
				return
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>ok</body></html>"))
		}))
		defer srv.Close()

		f := NewFetcher(srv.Client(), WithCrawlDelay(0), WithIgnoreRobots(true))
		if _, err := f.Fetch(context.Background(), srv.URL+"/anything"); err != nil {
			t.Errorf("Fetch() error: %v", err)
		}
	})
}
