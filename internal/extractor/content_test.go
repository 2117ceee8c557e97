package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseHTML(t *testing.T, raw string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

func TestMainContent(t *testing.T) {
	t.Parallel()

	t.Run("prefers semantic containers", func(t *testing.T) {
		t.Parallel()

		doc := parseHTML(t, `<html><body>
			<nav>Home About Contact</nav>
			<main>The real content lives here.</main>
			<footer>Copyright</footer>
		</body></html>`)

		got := MainContent(doc)
		if got != "The real content lives here." {
			t.Errorf("MainContent() = %q", got)
		}
	})

	t.Run("strips boilerplate before extraction", func(t *testing.T) {
		t.Parallel()

		doc := parseHTML(t, `<html><body>
			<div role="navigation">Menu items</div>
			<article>Article text.</article>
			<script>var x = 1;</script>
		</body></html>`)

		got := MainContent(doc)
		if strings.Contains(got, "Menu") || strings.Contains(got, "var x") {
			t.Errorf("boilerplate leaked into content: %q", got)
		}
		if !strings.Contains(got, "Article text.") {
			t.Errorf("missing article text: %q", got)
		}
	})

	t.Run("joins multiple containers", func(t *testing.T) {
		t.Parallel()

		doc := parseHTML(t, `<html><body>
			<article>First part.</article>
			<article>Second part.</article>
		</body></html>`)

		got := MainContent(doc)
		if got != "First part. Second part." {
			t.Errorf("MainContent() = %q", got)
		}
	})

	t.Run("falls back to largest div", func(t *testing.T) {
		t.Parallel()

		doc := parseHTML(t, `<html><body>
			<div>short</div>
			<div>this div has considerably more text than the other one</div>
		</body></html>`)

		got := MainContent(doc)
		if !strings.Contains(got, "considerably more text") {
			t.Errorf("MainContent() = %q", got)
		}
	})

	t.Run("falls back to all text", func(t *testing.T) {
		t.Parallel()

		doc := parseHTML(t, `<html><body><p>Plain paragraph only.</p></body></html>`)

		got := MainContent(doc)
		if got != "Plain paragraph only." {
			t.Errorf("MainContent() = %q", got)
		}
	})

	t.Run("separates adjacent elements with spaces", func(t *testing.T) {
		t.Parallel()

		doc := parseHTML(t, `<html><body><main><p>first</p><p>second</p></main></body></html>`)

		got := MainContent(doc)
		if got != "first second" {
			t.Errorf("MainContent() = %q, want %q", got, "first second")
		}
	})
}

func TestTitle(t *testing.T) {
	t.Parallel()

	t.Run("uses title element", func(t *testing.T) {
		t.Parallel()

		doc := parseHTML(t, `<html><head><title>  Pricing Page  </title></head><body></body></html>`)
		if got := Title(doc, "https://example.com/pricing"); got != "Pricing Page" {
			t.Errorf("Title() = %q", got)
		}
	})

	t.Run("falls back to URL", func(t *testing.T) {
		t.Parallel()

		doc := parseHTML(t, `<html><body>no title</body></html>`)
		if got := Title(doc, "https://example.com/x"); got != "https://example.com/x" {
			t.Errorf("Title() = %q", got)
		}
	})
}
