package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// boilerplateSelector matches elements that never carry main content.
const boilerplateSelector = "nav, footer, header, script, style, [role=banner], [role=navigation]"

// mainSelector matches the containers that conventionally hold main content.
const mainSelector = "main, article, .content, #content, [role=main]"

// MainContent extracts the main text of a page, filtering boilerplate.
// The document is modified in place: boilerplate elements are removed.
func MainContent(doc *goquery.Document) string {
	doc.Find(boilerplateSelector).Remove()

	// Semantic containers first.
	if main := doc.Find(mainSelector); main.Length() > 0 {
		parts := make([]string, 0, main.Length())
		main.Each(func(_ int, sel *goquery.Selection) {
			if text := collapsedText(sel); text != "" {
				parts = append(parts, text)
			}
		})
		return strings.Join(parts, " ")
	}

	// No semantic markup: take the div with the most text.
	var largest *goquery.Selection
	largestLen := 0
	doc.Find("div").Each(func(_ int, sel *goquery.Selection) {
		if l := len(sel.Text()); l > largestLen {
			largest = sel
			largestLen = l
		}
	})
	if largest != nil {
		return collapsedText(largest)
	}

	// Bare page, take everything.
	return collapsedText(doc.Selection)
}

// Title returns the page title, falling back to the URL when the page has
// no title element or an empty one.
func Title(doc *goquery.Document, pageURL string) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return pageURL
	}
	return title
}

// collapsedText joins the text nodes under a selection with single spaces.
// Unlike Selection.Text it keeps words from adjacent elements separated.
func collapsedText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		appendTextNodes(&b, node)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func appendTextNodes(b *strings.Builder, node *html.Node) {
	if node.Type == html.TextNode {
		b.WriteString(node.Data)
		b.WriteByte(' ')
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		appendTextNodes(b, child)
	}
}
