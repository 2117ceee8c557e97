package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Content categories assigned to crawled pages.
const (
	TypeFAQ     = "faq"
	TypePricing = "pricing"
	TypeProduct = "product"
	TypeAbout   = "about"
	TypeGeneral = "general"
)

// urlTypeHints maps URL substrings to content categories, checked in order.
// URL hints take priority over page text because site structure is a more
// reliable signal than prose.
var urlTypeHints = []struct {
	terms    []string
	category string
}{
	{terms: []string{"faq", "help", "support"}, category: TypeFAQ},
	{terms: []string{"price", "plan", "subscription"}, category: TypePricing},
	{terms: []string{"product", "feature", "service"}, category: TypeProduct},
	{terms: []string{"contact", "about"}, category: TypeAbout},
}

// DetectContentType classifies a page into one of the content categories
// from its URL and, failing that, from hints in its text.
func DetectContentType(doc *goquery.Document, pageURL string) string {
	urlLower := strings.ToLower(pageURL)
	for _, hint := range urlTypeHints {
		for _, term := range hint.terms {
			if strings.Contains(urlLower, term) {
				return hint.category
			}
		}
	}

	text := strings.ToLower(doc.Text())
	if strings.Contains(text, "frequently asked") || strings.Contains(text, "faq") {
		return TypeFAQ
	}
	if strings.Contains(text, "$") && (strings.Contains(text, "month") || strings.Contains(text, "year")) {
		return TypePricing
	}

	return TypeGeneral
}
