// Package extractor turns raw HTML pages into scored, categorized content.
//
// Extraction is tiered. Boilerplate elements (navigation, headers, footers,
// scripts) are stripped first; then the page's main content is taken from
// semantic containers when present, from the largest text-bearing div when
// not, and from the whole body as a last resort.
//
// Relevance scoring blends two signals: a semantic similarity score from
// averaged word embeddings, and a judgment call from the text-generation
// service for substantial content. When the service fails the embedding
// score stands alone, so a flaky endpoint degrades scoring quality without
// halting the crawl.
package extractor
