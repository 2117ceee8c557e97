// Package synthesizer condenses accepted crawl results into structured
// documents.
//
// Results are grouped by detected content category, the most relevant
// pages of each group are combined into one excerpt block, and the
// text-generation service writes a document per category using
// category-specific guidance (FAQ pages become Q&A, pricing pages become
// tier breakdowns, and so on).
//
// A category whose synthesis call fails is skipped with a warning; the run
// only fails when no category could be synthesized at all.
package synthesizer
