// Package pipeline orchestrates crawl sessions as a sequence of steps.
//
// A session moves through planning, crawling, synthesis, and persistence;
// each step reads and fills in its part of the shared CrawlSession. Steps
// implement the Step interface so the sequence is configurable: the crawl
// command wires the full set, while tests exercise subsets with stubs.
//
// BatchProcessor runs the same pipeline over multiple start URLs
// concurrently, one session per URL.
package pipeline
