// Package crawler coordinates instruction-guided web crawls.
//
// # Architecture
//
// The Controller owns the crawl loop: a FIFO frontier of (URL, depth)
// pairs, a visited set with atomic check-and-insert before any network
// I/O, and batch execution bounded by the concurrency setting. Batches run
// to a strict barrier; the frontier only grows between batches, which keeps
// page accounting deterministic under concurrency.
//
// Every queued URL yields exactly one PageResult. Fetch and extraction
// failures are converted into contentless results rather than aborting the
// crawl, so one bad page never costs the rest of the site.
//
// # Politeness
//
// The Fetcher enforces the polite-crawling rules: robots.txt checks
// (skippable for sites the operator controls), a shared request rate
// limit, a configurable User-Agent, and a response body size cap.
package crawler
