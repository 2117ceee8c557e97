// Package model defines the core data structures used throughout Rufus.
//
// This package contains the following main types:
//   - CrawlStrategy: The structured representation of user intent
//   - PageResult: A single visited page with its extracted content and score
//   - Document: A synthesized, topic-structured output document
//   - CrawlSession: The aggregate state of one crawl invocation
//
// Models live in their own package to avoid circular dependencies. Multiple
// packages (planner, crawler, synthesizer, report, database) need these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for document output and
// database storage.
package model
