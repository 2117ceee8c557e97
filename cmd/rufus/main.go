// Package main provides the entry point for the Rufus CLI.
//
// Rufus is an intelligent web crawler for RAG pipelines. Given a start URL
// and plain-English instructions, it plans a crawl strategy, visits relevant
// pages, scores them against the task, and synthesizes the accepted content
// into structured documents.
//
// Usage:
//
//	rufus crawl https://example.com --instructions "Find pricing and FAQ info"
//	rufus history
//
// See --help for all available options.
package main

// main is the entry point for Rufus.
func main() {
	Execute()
}
