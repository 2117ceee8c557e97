// Package log provides structured logging helpers for Rufus.
//
// Rufus talks to an external text-generation API with a bearer API key, and
// crawl profiles may carry per-site Authorization headers. RedactHandler
// wraps any slog.Handler and masks attributes whose key or value looks like
// a credential, so debug logging of requests never leaks a key.
package log
