// Package report writes synthesized documents and session summaries.
//
// Writers implement the Writer interface so output destinations (files,
// stdout, buffers in tests) are interchangeable. Two document formats are
// supported: a JSON array for programmatic consumers and a plain-text
// rendering for humans. SaveDocuments picks the writer from the configured
// format and stamps each output file with a session tag so repeated runs
// never overwrite each other.
//
// The markdown summary writer is separate from document output: it renders
// a human-readable overview of a whole crawl session (pages visited,
// documents per category, sources).
package report
