package report

import (
	"io"

	"github.com/Risho92/rufus/internal/model"
)

// Writer outputs synthesized documents.
// Implementations render the document list in one format.
type Writer interface {
	// Write outputs the documents to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(documents []model.Document) (int, error)
}

// baseWriter provides the shared output destination for writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
