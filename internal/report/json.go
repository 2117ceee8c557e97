package report

import (
	"encoding/json"
	"io"

	"github.com/Risho92/rufus/internal/model"
)

// JSONWriter outputs documents as a JSON array, for loading into RAG
// ingestion pipelines and other tools.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indented output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the documents as a JSON array. An empty document list
// still produces a valid (empty) array.
func (w *JSONWriter) Write(documents []model.Document) (int, error) {
	if documents == nil {
		documents = []model.Document{}
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(documents, "", "  ")
	} else {
		data, err = json.Marshal(documents)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
