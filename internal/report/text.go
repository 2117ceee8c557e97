package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Risho92/rufus/internal/model"
)

// sectionRuleWidth is the width of the rule separating documents in text
// output.
const sectionRuleWidth = 80

// TextWriter outputs documents as plain text for human reading: a banner
// title, the document body, its sources, and a rule between documents.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the documents in text format.
func (w *TextWriter) Write(documents []model.Document) (int, error) {
	var b strings.Builder
	for _, doc := range documents {
		fmt.Fprintf(&b, "=== %s ===\n\n", doc.Title)
		b.WriteString(doc.Content)
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "Sources: %s\n\n", strings.Join(doc.Metadata.SourceURLs, ", "))
		b.WriteString(strings.Repeat("-", sectionRuleWidth))
		b.WriteString("\n\n")
	}

	return io.WriteString(w.output, b.String())
}
