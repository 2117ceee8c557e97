package model

import "time"

// Document is a synthesized, topic-structured document produced from the
// accepted pages of one content category. It is the terminal artifact of the
// pipeline and immutable once created.
type Document struct {
	// Type is the content category this document covers
	// (faq, pricing, product, about, general).
	Type string `json:"type"`

	// Title is the document title, e.g. "Faq Information".
	Title string `json:"title"`

	// Content is the synthesized text body.
	Content string `json:"content"`

	// Metadata records provenance for the document.
	Metadata DocumentMetadata `json:"metadata"`
}

// DocumentMetadata records where a document came from.
type DocumentMetadata struct {
	// SourceURLs are the contributing pages in their selected order
	// (highest relevance first).
	SourceURLs []string `json:"source_urls"`

	// CreationTime is when the document was synthesized.
	CreationTime time.Time `json:"creation_time"`

	// InstructionPrompt is the original user instruction string, if any.
	InstructionPrompt string `json:"instruction_prompt,omitempty"`
}

// NewDocument creates a Document with standard metadata.
func NewDocument(category, title, content string, sourceURLs []string, instructions string) Document {
	return Document{
		Type:    category,
		Title:   title,
		Content: content,
		Metadata: DocumentMetadata{
			SourceURLs:        sourceURLs,
			CreationTime:      time.Now().UTC(),
			InstructionPrompt: instructions,
		},
	}
}
