package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/Risho92/rufus/internal/config"
	"github.com/Risho92/rufus/internal/model"
)

// ErrUnsupportedFormat is returned when the output format is neither json
// nor text. Validation catches this at startup; the check here guards
// direct callers.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// SaveDocuments writes the documents to a file named from baseName, a
// fresh session tag, and the format's extension, and returns the path.
// The tag keeps repeated runs from overwriting each other's output.
func SaveDocuments(documents []model.Document, format, baseName string) (string, error) {
	tag := uuid.NewString()

	var path string
	var writer func(f *os.File) Writer
	switch format {
	case config.FormatJSON:
		path = fmt.Sprintf("%s_%s.json", baseName, tag)
		writer = func(f *os.File) Writer { return NewJSONWriter(f, WithPrettyPrint()) }
	case config.FormatText:
		path = fmt.Sprintf("%s_%s.txt", baseName, tag)
		writer = func(f *os.File) Writer { return NewTextWriter(f) }
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := writer(f).Write(documents); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write documents: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}

	return path, nil
}
