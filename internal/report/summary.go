package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/Risho92/rufus/internal/model"
)

// SummaryWriter renders a markdown overview of a crawl session: what was
// crawled, what was kept, and what came out.
type SummaryWriter struct {
	baseWriter
}

// NewSummaryWriter creates a SummaryWriter that outputs to the given writer.
func NewSummaryWriter(output io.Writer) *SummaryWriter {
	return &SummaryWriter{baseWriter: newBaseWriter(output)}
}

// WriteSession outputs the session summary in markdown.
func (w *SummaryWriter) WriteSession(session *model.CrawlSession) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Session Summary")
	md.PlainText("")
	md.BulletList(
		"Session: "+session.ID,
		"Start URL: "+session.StartURL,
		"Duration: "+session.Duration().Round(time.Millisecond).String(),
		fmt.Sprintf("Pages visited: %d", session.VisitedCount),
		fmt.Sprintf("Pages kept: %d", len(session.Results)),
		fmt.Sprintf("Documents: %d", len(session.Documents)),
	)
	md.PlainText("")

	if session.Instructions != "" {
		md.H2("Instructions")
		md.PlainText("")
		md.PlainText(session.Instructions)
		md.PlainText("")
	}

	if counts := session.CategoryCounts(); len(counts) > 0 {
		categories := make([]string, 0, len(counts))
		for category := range counts {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		rows := make([][]string, 0, len(categories))
		for _, category := range categories {
			rows = append(rows, []string{category, strconv.Itoa(counts[category])})
		}

		md.H2("Pages by Category")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Category", "Pages"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(session.Documents) > 0 {
		md.H2("Documents")
		md.PlainText("")
		for _, doc := range session.Documents {
			md.H3(doc.Title)
			md.PlainText("")
			md.BulletList(
				"Category: "+doc.Type,
				fmt.Sprintf("Sources: %d", len(doc.Metadata.SourceURLs)),
			)
			md.PlainText("")
		}
	}

	if session.OutputPath != "" {
		md.H2("Output")
		md.PlainText("")
		md.PlainTextf("Documents saved to `%s`.", session.OutputPath)
		md.PlainText("")
	}

	if session.ErrorMessage != "" {
		md.Warningf("Session ended with an error: %s", session.ErrorMessage)
	}

	return md.Build()
}
