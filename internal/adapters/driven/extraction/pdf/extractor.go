package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/avsafe-labs/regnav/internal/chunker"
	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor parses PDF documents into per-page text.
type Extractor struct{}

// NewExtractor creates a PDF extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the PDF at path and returns its pages in order. Pages
// that yield no text are kept empty so page numbers stay aligned with
// the source document; a document with no extractable text at all is an
// extraction failure.
func (e *Extractor) Extract(ctx context.Context, doc domain.Document, path string) ([]domain.Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", domain.ErrExtraction, path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("%w: %s has no pages", domain.ErrExtraction, path)
	}

	pages := make([]domain.Page, 0, total)
	extracted := 0
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := domain.Page{
			Volume: doc.Volume,
			Number: i,
		}

		p := reader.Page(i)
		if !p.V.IsNull() {
			text, err := pageText(p)
			if err != nil {
				// A single unreadable page is tolerable; the rest of
				// the document still carries content.
				text = ""
			}
			page.Text = text
			page.SectionHint = chunker.SectionHint(text)
			if strings.TrimSpace(text) != "" {
				extracted++
			}
		}

		pages = append(pages, page)
	}

	if extracted == 0 {
		return nil, fmt.Errorf("%w: %s yielded no extractable text", domain.ErrExtraction, path)
	}

	return pages, nil
}

// pageText reassembles a page's text row by row, preserving line
// structure so heading detection downstream keeps working.
func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, row := range rows {
		var line strings.Builder
		for _, word := range row.Content {
			line.WriteString(word.S)
		}
		trimmed := strings.TrimSpace(line.String())
		if trimmed == "" {
			continue
		}
		sb.WriteString(trimmed)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
