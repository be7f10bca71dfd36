package driven

import (
	"context"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// Extractor turns a source document into ordered pages of text with
// section label hints.
//
// Implementations parse one concrete format (PDF today). Extraction
// failure is fatal for that document only: the build pipeline records
// the error and continues with the remaining documents.
type Extractor interface {
	// Extract parses the document at path and returns its pages in
	// order. Returns an error wrapping domain.ErrExtraction when the
	// content cannot be parsed or yields zero extractable pages.
	Extract(ctx context.Context, doc domain.Document, path string) ([]domain.Page, error)
}
