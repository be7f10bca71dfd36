package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtract_MissingFile(t *testing.T) {
	extractor := NewExtractor()

	doc := domain.Document{Volume: domain.VolumeI, Type: domain.TypeRegulation}
	_, err := extractor.Extract(context.Background(), doc, "testdata/does-not-exist.pdf")
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtract_CorruptFile(t *testing.T) {
	extractor := NewExtractor()

	// A text file with a .pdf name is not a parseable document.
	path := writeTempFile(t, "not a pdf at all")
	doc := domain.Document{Volume: domain.VolumeI, Type: domain.TypeRegulation}
	_, err := extractor.Extract(context.Background(), doc, path)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}
