package domain

import "fmt"

// Document represents one source volume of the corpus.
// It is immutable once ingested and owns an ordered sequence of pages.
type Document struct {
	// Volume is the corpus volume identifier (I, II, III).
	Volume Volume

	// Title is the human-readable publication title.
	Title string

	// Type classifies the volume content.
	Type DocumentType
}

// Page is one page of text extracted from a document.
// Pages exist only during the build pipeline: they are produced by the
// extractor, consumed by the chunker and never stored. Chunks reference
// pages by number only.
type Page struct {
	// Volume is the document this page belongs to.
	Volume Volume

	// Number is the 1-based page number.
	Number int

	// Text is the raw extracted text. May be empty for pages with no
	// extractable content; such pages produce no chunks.
	Text string

	// SectionHint is the first section label detected on this page,
	// empty when the page carries no heading. The chunker only scans
	// hinted pages for section boundaries.
	SectionHint string
}

// Chunk is the atomic retrieval unit: a bounded span of text with
// page and section provenance.
//
// Chunks from the same document are contiguous and non-overlapping
// except for the configured overlap window. A chunk's ID is stable
// across rebuilds given identical inputs.
type Chunk struct {
	// ID is the deterministic chunk identifier, derived from the
	// volume and the chunk's sequence index (e.g. "volI_c0042").
	ID string

	// Volume is the source volume.
	Volume Volume

	// SectionLabel is the best-effort structural identifier
	// (e.g. "CAT.GEN.MPA.210"), or empty when no section was detected.
	SectionLabel string

	// SectionTitle is the heading text following the section code, if any.
	SectionTitle string

	// PageStart and PageEnd are the true 1-based page span the chunk's
	// text was drawn from. Required for citation accuracy.
	PageStart int
	PageEnd   int

	// Text is the chunk content.
	Text string

	// Priority is the coarse classification tag derived from the
	// document type and chunk text.
	Priority PriorityLevel

	// Seq is the chunk's sequence index within its document.
	// Neighbouring chunks of the same volume have adjacent Seq values.
	Seq int

	// TokenCount is the approximate token count of Text.
	TokenCount int
}

// ChunkID derives the stable chunk identifier for a volume and
// sequence index. Identical inputs always yield identical IDs,
// which makes rebuilds reproducible.
func ChunkID(volume Volume, seq int) string {
	return fmt.Sprintf("vol%s_c%04d", volume, seq)
}
