package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

var testDoc = domain.Document{
	Volume: domain.VolumeI,
	Title:  domain.Volumes[domain.VolumeI].Title,
	Type:   domain.TypeRegulation,
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, c.chunkSize)
		}
		if c.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, c.overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		c := New(WithChunkSize(200), WithOverlap(25))
		if c.chunkSize != 200 {
			t.Errorf("expected chunkSize 200, got %d", c.chunkSize)
		}
		if c.overlap != 25 {
			t.Errorf("expected overlap 25, got %d", c.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(150))
		if c.overlap >= c.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", c.chunkSize)
		}
		if c.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", c.overlap)
		}
	})
}

func TestChunkDocument_EmptyPages(t *testing.T) {
	c := New()

	chunks := c.ChunkDocument(testDoc, nil)
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for no pages, got %d", len(chunks))
	}

	// A page with zero extractable text produces no chunk.
	chunks = c.ChunkDocument(testDoc, []domain.Page{
		{Volume: domain.VolumeI, Number: 1, Text: "   \n  "},
	})
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for blank page, got %d", len(chunks))
	}
}

func TestChunkDocument_Deterministic(t *testing.T) {
	c := New(WithChunkSize(40), WithOverlap(8))
	pages := regulationPages()

	first := c.ChunkDocument(testDoc, pages)
	second := c.ChunkDocument(testDoc, pages)

	if len(first) == 0 {
		t.Fatal("expected chunks")
	}
	if len(first) != len(second) {
		t.Fatalf("chunk count differs between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("chunk %d: ID differs: %s vs %s", i, first[i].ID, second[i].ID)
		}
		if first[i].Text != second[i].Text {
			t.Errorf("chunk %d: boundaries differ", i)
		}
	}
}

func TestChunkDocument_SequentialIDs(t *testing.T) {
	c := New(WithChunkSize(30), WithOverlap(5))

	chunks := c.ChunkDocument(testDoc, regulationPages())
	for i, ch := range chunks {
		if ch.Seq != i {
			t.Errorf("chunk %d: expected seq %d, got %d", i, i, ch.Seq)
		}
		want := domain.ChunkID(domain.VolumeI, i)
		if ch.ID != want {
			t.Errorf("chunk %d: expected ID %s, got %s", i, want, ch.ID)
		}
	}
}

func TestChunkDocument_SectionBoundaries(t *testing.T) {
	c := New(WithChunkSize(500), WithOverlap(50))
	pages := []domain.Page{
		extractedPage(118, "CAT.GEN.MPA.200 Transport of dangerous goods\nDangerous goods shall only be carried under approval.\n\nAdditional provisions apply to packaging."),
		extractedPage(125, "CAT.GEN.MPA.210 Loss of aircraft tracking\nThe operator shall track the position of its aircraft.\n\nTracking data shall be retained."),
	}

	chunks := c.ChunkDocument(testDoc, pages)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks (one per section), got %d", len(chunks))
	}

	if chunks[0].SectionLabel != "CAT.GEN.MPA.200" {
		t.Errorf("expected first section CAT.GEN.MPA.200, got %q", chunks[0].SectionLabel)
	}
	if chunks[1].SectionLabel != "CAT.GEN.MPA.210" {
		t.Errorf("expected second section CAT.GEN.MPA.210, got %q", chunks[1].SectionLabel)
	}
	if chunks[0].PageStart != 118 || chunks[0].PageEnd != 118 {
		t.Errorf("expected first chunk on page 118, got %d-%d", chunks[0].PageStart, chunks[0].PageEnd)
	}
	if chunks[1].PageStart != 125 || chunks[1].PageEnd != 125 {
		t.Errorf("expected second chunk on page 125, got %d-%d", chunks[1].PageStart, chunks[1].PageEnd)
	}

	// Chunks never mix text from two sections.
	if strings.Contains(chunks[0].Text, "tracking") {
		t.Error("first chunk leaked text from the second section")
	}
}

func TestChunkDocument_OversizedSectionInheritsLabel(t *testing.T) {
	c := New(WithChunkSize(30), WithOverlap(5))

	var b strings.Builder
	b.WriteString("CAT.GEN.MPA.100 Crew responsibilities\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "Paragraph %d states that the crew member shall follow established operating procedures.\n\n", i)
	}
	pages := []domain.Page{extractedPage(10, b.String())}

	chunks := c.ChunkDocument(testDoc, pages)
	if len(chunks) < 2 {
		t.Fatalf("expected the oversized section to split, got %d chunk(s)", len(chunks))
	}
	for i, ch := range chunks {
		if ch.SectionLabel != "CAT.GEN.MPA.100" {
			t.Errorf("chunk %d: expected inherited label, got %q", i, ch.SectionLabel)
		}
		if ch.TokenCount == 0 {
			t.Errorf("chunk %d: zero token count", i)
		}
	}
}

func TestChunkDocument_Overlap(t *testing.T) {
	c := New(WithChunkSize(20), WithOverlap(10))

	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "Sentence number %d has exactly seven tokens here.\n\n", i)
	}
	pages := []domain.Page{{Volume: domain.VolumeI, Number: 1, Text: b.String()}}

	chunks := c.ChunkDocument(testDoc, pages)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Each chunk after the first starts with trailing text of its
	// predecessor.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		firstLine := strings.SplitN(chunks[i].Text, "\n\n", 2)[0]
		if !strings.Contains(prev, firstLine) {
			t.Errorf("chunk %d does not overlap its predecessor", i)
		}
	}
}

func TestChunkDocument_PageSpan(t *testing.T) {
	c := New(WithChunkSize(1000), WithOverlap(0))
	pages := []domain.Page{
		{Volume: domain.VolumeI, Number: 3, Text: "Provisions continue here with general requirements.\n\n"},
		{Volume: domain.VolumeI, Number: 4, Text: "And conclude on the following page of the volume."},
	}

	chunks := c.ChunkDocument(testDoc, pages)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].PageStart != 3 || chunks[0].PageEnd != 4 {
		t.Errorf("expected page span 3-4, got %d-%d", chunks[0].PageStart, chunks[0].PageEnd)
	}
}

func TestDetectPriority(t *testing.T) {
	tests := []struct {
		name    string
		docType domain.DocumentType
		text    string
		want    domain.PriorityLevel
	}{
		{"regulation never classified", domain.TypeRegulation, "This is a strategic priority.", domain.PriorityNone},
		{"strategic keyword", domain.TypeAction, "This action addresses a key safety issue.", domain.PriorityStrategic},
		{"operational keyword", domain.TypeAction, "Implementation is planned for next year.", domain.PriorityOperational},
		{"strategic wins over operational", domain.TypeRisk, "Strategic objective: mitigation of risk.", domain.PriorityStrategic},
		{"no keywords", domain.TypeRisk, "Background material only.", domain.PriorityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectPriority(tt.docType, tt.text); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// extractedPage builds a page the way the extraction adapters do,
// section hint included.
func extractedPage(number int, text string) domain.Page {
	return domain.Page{
		Volume:      domain.VolumeI,
		Number:      number,
		Text:        text,
		SectionHint: SectionHint(text),
	}
}

// regulationPages builds a multi-section, multi-page fixture.
func regulationPages() []domain.Page {
	return []domain.Page{
		extractedPage(1, "SUBPART A - GENERAL\nGeneral requirements apply to all operators conducting commercial air transport operations within the scope of the regulation.\n\nOperators shall establish procedures and maintain records as required."),
		extractedPage(2, "CAT.GEN.MPA.100 Crew responsibilities\nThe commander shall be responsible for the safety of all crew members, passengers and cargo on board as soon as the commander arrives on board the aircraft.\n\nThe commander shall ensure that all operational procedures and checklists are complied with during every phase of flight."),
		extractedPage(3, "CAT.GEN.MPA.105 Authority of the commander\nThe commander shall have the authority to give all commands and take any appropriate actions for the purpose of securing the operation of the aircraft."),
	}
}
