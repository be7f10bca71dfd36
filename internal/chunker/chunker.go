// Package chunker splits extracted pages into overlapping fixed-size
// passages, preserving section boundaries where possible.
//
// Chunking is deterministic: identical input produces identical chunk
// boundaries and IDs, which makes index rebuilds reproducible.
package chunker

import (
	"strings"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// DefaultChunkSize is the default target chunk length in tokens.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default overlap between consecutive
// chunks of the same document, in tokens.
const DefaultChunkOverlap = 50

// Chunker splits a document's pages into chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in tokens.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in tokens.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave room for new content in every chunk.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkDocument splits the ordered pages of one document into chunks.
//
// A chunk never spans a detected section boundary unless the section
// itself exceeds the target length, in which case it is split and each
// resulting chunk inherits the section label. Page spans reflect the
// true pages the chunk text was drawn from.
func (c *Chunker) ChunkDocument(doc domain.Document, pages []domain.Page) []domain.Chunk {
	sections := SplitSections(pages)

	var chunks []domain.Chunk
	seq := 0

	for _, section := range sections {
		for _, part := range c.chunkSection(section) {
			text := joinUnits(part)
			chunks = append(chunks, domain.Chunk{
				ID:           domain.ChunkID(doc.Volume, seq),
				Volume:       doc.Volume,
				SectionLabel: section.Label,
				SectionTitle: section.Title,
				PageStart:    minPage(part),
				PageEnd:      maxPage(part),
				Text:         text,
				Priority:     detectPriority(doc.Type, text),
				Seq:          seq,
				TokenCount:   CountTokens(text),
			})
			seq++
		}
	}

	return chunks
}

// chunkSection packs a section's units into runs of at most chunkSize
// tokens. Oversized paragraphs are re-split into sentences first.
// Consecutive runs within the section share a trailing overlap window.
func (c *Chunker) chunkSection(section Section) [][]Unit {
	units := c.normalizeUnits(section.Units)

	var parts [][]Unit
	var current []Unit
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		parts = append(parts, current)

		// Seed the next run with the trailing units of this one,
		// staying within the overlap budget.
		seed, seedTokens := c.overlapSeed(current)
		current = seed
		currentTokens = seedTokens
	}

	for _, u := range units {
		tokens := CountTokens(u.Text)
		if currentTokens+tokens > c.chunkSize && len(current) > 0 {
			flush()
		}
		current = append(current, u)
		currentTokens += tokens
	}
	if len(current) > 0 {
		parts = append(parts, current)
	}

	return parts
}

// normalizeUnits re-splits any unit larger than the chunk target into
// sentence units so that packing can make progress.
func (c *Chunker) normalizeUnits(units []Unit) []Unit {
	var out []Unit
	for _, u := range units {
		if CountTokens(u.Text) <= c.chunkSize {
			out = append(out, u)
			continue
		}
		for _, s := range splitSentences(u.Text) {
			out = append(out, Unit{Text: s, Page: u.Page})
		}
	}
	return out
}

// overlapSeed returns the trailing units of a run whose combined token
// count fits the overlap budget.
func (c *Chunker) overlapSeed(run []Unit) ([]Unit, int) {
	if c.overlap == 0 {
		return nil, 0
	}

	tokens := 0
	start := len(run)
	for start > 0 {
		t := CountTokens(run[start-1].Text)
		if tokens+t > c.overlap {
			break
		}
		tokens += t
		start--
	}
	if start == len(run) {
		return nil, 0
	}

	seed := make([]Unit, len(run)-start)
	copy(seed, run[start:])
	return seed, tokens
}

func joinUnits(units []Unit) string {
	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.Text
	}
	return strings.Join(texts, "\n\n")
}

func minPage(units []Unit) int {
	min := units[0].Page
	for _, u := range units {
		if u.Page < min {
			min = u.Page
		}
	}
	return min
}

func maxPage(units []Unit) int {
	max := units[0].Page
	for _, u := range units {
		if u.Page > max {
			max = u.Page
		}
	}
	return max
}
