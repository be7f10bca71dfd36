package driven

import (
	"context"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// ChunkStore persists chunk metadata for a snapshot.
// Backed by SQLite; written once at build time, read-only afterwards.
type ChunkStore interface {
	// SaveChunks stores a batch of chunks. Build-time only.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a chunk by ID.
	// Returns domain.ErrNotFound for unknown IDs.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetNeighbour retrieves the chunk at seq+offset within the given
	// volume, for context expansion. Returns domain.ErrNotFound when
	// the neighbour does not exist (document boundary).
	GetNeighbour(ctx context.Context, volume domain.Volume, seq, offset int) (*domain.Chunk, error)

	// ListChunks returns all chunks ordered by volume and sequence.
	// Used to reconcile metadata against the vector block at load time.
	ListChunks(ctx context.Context) ([]domain.Chunk, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// Close releases the underlying database handle.
	Close() error
}

// SectionCatalog maps normalized section labels to the chunks carrying
// them, across all volumes. Built alongside the index, queried by the
// cross-reference resolver.
type SectionCatalog interface {
	// SaveSections records label→chunk associations. Build-time only.
	SaveSections(ctx context.Context, entries []SectionEntry) error

	// ChunksForSection returns the IDs of chunks whose section label
	// equals the normalized label, in volume/sequence order. An empty
	// result is not an error.
	ChunksForSection(ctx context.Context, label string) ([]string, error)

	// Labels returns all distinct section labels in the catalogue.
	Labels(ctx context.Context) ([]string, error)
}

// SectionEntry is one label→chunk association in the section catalogue.
type SectionEntry struct {
	// Label is the normalized section label.
	Label string

	// ChunkID is the chunk carrying or referencing the label.
	ChunkID string

	// Referenced is true when the chunk merely references the label in
	// its text rather than belonging to the section.
	Referenced bool
}
