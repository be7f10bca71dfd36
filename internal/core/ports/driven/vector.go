package driven

import (
	"context"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// ChunkFilter is an exact-match predicate over chunk metadata applied
// during vector search. A nil filter matches everything.
type ChunkFilter func(chunk domain.Chunk) bool

// VolumeFilter returns a filter matching chunks from one volume.
func VolumeFilter(v domain.Volume) ChunkFilter {
	return func(c domain.Chunk) bool { return c.Volume == v }
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk with full metadata.
	Chunk domain.Chunk

	// Similarity is the cosine similarity in [-1, 1].
	Similarity float64
}

// VectorIndex stores chunk embeddings and supports exact nearest
// neighbour search with metadata filtering.
//
// The corpus is small (thousands of chunks), so exact inner product
// over normalized vectors is sufficient; the interface does not
// preclude swapping in an approximate structure later. The index is
// built single-writer and read-only once persisted: Add is used only
// during build, Search only against a loaded snapshot. Concurrent
// reads need no locking because there are no concurrent writes.
type VectorIndex interface {
	// Add appends one entry. The embedding is L2-normalized before
	// storage so that inner product equals cosine similarity.
	Add(chunk domain.Chunk, embedding []float32) error

	// Search returns the k most similar chunks in descending order of
	// cosine similarity. When filter is non-nil the result holds the
	// top-k matching chunks, not top-k overall filtered down.
	Search(ctx context.Context, query []float32, k int, filter ChunkFilter) ([]VectorHit, error)

	// Get retrieves an entry and its stored embedding by chunk ID.
	// Returns domain.ErrNotFound for unknown IDs.
	Get(chunkID string) (domain.Chunk, []float32, error)

	// Size returns the number of entries.
	Size() int
}
