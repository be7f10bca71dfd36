package driven

import (
	"context"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// SnapshotStore persists a fully built index as an immutable snapshot
// and atomically makes it the active one. The build pipeline is its
// only caller.
type SnapshotStore interface {
	// Write persists chunks, their embeddings and the section catalogue
	// under the given build ID, then commits the snapshot so query-time
	// readers pick it up. Chunks and vectors are parallel slices in
	// volume/sequence order; dim is the embedding dimension.
	Write(ctx context.Context, buildID string, chunks []domain.Chunk, vectors [][]float32, sections []SectionEntry, dim int) error
}
