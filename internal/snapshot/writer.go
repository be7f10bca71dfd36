package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avsafe-labs/regnav/internal/adapters/driven/index/flat"
	"github.com/avsafe-labs/regnav/internal/adapters/driven/storage/sqlite"
	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/core/ports/driven"
	"github.com/avsafe-labs/regnav/internal/logger"
)

// Ensure Writer implements the interface.
var _ driven.SnapshotStore = (*Writer)(nil)

// Writer persists build output as a new snapshot under its root
// directory and commits it atomically.
type Writer struct {
	root string
}

// NewWriter creates a snapshot writer rooted at dir, creating the
// directory if needed.
func NewWriter(root string) (*Writer, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot root: %w", err)
	}
	return &Writer{root: root}, nil
}

// Write persists the snapshot under the build ID and points CURRENT at
// it. The directory is fully written before the commit, so a crash
// mid-write leaves the previous snapshot untouched. Stale snapshots
// are pruned after the commit.
func (w *Writer) Write(ctx context.Context, buildID string, chunks []domain.Chunk, vectors [][]float32, sections []driven.SectionEntry, dim int) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}

	dir := filepath.Join(w.root, buildID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(dir, chunksFile))
	if err != nil {
		return fmt.Errorf("creating chunk database: %w", err)
	}
	defer store.Close()

	if err := store.SaveChunks(ctx, chunks); err != nil {
		return err
	}
	if err := store.SaveSections(ctx, sections); err != nil {
		return err
	}

	index := flat.New(dim)
	for i, chunk := range chunks {
		if err := index.Add(chunk, vectors[i]); err != nil {
			return fmt.Errorf("indexing chunk %s: %w", chunk.ID, err)
		}
	}
	if err := index.Save(filepath.Join(dir, vectorsFile)); err != nil {
		return err
	}

	if err := Commit(w.root, buildID); err != nil {
		return err
	}

	if err := Prune(w.root); err != nil {
		// The new snapshot is already live; stale directories only
		// cost disk space.
		logger.Warn("pruning stale snapshots: %v", err)
	}

	logger.Info("snapshot %s committed: %d chunks, dim %d", buildID, len(chunks), dim)
	return nil
}
