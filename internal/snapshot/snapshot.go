// Package snapshot manages on-disk index snapshots: immutable
// directories holding a vector block and its chunk database, swapped
// atomically so a rebuild never disturbs in-flight queries.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/avsafe-labs/regnav/internal/adapters/driven/index/flat"
	"github.com/avsafe-labs/regnav/internal/adapters/driven/storage/sqlite"
	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// Snapshot layout inside the snapshot root:
//
//	<root>/CURRENT        name of the active snapshot directory
//	<root>/<name>/vectors.bin
//	<root>/<name>/chunks.db
//
// A snapshot directory is written completely before CURRENT is pointed
// at it, so readers only ever observe finished snapshots.
const (
	pointerFile = "CURRENT"
	vectorsFile = "vectors.bin"
	chunksFile  = "chunks.db"
)

// Snapshot is an immutable, query-ready view of one built index.
// Index and Store are safe for concurrent readers; neither is mutated
// after Open returns.
type Snapshot struct {
	// Name is the snapshot directory name, typically the build ID.
	Name string

	// Index is the in-memory vector index.
	Index *flat.Index

	// Store holds chunk metadata and the section catalogue.
	Store *sqlite.Store

	mu      sync.Mutex
	refs    int
	retired bool
}

// Close marks the snapshot released. The database handle closes once
// the last reference obtained through Manager.Acquire is returned, or
// immediately when none are held, so in-flight queries against a
// replaced snapshot are unaffected.
func (s *Snapshot) Close() error {
	s.mu.Lock()
	s.retired = true
	idle := s.refs == 0
	s.mu.Unlock()
	if idle {
		return s.Store.Close()
	}
	return nil
}

// acquire takes a reference. Callers pair it with Release.
func (s *Snapshot) acquire() {
	s.mu.Lock()
	s.refs++
	s.mu.Unlock()
}

// Release returns a reference obtained from Manager.Acquire, closing
// the database handle if the snapshot has been replaced and this was
// the last outstanding reference.
func (s *Snapshot) Release() {
	s.mu.Lock()
	s.refs--
	last := s.retired && s.refs == 0
	s.mu.Unlock()
	if last {
		s.Store.Close() //nolint:errcheck // read-only handle
	}
}

// Open loads the snapshot named by the root's CURRENT pointer.
// Returns domain.ErrNoSnapshot when no snapshot has been built yet,
// or an error wrapping domain.ErrIndexCorrupt when the vector block
// and the chunk database disagree.
func Open(root string) (*Snapshot, error) {
	name, err := readPointer(root)
	if err != nil {
		return nil, err
	}
	return openDir(root, name)
}

func openDir(root, name string) (*Snapshot, error) {
	dir := filepath.Join(root, name)

	store, err := sqlite.NewStore(filepath.Join(dir, chunksFile))
	if err != nil {
		return nil, fmt.Errorf("opening chunk database: %w", err)
	}

	chunks, err := store.ListChunks(context.Background())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("listing chunks: %w", err)
	}

	index, err := flat.Load(filepath.Join(dir, vectorsFile), chunks)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Snapshot{Name: name, Index: index, Store: store}, nil
}

// readPointer reads the CURRENT file and validates its target exists.
func readPointer(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, pointerFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: no CURRENT pointer in %s", domain.ErrNoSnapshot, root)
		}
		return "", fmt.Errorf("reading snapshot pointer: %w", err)
	}

	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", fmt.Errorf("%w: empty CURRENT pointer in %s", domain.ErrNoSnapshot, root)
	}
	if _, err := os.Stat(filepath.Join(root, name)); err != nil {
		return "", fmt.Errorf("%w: snapshot directory %s missing: %v",
			domain.ErrIndexCorrupt, name, err)
	}
	return name, nil
}

// Commit points CURRENT at the named snapshot directory. The pointer
// is written to a temp file and renamed into place, so a crash leaves
// either the old pointer or the new one, never a torn write.
func Commit(root, name string) error {
	if _, err := os.Stat(filepath.Join(root, name)); err != nil {
		return fmt.Errorf("snapshot directory %s: %w", name, err)
	}

	tmp := filepath.Join(root, pointerFile+".tmp")
	if err := os.WriteFile(tmp, []byte(name+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing snapshot pointer: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(root, pointerFile)); err != nil {
		return fmt.Errorf("committing snapshot pointer: %w", err)
	}
	return nil
}

// Prune removes snapshot directories other than the one CURRENT points
// at. Called after a successful commit to reclaim disk space.
func Prune(root string) error {
	current, err := readPointer(root)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("reading snapshot root: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == current {
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, entry.Name())); err != nil {
			return fmt.Errorf("removing stale snapshot %s: %w", entry.Name(), err)
		}
	}
	return nil
}
