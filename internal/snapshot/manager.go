package snapshot

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/avsafe-labs/regnav/internal/logger"
)

// Manager holds the active snapshot for a root directory and reloads
// it when another process commits a new one. Long-running surfaces
// (the MCP server) use it; one-shot CLI commands open snapshots
// directly.
type Manager struct {
	root string

	mu      sync.RWMutex
	current *Snapshot
}

// NewManager opens the current snapshot under root.
func NewManager(root string) (*Manager, error) {
	snap, err := Open(root)
	if err != nil {
		return nil, err
	}
	return &Manager{root: root, current: snap}, nil
}

// Acquire returns the active snapshot with a reference held, so a
// reload never closes it mid-use. Callers must call Release on the
// returned snapshot when the request ends, and must not retain it
// across requests.
func (m *Manager) Acquire() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.current.acquire()
	return m.current
}

// Close releases the active snapshot.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	err := m.current.Close()
	m.current = nil
	return err
}

// Watch blocks until ctx is cancelled, reloading the snapshot whenever
// the CURRENT pointer changes. A failed reload keeps the previous
// snapshot serving and logs the error.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating snapshot watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(m.root); err != nil {
		return fmt.Errorf("watching snapshot root: %w", err)
	}

	pointer := filepath.Join(m.root, pointerFile)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Commit renames the temp pointer into place, which
			// surfaces as a Create or Rename on CURRENT.
			if event.Name != pointer {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			m.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("snapshot watcher: %v", err)
		}
	}
}

func (m *Manager) reload() {
	snap, err := Open(m.root)
	if err != nil {
		logger.Warn("snapshot reload failed, keeping %s: %v", m.currentName(), err)
		return
	}

	m.mu.Lock()
	old := m.current
	m.current = snap
	m.mu.Unlock()

	// The old handle closes once its outstanding references drain.
	if old != nil {
		old.Close() //nolint:errcheck // read-only handle
	}
	logger.Info("snapshot reloaded: %s (%d chunks)", snap.Name, snap.Index.Size())
}

func (m *Manager) currentName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return "<none>"
	}
	return m.current.Name
}
