package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/avsafe-labs/regnav/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.ChunkStore     = (*Store)(nil)
	_ driven.SectionCatalog = (*Store)(nil)
)

// Store is the SQLite-backed chunk metadata store and section
// catalogue for one snapshot.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the snapshot database at path and runs
// migrations.
func NewStore(path string) (*Store, error) {
	// WAL keeps concurrent query-time readers cheap.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Chunk Store ====================

// SaveChunks stores a batch of chunks in one transaction.
func (s *Store) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, volume, section_label, section_title,
			page_start, page_end, text, priority, seq, token_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		_, err := stmt.ExecContext(ctx,
			c.ID, string(c.Volume), c.SectionLabel, c.SectionTitle,
			c.PageStart, c.PageEnd, c.Text, string(c.Priority), c.Seq, c.TokenCount,
		)
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// GetChunk retrieves a chunk by ID.
func (s *Store) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, volume, section_label, section_title,
			page_start, page_end, text, priority, seq, token_count
		FROM chunks WHERE id = ?
	`, id)

	chunk, err := scanChunk(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: chunk %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("getting chunk %s: %w", id, err)
	}
	return chunk, nil
}

// GetNeighbour retrieves the chunk at seq+offset within the volume.
func (s *Store) GetNeighbour(ctx context.Context, volume domain.Volume, seq, offset int) (*domain.Chunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, volume, section_label, section_title,
			page_start, page_end, text, priority, seq, token_count
		FROM chunks WHERE volume = ? AND seq = ?
	`, string(volume), seq+offset)

	chunk, err := scanChunk(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: volume %s seq %d", domain.ErrNotFound, volume, seq+offset)
		}
		return nil, fmt.Errorf("getting neighbour of %s/%d: %w", volume, seq, err)
	}
	return chunk, nil
}

// ListChunks returns all chunks ordered by volume and sequence.
func (s *Store) ListChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, volume, section_label, section_title,
			page_start, page_end, text, priority, seq, token_count
		FROM chunks ORDER BY volume, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, *chunk)
	}
	return chunks, rows.Err()
}

// CountChunks returns the number of stored chunks.
func (s *Store) CountChunks(ctx context.Context) (int, error) {
	var n int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks")
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// VolumeCounts returns the chunk count per volume, for statistics.
func (s *Store) VolumeCounts(ctx context.Context) (map[domain.Volume]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT volume, COUNT(*) FROM chunks GROUP BY volume")
	if err != nil {
		return nil, fmt.Errorf("counting by volume: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Volume]int)
	for rows.Next() {
		var volume string
		var n int
		if err := rows.Scan(&volume, &n); err != nil {
			return nil, fmt.Errorf("scanning volume count: %w", err)
		}
		counts[domain.Volume(volume)] = n
	}
	return counts, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows for scanChunk.
type scanner interface {
	Scan(dest ...any) error
}

func scanChunk(row scanner) (*domain.Chunk, error) {
	var c domain.Chunk
	var volume, priority string
	err := row.Scan(&c.ID, &volume, &c.SectionLabel, &c.SectionTitle,
		&c.PageStart, &c.PageEnd, &c.Text, &priority, &c.Seq, &c.TokenCount)
	if err != nil {
		return nil, err
	}
	c.Volume = domain.Volume(volume)
	c.Priority = domain.PriorityLevel(priority)
	return &c, nil
}

// ==================== Section Catalogue ====================

// SaveSections records label→chunk associations in one transaction.
func (s *Store) SaveSections(ctx context.Context, entries []driven.SectionEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO sections (label, chunk_id, referenced)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		referenced := 0
		if e.Referenced {
			referenced = 1
		}
		if _, err := stmt.ExecContext(ctx, e.Label, e.ChunkID, referenced); err != nil {
			return fmt.Errorf("inserting section %s: %w", e.Label, err)
		}
	}

	return tx.Commit()
}

// ChunksForSection returns IDs of chunks carrying the label, own
// sections before mere references, then volume/sequence order.
func (s *Store) ChunksForSection(ctx context.Context, label string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sec.chunk_id
		FROM sections sec
		JOIN chunks c ON c.id = sec.chunk_id
		WHERE sec.label = ?
		ORDER BY sec.referenced, c.volume, c.seq
	`, label)
	if err != nil {
		return nil, fmt.Errorf("querying section %s: %w", label, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning chunk ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Labels returns all distinct section labels in the catalogue.
func (s *Store) Labels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT label FROM sections ORDER BY label")
	if err != nil {
		return nil, fmt.Errorf("listing labels: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}
