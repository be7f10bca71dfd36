package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Embeddings are deterministic per text so tests can predict scores.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	batchErr  error
	pingErr   error
	dims      int

	mu       sync.Mutex
	embedded []string // texts passed to EmbedBatch
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	m.mu.Lock()
	m.embedded = append(m.embedded, texts...)
	m.mu.Unlock()
	out := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, m.dims)
		vec[i%m.dims] = 1
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int   { return m.dims }
func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return m.pingErr }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	hits      []driven.VectorHit
	entries   map[string]domain.Chunk
	vectors   map[string][]float32
	searchErr error

	lastK      int
	lastFilter driven.ChunkFilter
}

func (m *mockVectorIndex) Add(_ domain.Chunk, _ []float32) error { return nil }

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int, filter driven.ChunkFilter) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	m.lastK = k
	m.lastFilter = filter

	var hits []driven.VectorHit
	for _, h := range m.hits {
		if filter != nil && !filter(h.Chunk) {
			continue
		}
		hits = append(hits, h)
		if len(hits) == k {
			break
		}
	}
	return hits, nil
}

func (m *mockVectorIndex) Get(chunkID string) (domain.Chunk, []float32, error) {
	chunk, ok := m.entries[chunkID]
	if !ok {
		return domain.Chunk{}, nil, fmt.Errorf("%w: %s", domain.ErrNotFound, chunkID)
	}
	return chunk, m.vectors[chunkID], nil
}

func (m *mockVectorIndex) Size() int { return len(m.entries) }

// mockChunkStore implements driven.ChunkStore for testing.
// Chunks are keyed by volume/seq for neighbour lookups.
type mockChunkStore struct {
	chunks map[string]domain.Chunk // key: "volume/seq"
}

func chunkKey(v domain.Volume, seq int) string {
	return fmt.Sprintf("%s/%d", v, seq)
}

func (m *mockChunkStore) SaveChunks(_ context.Context, _ []domain.Chunk) error { return nil }

func (m *mockChunkStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	for _, c := range m.chunks {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
}

func (m *mockChunkStore) GetNeighbour(_ context.Context, v domain.Volume, seq, offset int) (*domain.Chunk, error) {
	c, ok := m.chunks[chunkKey(v, seq+offset)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%d", domain.ErrNotFound, v, seq+offset)
	}
	return &c, nil
}

func (m *mockChunkStore) ListChunks(_ context.Context) ([]domain.Chunk, error) { return nil, nil }
func (m *mockChunkStore) CountChunks(_ context.Context) (int, error)           { return len(m.chunks), nil }
func (m *mockChunkStore) Close() error                                         { return nil }

// mockSectionCatalog implements driven.SectionCatalog for testing.
type mockSectionCatalog struct {
	byLabel map[string][]string
}

func (m *mockSectionCatalog) SaveSections(_ context.Context, _ []driven.SectionEntry) error {
	return nil
}

func (m *mockSectionCatalog) ChunksForSection(_ context.Context, label string) ([]string, error) {
	return m.byLabel[label], nil
}

func (m *mockSectionCatalog) Labels(_ context.Context) ([]string, error) {
	labels := make([]string, 0, len(m.byLabel))
	for l := range m.byLabel {
		labels = append(labels, l)
	}
	return labels, nil
}

// mockExtractor implements driven.Extractor for testing.
type mockExtractor struct {
	pages map[domain.Volume][]domain.Page
	errs  map[domain.Volume]error
}

func (m *mockExtractor) Extract(_ context.Context, doc domain.Document, _ string) ([]domain.Page, error) {
	if err := m.errs[doc.Volume]; err != nil {
		return nil, err
	}
	return m.pages[doc.Volume], nil
}

// mockSnapshotStore implements driven.SnapshotStore for testing.
type mockSnapshotStore struct {
	writeErr error

	buildID  string
	chunks   []domain.Chunk
	vectors  [][]float32
	sections []driven.SectionEntry
	dim      int
	writes   int
}

func (m *mockSnapshotStore) Write(_ context.Context, buildID string, chunks []domain.Chunk, vectors [][]float32, sections []driven.SectionEntry, dim int) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.buildID = buildID
	m.chunks = chunks
	m.vectors = vectors
	m.sections = sections
	m.dim = dim
	return nil
}
