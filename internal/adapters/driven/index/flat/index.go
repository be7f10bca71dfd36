// Package flat provides an exact nearest-neighbour vector index.
//
// The corpus is small (thousands of chunks), so a brute-force inner
// product scan over L2-normalized vectors is both sufficient and
// exact. The driven.VectorIndex interface keeps the option of swapping
// in an approximate structure later without touching the services.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry pairs a chunk's metadata with its stored unit vector.
type entry struct {
	chunk domain.Chunk
	vec   []float32
}

// Index is an exact inner-product index over normalized vectors.
//
// It is built single-writer during ingestion and read-only afterwards:
// concurrent searches against a loaded snapshot need no locking
// because nothing mutates the entries.
type Index struct {
	dim     int
	entries []entry
	byID    map[string]int
}

// New creates an empty index for vectors of the given dimension.
func New(dim int) *Index {
	return &Index{
		dim:  dim,
		byID: make(map[string]int),
	}
}

// Dim returns the vector dimension of the index.
func (ix *Index) Dim() int {
	return ix.dim
}

// Size returns the number of entries.
func (ix *Index) Size() int {
	return len(ix.entries)
}

// Add appends one entry, L2-normalizing the embedding before storage
// so that inner product equals cosine similarity. Build-time only.
func (ix *Index) Add(chunk domain.Chunk, embedding []float32) error {
	if len(embedding) != ix.dim {
		return fmt.Errorf("%w: vector has %d dimensions, index expects %d",
			domain.ErrInvalidInput, len(embedding), ix.dim)
	}
	if _, exists := ix.byID[chunk.ID]; exists {
		return fmt.Errorf("%w: duplicate chunk ID %s", domain.ErrInvalidInput, chunk.ID)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	Normalize(vec)

	ix.byID[chunk.ID] = len(ix.entries)
	ix.entries = append(ix.entries, entry{chunk: chunk, vec: vec})
	return nil
}

// Search returns the k most similar chunks in descending order of
// cosine similarity. The filter is applied while scanning, so the
// result holds the top-k matching chunks, not top-k overall filtered
// down. Ties break by insertion order (stable).
func (ix *Index) Search(ctx context.Context, query []float32, k int, filter driven.ChunkFilter) ([]driven.VectorHit, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			domain.ErrInvalidInput, len(query), ix.dim)
	}
	if k <= 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := make([]float32, len(query))
	copy(q, query)
	Normalize(q)

	hits := make([]driven.VectorHit, 0, len(ix.entries))
	for _, e := range ix.entries {
		if filter != nil && !filter(e.chunk) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			Chunk:      e.chunk,
			Similarity: dot(q, e.vec),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Get retrieves an entry and its stored embedding by chunk ID.
func (ix *Index) Get(chunkID string) (domain.Chunk, []float32, error) {
	i, ok := ix.byID[chunkID]
	if !ok {
		return domain.Chunk{}, nil, fmt.Errorf("%w: chunk %s", domain.ErrNotFound, chunkID)
	}
	return ix.entries[i].chunk, ix.entries[i].vec, nil
}

// Normalize scales v to unit L2 norm in place. Zero vectors are left
// unchanged.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1.0 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
