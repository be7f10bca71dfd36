package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "chunks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testChunk(volume domain.Volume, seq int) domain.Chunk {
	return domain.Chunk{
		ID:           domain.ChunkID(volume, seq),
		Volume:       volume,
		SectionLabel: "CAT.GEN.MPA.210",
		SectionTitle: "Location of an aircraft in distress",
		PageStart:    118,
		PageEnd:      119,
		Text:         "The operator shall establish procedures.",
		Priority:     domain.PriorityNone,
		Seq:          seq,
		TokenCount:   6,
	}
}

func TestStore_Migrate(t *testing.T) {
	store := newTestStore(t)

	// Reopening the same database must be a no-op, not a failure.
	require.NoError(t, store.Close())
	again, err := NewStore(store.Path())
	require.NoError(t, err)
	defer again.Close()

	n, err := again.CountChunks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_SaveAndGetChunk(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := testChunk(domain.VolumeI, 0)
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{want}))

	got, err := store.GetChunk(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestStore_GetChunk_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetChunk(context.Background(), "volI_c9999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveChunks_Empty(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.SaveChunks(context.Background(), nil))
}

func TestStore_GetNeighbour(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunks := []domain.Chunk{
		testChunk(domain.VolumeI, 0),
		testChunk(domain.VolumeI, 1),
		testChunk(domain.VolumeI, 2),
	}
	require.NoError(t, store.SaveChunks(ctx, chunks))

	next, err := store.GetNeighbour(ctx, domain.VolumeI, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Seq)

	prev, err := store.GetNeighbour(ctx, domain.VolumeI, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, prev.Seq)

	// Past the last chunk is a document boundary.
	_, err = store.GetNeighbour(ctx, domain.VolumeI, 2, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListChunks_Order(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Insert out of order; ListChunks must come back sorted.
	chunks := []domain.Chunk{
		testChunk(domain.VolumeII, 1),
		testChunk(domain.VolumeI, 1),
		testChunk(domain.VolumeII, 0),
		testChunk(domain.VolumeI, 0),
	}
	require.NoError(t, store.SaveChunks(ctx, chunks))

	got, err := store.ListChunks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 4)

	wantIDs := []string{"volI_c0000", "volI_c0001", "volII_c0000", "volII_c0001"}
	for i, id := range wantIDs {
		assert.Equal(t, id, got[i].ID)
	}
}

func TestStore_CountChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		testChunk(domain.VolumeI, 0),
		testChunk(domain.VolumeIII, 0),
	}))

	n, err = store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_VolumeCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		testChunk(domain.VolumeI, 0),
		testChunk(domain.VolumeI, 1),
		testChunk(domain.VolumeII, 0),
	}))

	counts, err := store.VolumeCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.Volume]int{
		domain.VolumeI:  2,
		domain.VolumeII: 1,
	}, counts)
}

func TestStore_Sections(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		testChunk(domain.VolumeI, 0),
		testChunk(domain.VolumeII, 0),
		testChunk(domain.VolumeIII, 0),
	}))

	entries := []driven.SectionEntry{
		{Label: "CAT.GEN.MPA.210", ChunkID: "volIII_c0000", Referenced: true},
		{Label: "CAT.GEN.MPA.210", ChunkID: "volI_c0000"},
		{Label: "ORO.GEN.110", ChunkID: "volII_c0000"},
		// Duplicates are ignored, not an error.
		{Label: "ORO.GEN.110", ChunkID: "volII_c0000"},
	}
	require.NoError(t, store.SaveSections(ctx, entries))

	ids, err := store.ChunksForSection(ctx, "CAT.GEN.MPA.210")
	require.NoError(t, err)
	// Own sections come before mere references.
	assert.Equal(t, []string{"volI_c0000", "volIII_c0000"}, ids)

	ids, err = store.ChunksForSection(ctx, "ORO.GEN.110")
	require.NoError(t, err)
	assert.Equal(t, []string{"volII_c0000"}, ids)

	ids, err = store.ChunksForSection(ctx, "CAT.POL.A.100")
	require.NoError(t, err)
	assert.Empty(t, ids)

	labels, err := store.Labels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CAT.GEN.MPA.210", "ORO.GEN.110"}, labels)
}
