package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avsafe-labs/regnav/internal/core/domain"
	"github.com/avsafe-labs/regnav/internal/core/ports/driven"
)

// crossRefFixture wires a catalogue with one section present in two
// volumes plus unrelated chunks for semantic supplementation.
func crossRefFixture() *QueryService {
	reg := queryChunk(domain.VolumeI, 0, "CAT.GEN.MPA.210", "tracking requirement")
	risk := queryChunk(domain.VolumeIII, 0, "CAT.GEN.MPA.210", "risk linked to tracking")
	other1 := queryChunk(domain.VolumeII, 0, "", "related mitigation action")
	other2 := queryChunk(domain.VolumeII, 1, "", "another related action")

	index := &mockVectorIndex{
		hits: []driven.VectorHit{
			{Chunk: reg, Similarity: 0.99},
			{Chunk: risk, Similarity: 0.92},
			{Chunk: other1, Similarity: 0.88},
			{Chunk: other2, Similarity: 0.82},
		},
		entries: map[string]domain.Chunk{
			reg.ID:    reg,
			risk.ID:   risk,
			other1.ID: other1,
			other2.ID: other2,
		},
		vectors: map[string][]float32{
			reg.ID:    {1, 0, 0},
			risk.ID:   {0.9, 0.1, 0},
			other1.ID: {0.8, 0.2, 0},
			other2.ID: {0.7, 0.3, 0},
		},
	}
	store := &mockChunkStore{chunks: map[string]domain.Chunk{}}
	catalog := &mockSectionCatalog{byLabel: map[string][]string{
		"CAT.GEN.MPA.210": {reg.ID, risk.ID},
	}}
	embedder := &mockEmbeddingService{embedding: []float32{1, 0, 0}, dims: 3}
	return NewQueryService(index, store, catalog, embedder)
}

func TestCrossReference_ExactPlusSemantic(t *testing.T) {
	svc := crossRefFixture()

	ref, err := svc.CrossReference(context.Background(), "cat.gen.mpa.210")
	require.NoError(t, err)

	assert.Equal(t, "CAT.GEN.MPA.210", ref.SectionLabel)
	assert.True(t, ref.ExactMatch)
	require.Len(t, ref.Exact, 2)
	assert.Equal(t, domain.VolumeI, ref.Exact[0].Chunk.Volume)
	assert.Equal(t, domain.VolumeIII, ref.Exact[1].Chunk.Volume)

	// Two exact matches fall short of the minimum; one semantic
	// neighbour tops them up, excluding the exact matches themselves.
	require.Len(t, ref.Semantic, 1)
	assert.Equal(t, "volII_c0000", ref.Semantic[0].Chunk.ID)
}

func TestCrossReference_UnknownLabelFallsBackToSemantic(t *testing.T) {
	svc := crossRefFixture()

	ref, err := svc.CrossReference(context.Background(), "ORO.FC.105")
	assert.ErrorIs(t, err, domain.ErrUnknownSection)
	require.NotNil(t, ref)

	assert.False(t, ref.ExactMatch)
	assert.Empty(t, ref.Exact)
	assert.Len(t, ref.Semantic, domain.MinCrossReferences)
}

func TestCrossReference_EmptyLabelRejected(t *testing.T) {
	svc := crossRefFixture()

	_, err := svc.CrossReference(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCrossReference_NormalizesInput(t *testing.T) {
	svc := crossRefFixture()

	ref, err := svc.CrossReference(context.Background(), "  cat.gen.mpa.210  ")
	require.NoError(t, err)
	assert.Equal(t, "CAT.GEN.MPA.210", ref.SectionLabel)
	assert.True(t, ref.ExactMatch)
}
