package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkID(t *testing.T) {
	assert.Equal(t, "volI_c0000", ChunkID(VolumeI, 0))
	assert.Equal(t, "volII_c0042", ChunkID(VolumeII, 42))
	assert.Equal(t, "volIII_c12345", ChunkID(VolumeIII, 12345))

	// Identical inputs always yield identical IDs.
	assert.Equal(t, ChunkID(VolumeI, 7), ChunkID(VolumeI, 7))
}

func TestParseVolume(t *testing.T) {
	v, err := ParseVolume("II")
	require.NoError(t, err)
	assert.Equal(t, VolumeII, v)

	_, err = ParseVolume("IV")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseVolume("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVolumesCatalogue(t *testing.T) {
	require.Len(t, Volumes, 3)
	assert.Equal(t, TypeRegulation, Volumes[VolumeI].Type)
	assert.Equal(t, TypeAction, Volumes[VolumeII].Type)
	assert.Equal(t, TypeRisk, Volumes[VolumeIII].Type)
	for v, info := range Volumes {
		assert.NotEmpty(t, info.Title, "volume %s must have a title", v)
	}
}

func TestBuildReportCounts(t *testing.T) {
	r := BuildReport{
		Documents: []DocumentReport{
			{Volume: VolumeI, Chunks: 10},
			{Volume: VolumeII, Err: ErrExtraction},
			{Volume: VolumeIII, Chunks: 4},
		},
	}
	assert.Equal(t, 2, r.Succeeded())
	assert.Equal(t, 1, r.Failed())
}
