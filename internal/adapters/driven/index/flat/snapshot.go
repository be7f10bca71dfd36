package flat

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// Vector block format: a fixed header followed by count*dim float32
// values in little-endian order. Chunk metadata is persisted separately
// (SQLite); entry i of the vector block corresponds to the i-th chunk
// in volume/sequence order.
const (
	// formatMagic marks a regnav vector block.
	formatMagic = uint32(0x52_4E_56_58) // "RNVX"

	// formatVersion is bumped on incompatible layout changes.
	// Load rejects snapshots written with a different version.
	formatVersion = uint32(1)
)

// Save writes the vector block to path. The index must be fully built;
// snapshots are immutable once written.
func (ix *Index) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vector block: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	header := []uint32{formatMagic, formatVersion, uint32(len(ix.entries)), uint32(ix.dim)}
	for _, h := range header {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for _, e := range ix.entries {
		if err := binary.Write(w, binary.LittleEndian, e.vec); err != nil {
			return fmt.Errorf("write vectors: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush vector block: %w", err)
	}
	return f.Sync()
}

// Load reads a vector block from path and pairs it with the given
// chunks, which must be in the same volume/sequence order the index
// was built in. Returns an error wrapping domain.ErrIndexCorrupt when
// the header is invalid, the vector count disagrees with the chunk
// count, or the data is truncated.
func Load(path string, chunks []domain.Chunk) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vector block: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic, version, count, dim uint32
	for _, h := range []*uint32{&magic, &version, &count, &dim} {
		if err := binary.Read(r, binary.LittleEndian, h); err != nil {
			return nil, fmt.Errorf("%w: truncated header: %v", domain.ErrIndexCorrupt, err)
		}
	}

	if magic != formatMagic {
		return nil, fmt.Errorf("%w: not a regnav vector block", domain.ErrIndexCorrupt)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d (want %d)",
			domain.ErrIndexCorrupt, version, formatVersion)
	}
	if int(count) != len(chunks) {
		return nil, fmt.Errorf("%w: vector block has %d entries, metadata has %d",
			domain.ErrIndexCorrupt, count, len(chunks))
	}

	ix := New(int(dim))
	for i := 0; i < int(count); i++ {
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("%w: truncated vector data at entry %d: %v",
				domain.ErrIndexCorrupt, i, err)
		}
		ix.byID[chunks[i].ID] = len(ix.entries)
		ix.entries = append(ix.entries, entry{chunk: chunks[i], vec: vec})
	}

	// A valid block has no trailing data.
	if _, err := r.ReadByte(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after %d entries", domain.ErrIndexCorrupt, count)
	}

	return ix, nil
}
