package section

import (
	"fmt"
	"sort"

	"github.com/nebulafx/nbl/cursor"
	"github.com/nebulafx/nbl/errs"
)

// FrameIndexEntry locates one compressed frame chunk in the file.
type FrameIndexEntry struct {
	// ChunkOffset is the absolute byte offset of the first byte of the chunk.
	ChunkOffset uint64
	// ChunkSize is the compressed size of the chunk in bytes.
	ChunkSize uint32
}

// End returns the byte offset one past the chunk.
func (e FrameIndexEntry) End() uint64 {
	return e.ChunkOffset + uint64(e.ChunkSize)
}

// FrameIndex is the eagerly-loaded frame index table: one entry per frame,
// in frame order.
type FrameIndex []FrameIndexEntry

// ReadFrameIndex reads totalFrames entries from the cursor.
func ReadFrameIndex(r *cursor.Reader, totalFrames int) (FrameIndex, error) {
	if totalFrames == 0 {
		return nil, nil
	}

	index := make(FrameIndex, 0, totalFrames)
	for i := 0; i < totalFrames; i++ {
		offset, err := r.Uint64()
		if err != nil {
			return nil, fmt.Errorf("frame index entry %d: %w", i, err)
		}
		size, err := r.Uint32()
		if err != nil {
			return nil, fmt.Errorf("frame index entry %d: %w", i, err)
		}
		index = append(index, FrameIndexEntry{ChunkOffset: offset, ChunkSize: size})
	}

	return index, nil
}

// WriteTo appends the table to the writer.
func (fi FrameIndex) WriteTo(w *cursor.Writer) {
	w.Grow(len(fi) * FrameIndexEntrySize)
	for _, entry := range fi {
		w.PutUint64(entry.ChunkOffset)
		w.PutUint32(entry.ChunkSize)
	}
}

// Validate checks the open-time invariants of the table:
// every chunk lies entirely between dataStart and fileSize, and no two
// chunks overlap when sorted by offset.
//
// Returns ErrBadIndex with the offending entry's frame number.
func (fi FrameIndex) Validate(dataStart uint64, fileSize uint64) error {
	for i, entry := range fi {
		if entry.ChunkOffset < dataStart {
			return fmt.Errorf("%w: frame %d chunk offset %d inside metadata region (data starts at %d)",
				errs.ErrBadIndex, i, entry.ChunkOffset, dataStart)
		}
		if entry.End() < entry.ChunkOffset || entry.End() > fileSize {
			return fmt.Errorf("%w: frame %d chunk [%d,%d) escapes file of %d bytes",
				errs.ErrBadIndex, i, entry.ChunkOffset, entry.End(), fileSize)
		}
	}

	// Overlap check on a sorted view; the table itself stays in frame order.
	order := make([]int, len(fi))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return fi[order[a]].ChunkOffset < fi[order[b]].ChunkOffset
	})

	for i := 1; i < len(order); i++ {
		prev, cur := fi[order[i-1]], fi[order[i]]
		if prev.End() > cur.ChunkOffset {
			return fmt.Errorf("%w: frames %d and %d overlap at offset %d",
				errs.ErrBadIndex, order[i-1], order[i], cur.ChunkOffset)
		}
	}

	return nil
}

// MaxChunkSize returns the largest compressed chunk size in the table,
// used to size the reader's scratch buffer once.
func (fi FrameIndex) MaxChunkSize() uint32 {
	var maxSize uint32
	for _, entry := range fi {
		if entry.ChunkSize > maxSize {
			maxSize = entry.ChunkSize
		}
	}

	return maxSize
}
