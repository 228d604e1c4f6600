package section

import (
	"fmt"
	"sort"

	"github.com/nebulafx/nbl/cursor"
	"github.com/nebulafx/nbl/errs"
)

// KeyframeIndex is the ascending table of frame numbers that are I-Frames.
// Frame 0 is always first for any non-empty animation.
type KeyframeIndex []uint32

// ReadKeyframeIndex reads the count-prefixed table from the cursor and
// validates it against totalFrames.
func ReadKeyframeIndex(r *cursor.Reader, totalFrames uint32) (KeyframeIndex, error) {
	count, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("keyframe count: %w", err)
	}

	index := make(KeyframeIndex, 0, count)
	for i := uint32(0); i < count; i++ {
		frame, err := r.Uint32()
		if err != nil {
			return nil, fmt.Errorf("keyframe entry %d: %w", i, err)
		}
		index = append(index, frame)
	}

	if err := index.Validate(totalFrames); err != nil {
		return nil, err
	}

	return index, nil
}

// WriteTo appends the count-prefixed table to the writer.
func (ki KeyframeIndex) WriteTo(w *cursor.Writer) {
	w.Grow(KeyframeCountSize + len(ki)*KeyframeEntrySize)
	w.PutUint32(uint32(len(ki))) //nolint:gosec
	for _, frame := range ki {
		w.PutUint32(frame)
	}
}

// Validate checks that the table is strictly ascending, starts at frame 0,
// and stays below totalFrames. An empty table is valid only for an empty
// animation.
func (ki KeyframeIndex) Validate(totalFrames uint32) error {
	if len(ki) == 0 {
		if totalFrames == 0 {
			return nil
		}

		return fmt.Errorf("%w: empty table for %d frames", errs.ErrBadKeyframeTable, totalFrames)
	}

	if ki[0] != 0 {
		return fmt.Errorf("%w: first keyframe is %d, not 0", errs.ErrBadKeyframeTable, ki[0])
	}

	for i, frame := range ki {
		if frame >= totalFrames {
			return fmt.Errorf("%w: keyframe %d out of range (total %d)", errs.ErrBadKeyframeTable, frame, totalFrames)
		}
		if i > 0 && frame <= ki[i-1] {
			return fmt.Errorf("%w: keyframes %d and %d not strictly ascending", errs.ErrBadKeyframeTable, ki[i-1], frame)
		}
	}

	return nil
}

// Previous returns the greatest keyframe <= target by binary search.
// The table must be valid and non-empty; target must be < totalFrames,
// so the search always finds at least frame 0.
func (ki KeyframeIndex) Previous(target uint32) uint32 {
	// First index with keyframe > target; the one before it is the answer.
	i := sort.Search(len(ki), func(i int) bool { return ki[i] > target })

	return ki[i-1]
}

// Contains reports whether frame is a keyframe.
func (ki KeyframeIndex) Contains(frame uint32) bool {
	i := sort.Search(len(ki), func(i int) bool { return ki[i] >= frame })

	return i < len(ki) && ki[i] == frame
}

// EncodedSize returns the on-disk size of the table.
func (ki KeyframeIndex) EncodedSize() int {
	return KeyframeCountSize + len(ki)*KeyframeEntrySize
}
