// Package encoding implements the SoA frame payload codec.
//
// Each on-disk chunk decompresses to a 5-byte frame header (u8 frame type,
// u32 particle count) followed by a strict struct-of-arrays payload: every
// attribute is one contiguous little-endian column across all particles, so
// the i-th element of every column describes the same particle. There is no
// padding between columns, which makes payload lengths exact functions of
// the particle count: 24N bytes for an I-Frame, 18N for a P-Frame.
//
// Parsing is a sequence of fixed-stride loops over the columns; particles
// are never materialized as individual objects here.
package encoding

import (
	"fmt"

	"github.com/nebulafx/nbl/cursor"
	"github.com/nebulafx/nbl/errs"
	"github.com/nebulafx/nbl/format"
)

const (
	// FrameHeaderSize is the uncompressed chunk prefix: u8 type + u32 count.
	FrameHeaderSize = 5

	// IFrameStride is the payload bytes per particle in an I-Frame:
	// 12 (pos) + 4 (color) + 2 (size) + 1 (tex) + 1 (seq) + 4 (id).
	IFrameStride = 24

	// PFrameStride is the payload bytes per particle in a P-Frame:
	// 6 (dpos) + 4 (dcolor) + 2 (dsize) + 1 (dtex) + 1 (dseq) + 4 (id).
	PFrameStride = 18
)

// Frame holds one I-Frame's absolute particle state as columns.
// All columns have equal length; row order is the encoder's choice but
// consistent across columns.
type Frame struct {
	X, Y, Z    []float32
	R, G, B, A []uint8
	Size       []uint16
	TexID      []uint8
	SeqIdx     []uint8
	ID         []int32
}

// Len returns the particle count.
func (f *Frame) Len() int {
	return len(f.ID)
}

// DeltaFrame holds one P-Frame's quantized deltas as columns.
// The ID column doubles as lifecycle information: IDs present spawn or
// update, IDs absent despawn.
type DeltaFrame struct {
	DX, DY, DZ     []int16
	DR, DG, DB, DA []int8
	DSize          []int16
	DTexID         []int8
	DSeqIdx        []int8
	ID             []int32
}

// Len returns the particle count.
func (d *DeltaFrame) Len() int {
	return len(d.ID)
}

// ParseChunkHeader splits a decompressed chunk into its frame type, particle
// count, and payload, and verifies the payload length against the type's
// stride.
//
// Returns:
//   - format.FrameType: FrameTypeI or FrameTypeP
//   - int: Particle count N
//   - []byte: Payload (aliases raw)
//   - error: ErrTruncated, ErrUnknownFrameType, or ErrPayloadSizeMismatch
func ParseChunkHeader(raw []byte) (format.FrameType, int, []byte, error) {
	r := cursor.NewReader(raw)

	typeByte, err := r.Uint8()
	if err != nil {
		return 0, 0, nil, err
	}
	count, err := r.Uint32()
	if err != nil {
		return 0, 0, nil, err
	}

	frameType := format.FrameType(typeByte)
	var stride int
	switch frameType {
	case format.FrameTypeI:
		stride = IFrameStride
	case format.FrameTypeP:
		stride = PFrameStride
	default:
		return 0, 0, nil, fmt.Errorf("%w: type byte 0x%02x", errs.ErrUnknownFrameType, typeByte)
	}

	payload := raw[FrameHeaderSize:]
	if len(payload) != int(count)*stride {
		return 0, 0, nil, fmt.Errorf("%w: %s with %d particles needs %d payload bytes, have %d",
			errs.ErrPayloadSizeMismatch, frameType, count, int(count)*stride, len(payload))
	}

	return frameType, int(count), payload, nil
}
