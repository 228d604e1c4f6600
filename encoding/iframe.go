package encoding

import (
	"math"

	"github.com/nebulafx/nbl/cursor"
	"github.com/nebulafx/nbl/endian"
	"github.com/nebulafx/nbl/format"
)

// AppendIFrame appends the complete I-Frame chunk (frame header plus SoA
// payload) for the given columns to w. The result is what gets handed to
// the chunk compressor in one piece.
func AppendIFrame(w *cursor.Writer, f *Frame) {
	n := f.Len()
	w.Grow(FrameHeaderSize + n*IFrameStride)

	w.PutUint8(uint8(format.FrameTypeI))
	w.PutUint32(uint32(n)) //nolint:gosec

	for _, v := range f.X {
		w.PutFloat32(v)
	}
	for _, v := range f.Y {
		w.PutFloat32(v)
	}
	for _, v := range f.Z {
		w.PutFloat32(v)
	}

	w.PutBytes(f.R)
	w.PutBytes(f.G)
	w.PutBytes(f.B)
	w.PutBytes(f.A)

	for _, v := range f.Size {
		w.PutUint16(v)
	}

	w.PutBytes(f.TexID)
	w.PutBytes(f.SeqIdx)

	for _, v := range f.ID {
		w.PutInt32(v)
	}
}

// DecodeIFrame parses an I-Frame payload of count particles into columns.
//
// The payload length must already be verified by ParseChunkHeader; column
// slices alias freshly allocated memory, not the payload.
func DecodeIFrame(payload []byte, count int) *Frame {
	engine := endian.GetLittleEndianEngine()

	f := &Frame{
		X:      make([]float32, count),
		Y:      make([]float32, count),
		Z:      make([]float32, count),
		R:      make([]uint8, count),
		G:      make([]uint8, count),
		B:      make([]uint8, count),
		A:      make([]uint8, count),
		Size:   make([]uint16, count),
		TexID:  make([]uint8, count),
		SeqIdx: make([]uint8, count),
		ID:     make([]int32, count),
	}

	off := 0
	for i := 0; i < count; i++ {
		f.X[i] = math.Float32frombits(engine.Uint32(payload[off+4*i:]))
	}
	off += 4 * count
	for i := 0; i < count; i++ {
		f.Y[i] = math.Float32frombits(engine.Uint32(payload[off+4*i:]))
	}
	off += 4 * count
	for i := 0; i < count; i++ {
		f.Z[i] = math.Float32frombits(engine.Uint32(payload[off+4*i:]))
	}
	off += 4 * count

	copy(f.R, payload[off:off+count])
	off += count
	copy(f.G, payload[off:off+count])
	off += count
	copy(f.B, payload[off:off+count])
	off += count
	copy(f.A, payload[off:off+count])
	off += count

	for i := 0; i < count; i++ {
		f.Size[i] = engine.Uint16(payload[off+2*i:])
	}
	off += 2 * count

	copy(f.TexID, payload[off:off+count])
	off += count
	copy(f.SeqIdx, payload[off:off+count])
	off += count

	for i := 0; i < count; i++ {
		f.ID[i] = int32(engine.Uint32(payload[off+4*i:]))
	}

	return f
}
