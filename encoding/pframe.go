package encoding

import (
	"github.com/nebulafx/nbl/cursor"
	"github.com/nebulafx/nbl/endian"
	"github.com/nebulafx/nbl/format"
)

// AppendPFrame appends the complete P-Frame chunk (frame header plus SoA
// delta payload) for the given columns to w.
func AppendPFrame(w *cursor.Writer, d *DeltaFrame) {
	n := d.Len()
	w.Grow(FrameHeaderSize + n*PFrameStride)

	w.PutUint8(uint8(format.FrameTypeP))
	w.PutUint32(uint32(n)) //nolint:gosec

	for _, v := range d.DX {
		w.PutInt16(v)
	}
	for _, v := range d.DY {
		w.PutInt16(v)
	}
	for _, v := range d.DZ {
		w.PutInt16(v)
	}

	appendInt8Column(w, d.DR)
	appendInt8Column(w, d.DG)
	appendInt8Column(w, d.DB)
	appendInt8Column(w, d.DA)

	for _, v := range d.DSize {
		w.PutInt16(v)
	}

	appendInt8Column(w, d.DTexID)
	appendInt8Column(w, d.DSeqIdx)

	for _, v := range d.ID {
		w.PutInt32(v)
	}
}

func appendInt8Column(w *cursor.Writer, col []int8) {
	for _, v := range col {
		w.PutInt8(v)
	}
}

// DecodePFrame parses a P-Frame payload of count particles into delta columns.
//
// The payload length must already be verified by ParseChunkHeader.
func DecodePFrame(payload []byte, count int) *DeltaFrame {
	engine := endian.GetLittleEndianEngine()

	d := &DeltaFrame{
		DX:      make([]int16, count),
		DY:      make([]int16, count),
		DZ:      make([]int16, count),
		DR:      make([]int8, count),
		DG:      make([]int8, count),
		DB:      make([]int8, count),
		DA:      make([]int8, count),
		DSize:   make([]int16, count),
		DTexID:  make([]int8, count),
		DSeqIdx: make([]int8, count),
		ID:      make([]int32, count),
	}

	off := 0
	for i := 0; i < count; i++ {
		d.DX[i] = int16(engine.Uint16(payload[off+2*i:]))
	}
	off += 2 * count
	for i := 0; i < count; i++ {
		d.DY[i] = int16(engine.Uint16(payload[off+2*i:]))
	}
	off += 2 * count
	for i := 0; i < count; i++ {
		d.DZ[i] = int16(engine.Uint16(payload[off+2*i:]))
	}
	off += 2 * count

	decodeInt8Column(d.DR, payload[off:])
	off += count
	decodeInt8Column(d.DG, payload[off:])
	off += count
	decodeInt8Column(d.DB, payload[off:])
	off += count
	decodeInt8Column(d.DA, payload[off:])
	off += count

	for i := 0; i < count; i++ {
		d.DSize[i] = int16(engine.Uint16(payload[off+2*i:]))
	}
	off += 2 * count

	decodeInt8Column(d.DTexID, payload[off:])
	off += count
	decodeInt8Column(d.DSeqIdx, payload[off:])
	off += count

	for i := 0; i < count; i++ {
		d.ID[i] = int32(engine.Uint32(payload[off+4*i:]))
	}

	return d
}

func decodeInt8Column(dst []int8, src []byte) {
	for i := range dst {
		dst[i] = int8(src[i])
	}
}
