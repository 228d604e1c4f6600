package encoding

import (
	"testing"

	"github.com/nebulafx/nbl/cursor"
	"github.com/nebulafx/nbl/errs"
	"github.com/nebulafx/nbl/format"
	"github.com/stretchr/testify/require"
)

func sampleFrame() *Frame {
	return &Frame{
		X:      []float32{1.0, -2.5},
		Y:      []float32{2.0, 0},
		Z:      []float32{3.0, 100.125},
		R:      []uint8{255, 0},
		G:      []uint8{128, 10},
		B:      []uint8{64, 20},
		A:      []uint8{255, 200},
		Size:   []uint16{100, 65535},
		TexID:  []uint8{0, 3},
		SeqIdx: []uint8{0, 15},
		ID:     []int32{42, -7},
	}
}

func sampleDeltaFrame() *DeltaFrame {
	return &DeltaFrame{
		DX:      []int16{1500, -32768},
		DY:      []int16{0, 32767},
		DZ:      []int16{-250, 1},
		DR:      []int8{-10, 127},
		DG:      []int8{0, -128},
		DB:      []int8{5, 0},
		DA:      []int8{0, -1},
		DSize:   []int16{0, 50},
		DTexID:  []int8{0, 1},
		DSeqIdx: []int8{1, -2},
		ID:      []int32{42, 7},
	}
}

func TestIFrame_RoundTrip(t *testing.T) {
	original := sampleFrame()

	w := cursor.NewWriter()
	defer w.Release()
	AppendIFrame(w, original)
	require.Len(t, w.Bytes(), FrameHeaderSize+2*IFrameStride)

	frameType, count, payload, err := ParseChunkHeader(w.Bytes())
	require.NoError(t, err)
	require.Equal(t, format.FrameTypeI, frameType)
	require.Equal(t, 2, count)

	decoded := DecodeIFrame(payload, count)
	require.Equal(t, original, decoded)
}

func TestIFrame_ColumnLayout(t *testing.T) {
	// One particle: the payload is strict SoA with no padding, columns in
	// X Y Z R G B A Size TexID SeqIdx ID order.
	f := &Frame{
		X:      []float32{1.0},
		Y:      []float32{2.0},
		Z:      []float32{3.0},
		R:      []uint8{0x11},
		G:      []uint8{0x22},
		B:      []uint8{0x33},
		A:      []uint8{0x44},
		Size:   []uint16{0x0100},
		TexID:  []uint8{0x05},
		SeqIdx: []uint8{0x06},
		ID:     []int32{42},
	}

	w := cursor.NewWriter()
	defer w.Release()
	AppendIFrame(w, f)

	want := []byte{
		0x00,                   // FrameType
		0x01, 0x00, 0x00, 0x00, // ParticleCount
		0x00, 0x00, 0x80, 0x3F, // X = 1.0
		0x00, 0x00, 0x00, 0x40, // Y = 2.0
		0x00, 0x00, 0x40, 0x40, // Z = 3.0
		0x11, 0x22, 0x33, 0x44, // R G B A
		0x00, 0x01, // Size
		0x05,                   // TexID
		0x06,                   // SeqIdx
		0x2A, 0x00, 0x00, 0x00, // ID = 42
	}
	require.Equal(t, want, w.Bytes())
}

func TestPFrame_RoundTrip(t *testing.T) {
	original := sampleDeltaFrame()

	w := cursor.NewWriter()
	defer w.Release()
	AppendPFrame(w, original)
	require.Len(t, w.Bytes(), FrameHeaderSize+2*PFrameStride)

	frameType, count, payload, err := ParseChunkHeader(w.Bytes())
	require.NoError(t, err)
	require.Equal(t, format.FrameTypeP, frameType)
	require.Equal(t, 2, count)

	decoded := DecodePFrame(payload, count)
	require.Equal(t, original, decoded)
}

func TestParseChunkHeader_Errors(t *testing.T) {
	t.Run("Truncated header", func(t *testing.T) {
		_, _, _, err := ParseChunkHeader([]byte{0x00, 0x01})
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("Unknown frame type", func(t *testing.T) {
		_, _, _, err := ParseChunkHeader([]byte{0x02, 0x00, 0x00, 0x00, 0x00})
		require.ErrorIs(t, err, errs.ErrUnknownFrameType)
	})

	t.Run("I-Frame payload size mismatch", func(t *testing.T) {
		raw := make([]byte, FrameHeaderSize+IFrameStride-1)
		raw[0] = 0x00
		raw[1] = 0x01 // count = 1, payload one byte short
		_, _, _, err := ParseChunkHeader(raw)
		require.ErrorIs(t, err, errs.ErrPayloadSizeMismatch)
	})

	t.Run("P-Frame payload size mismatch", func(t *testing.T) {
		raw := make([]byte, FrameHeaderSize+PFrameStride+1)
		raw[0] = 0x01
		raw[1] = 0x01 // count = 1, payload one byte long
		_, _, _, err := ParseChunkHeader(raw)
		require.ErrorIs(t, err, errs.ErrPayloadSizeMismatch)
	})

	t.Run("Empty frame", func(t *testing.T) {
		frameType, count, payload, err := ParseChunkHeader([]byte{0x00, 0x00, 0x00, 0x00, 0x00})
		require.NoError(t, err)
		require.Equal(t, format.FrameTypeI, frameType)
		require.Equal(t, 0, count)
		require.Empty(t, payload)
	})
}

func TestQuantizePos(t *testing.T) {
	t.Run("Exact values", func(t *testing.T) {
		q, ok := QuantizePos(1.5)
		require.True(t, ok)
		require.Equal(t, int16(1500), q)

		q, ok = QuantizePos(-0.25)
		require.True(t, ok)
		require.Equal(t, int16(-250), q)
	})

	t.Run("Round half to even", func(t *testing.T) {
		// 0.0625 and 0.1875 are exact in float32, so the scaled values are
		// exactly 62.5 and 187.5.
		q, ok := QuantizePos(0.0625)
		require.True(t, ok)
		require.Equal(t, int16(62), q)

		q, ok = QuantizePos(0.1875)
		require.True(t, ok)
		require.Equal(t, int16(188), q)
	})

	t.Run("Range boundary", func(t *testing.T) {
		q, ok := QuantizePos(32.767)
		require.True(t, ok)
		require.Equal(t, int16(32767), q)

		_, ok = QuantizePos(32.768)
		require.False(t, ok)

		_, ok = QuantizePos(-32.769)
		require.False(t, ok)
	})

	t.Run("Inverse", func(t *testing.T) {
		require.InDelta(t, 1.5, DequantizePos(1500), 1e-6)
		// float32 spacing near 32.767 is about 3.8e-6, so the nearest
		// float32 lies within half of that.
		require.InDelta(t, -32.767, DequantizePos(-32767), 2e-6)
	})
}

func TestQuantizeSizeValue(t *testing.T) {
	require.Equal(t, uint16(100), QuantizeSizeValue(1.0))
	require.Equal(t, uint16(0), QuantizeSizeValue(-3.0))
	require.Equal(t, uint16(65535), QuantizeSizeValue(1e6))
	require.InDelta(t, 1.0, DequantizeSizeValue(100), 1e-6)
}
