package cursor

import (
	"testing"

	"github.com/nebulafx/nbl/errs"
	"github.com/stretchr/testify/require"
)

func TestReader_FixedWidth(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.PutUint8(0xAB)
	w.PutUint16(0x1234)
	w.PutUint32(0xDEADBEEF)
	w.PutUint64(0x0102030405060708)
	w.PutInt8(-5)
	w.PutInt16(-32768)
	w.PutInt32(-123456)
	w.PutInt64(-1)
	w.PutFloat32(1.5)

	r := NewReader(w.Bytes())

	u8, err := r.Uint8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), u8)

	u16, err := r.Uint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)

	u32, err := r.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := r.Uint64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)

	i8, err := r.Int8()
	require.NoError(t, err)
	require.Equal(t, int8(-5), i8)

	i16, err := r.Int16()
	require.NoError(t, err)
	require.Equal(t, int16(-32768), i16)

	i32, err := r.Int32()
	require.NoError(t, err)
	require.Equal(t, int32(-123456), i32)

	i64, err := r.Int64()
	require.NoError(t, err)
	require.Equal(t, int64(-1), i64)

	f32, err := r.Float32()
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f32)

	require.Equal(t, 0, r.Remaining())
}

func TestReader_LittleEndianLayout(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.PutUint32(0x04030201)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, w.Bytes())
}

func TestReader_Truncated(t *testing.T) {
	t.Run("Empty buffer", func(t *testing.T) {
		r := NewReader(nil)
		_, err := r.Uint8()
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("Partial value", func(t *testing.T) {
		r := NewReader([]byte{0x01, 0x02})
		_, err := r.Uint32()
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("Cursor position preserved on failure", func(t *testing.T) {
		r := NewReader([]byte{0x01, 0x02})
		_, err := r.Uint32()
		require.Error(t, err)
		require.Equal(t, 0, r.Pos())

		v, err := r.Uint16()
		require.NoError(t, err)
		require.Equal(t, uint16(0x0201), v)
	})
}

func TestReader_String(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		w := NewWriter()
		defer w.Release()
		require.NoError(t, w.PutString("minecraft:textures/particle/flame.png"))

		r := NewReader(w.Bytes())
		s, err := r.String()
		require.NoError(t, err)
		require.Equal(t, "minecraft:textures/particle/flame.png", s)
	})

	t.Run("Empty string", func(t *testing.T) {
		w := NewWriter()
		defer w.Release()
		require.NoError(t, w.PutString(""))
		require.Equal(t, []byte{0x00, 0x00}, w.Bytes())

		r := NewReader(w.Bytes())
		s, err := r.String()
		require.NoError(t, err)
		require.Empty(t, s)
	})

	t.Run("UTF-8 multibyte", func(t *testing.T) {
		w := NewWriter()
		defer w.Release()
		require.NoError(t, w.PutString("粒子/火焰.png"))

		r := NewReader(w.Bytes())
		s, err := r.String()
		require.NoError(t, err)
		require.Equal(t, "粒子/火焰.png", s)
	})

	t.Run("Invalid UTF-8", func(t *testing.T) {
		r := NewReader([]byte{0x02, 0x00, 0xFF, 0xFE})
		_, err := r.String()
		require.ErrorIs(t, err, errs.ErrInvalidUTF8)
	})

	t.Run("Length prefix past end", func(t *testing.T) {
		r := NewReader([]byte{0x05, 0x00, 'a', 'b'})
		_, err := r.String()
		require.ErrorIs(t, err, errs.ErrTruncated)
	})
}

func TestReader_SkipAndBytes(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4, 5})

	require.NoError(t, r.Skip(2))
	require.Equal(t, 2, r.Pos())

	b, err := r.Bytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4}, b)

	require.ErrorIs(t, r.Skip(2), errs.ErrTruncated)
}
