package section

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nebulafx/nbl/errs"
	"github.com/stretchr/testify/require"
)

func TestNewFileHeader(t *testing.T) {
	header := NewFileHeader(30)

	require.Equal(t, uint16(SupportedVersion), header.Version)
	require.Equal(t, uint16(30), header.TargetFPS)
	require.Equal(t, uint16(RequiredAttributes), header.Attributes)
	require.Equal(t, uint32(0), header.TotalFrames)
}

func TestFileHeader_RoundTrip(t *testing.T) {
	original := NewFileHeader(60)
	original.TotalFrames = 1800
	original.TextureCount = 3
	original.BBoxMin = mgl32.Vec3{-10.5, 0, -3.25}
	original.BBoxMax = mgl32.Vec3{12, 64.5, 8}

	data := original.Bytes()
	require.Len(t, data, HeaderSize)

	parsed, err := ParseFileHeader(data)
	require.NoError(t, err)
	require.Equal(t, *original, parsed)
}

func TestFileHeader_Parse(t *testing.T) {
	valid := func() []byte {
		h := NewFileHeader(30)
		h.TotalFrames = 10
		return h.Bytes()
	}

	t.Run("Truncated", func(t *testing.T) {
		_, err := ParseFileHeader(valid()[:20])
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("Bad magic", func(t *testing.T) {
		data := valid()
		data[0] = 'X'
		_, err := ParseFileHeader(data)
		require.ErrorIs(t, err, errs.ErrBadMagic)
	})

	t.Run("Unsupported version", func(t *testing.T) {
		data := valid()
		data[VersionOffset] = 2
		_, err := ParseFileHeader(data)
		require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
	})

	t.Run("Unsupported attributes", func(t *testing.T) {
		data := valid()
		data[AttributesOffset] = 0x01
		_, err := ParseFileHeader(data)
		require.ErrorIs(t, err, errs.ErrUnsupportedAttributes)
	})

	t.Run("Nonzero reserved bytes", func(t *testing.T) {
		data := valid()
		data[ReservedOffset+2] = 0x01
		_, err := ParseFileHeader(data)
		require.ErrorIs(t, err, errs.ErrMalformedHeader)
	})

	t.Run("Inverted bbox", func(t *testing.T) {
		h := NewFileHeader(30)
		h.BBoxMin = mgl32.Vec3{5, 0, 0}
		h.BBoxMax = mgl32.Vec3{1, 0, 0}
		_, err := ParseFileHeader(h.Bytes())
		require.ErrorIs(t, err, errs.ErrMalformedHeader)
	})
}

func TestFileHeader_MagicBytes(t *testing.T) {
	data := NewFileHeader(30).Bytes()
	require.Equal(t, []byte("NEBULAFX"), data[:MagicSize])
}
