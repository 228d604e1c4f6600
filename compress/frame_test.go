package compress

import (
	"bytes"
	"testing"

	"github.com/nebulafx/nbl/errs"
	"github.com/nebulafx/nbl/format"
	"github.com/stretchr/testify/require"
)

func TestCompressFrame_RoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte{0x00, 0x01, 0x02, 0x03, 0x42}, 1000)

	compressed, err := CompressFrame(raw)
	require.NoError(t, err)
	require.NotEmpty(t, compressed)
	require.Less(t, len(compressed), len(raw))

	decompressed, err := DecompressFrame(compressed)
	require.NoError(t, err)
	require.Equal(t, raw, decompressed)
}

func TestCompressFrame_IndependentChunks(t *testing.T) {
	// Every chunk must decode on its own; compress two payloads and decode
	// the second one first.
	first, err := CompressFrame([]byte("first chunk payload"))
	require.NoError(t, err)
	second, err := CompressFrame([]byte("second chunk payload"))
	require.NoError(t, err)

	got, err := DecompressFrame(second)
	require.NoError(t, err)
	require.Equal(t, []byte("second chunk payload"), got)

	got, err = DecompressFrame(first)
	require.NoError(t, err)
	require.Equal(t, []byte("first chunk payload"), got)
}

func TestDecompressFrame_BadInput(t *testing.T) {
	t.Run("Missing magic", func(t *testing.T) {
		_, err := DecompressFrame([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})
		require.ErrorIs(t, err, errs.ErrBadCompression)
	})

	t.Run("Too short for magic", func(t *testing.T) {
		_, err := DecompressFrame([]byte{0x28, 0xB5})
		require.ErrorIs(t, err, errs.ErrBadCompression)
	})

	t.Run("Magic but garbage body", func(t *testing.T) {
		_, err := DecompressFrame([]byte{0x28, 0xB5, 0x2F, 0xFD, 0xFF, 0xFF, 0xFF, 0xFF})
		require.ErrorIs(t, err, errs.ErrBadCompression)
	})
}

func TestZstdCompressor_EmptyInput(t *testing.T) {
	codec := NewZstdCompressor()

	compressed, err := codec.Compress(nil)
	require.NoError(t, err)

	// An empty payload still compresses to a valid frame.
	decompressed, err := DecompressFrame(compressed)
	require.NoError(t, err)
	require.Empty(t, decompressed)
}

func TestCodecRegistry(t *testing.T) {
	payload := bytes.Repeat([]byte("soa column data "), 64)

	types := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
	for _, ct := range types {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, decompressed)
		})
	}

	t.Run("Unknown type", func(t *testing.T) {
		_, err := GetCodec(format.CompressionType(0xFF))
		require.Error(t, err)
	})
}

func TestCreateCodec(t *testing.T) {
	codec, err := CreateCodec(format.CompressionZstd, "spool")
	require.NoError(t, err)
	require.NotNil(t, codec)

	_, err = CreateCodec(format.CompressionType(0x99), "spool")
	require.Error(t, err)
}
