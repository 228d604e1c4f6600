package compress

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/nebulafx/nbl/errs"
)

// MaxFrameSize is the safety ceiling on the decompressed size of a single
// frame chunk. A 256MiB I-Frame would hold over 11 million particles, far
// beyond anything a playback target can draw, so anything larger is treated
// as corrupt or hostile input.
const MaxFrameSize = 256 << 20

// Zstd compression levels for frame chunks, in standard zstd terms (1-22).
const (
	DefaultZstdLevel = 3
	MinZstdLevel     = 1
	MaxZstdLevel     = 22
)

// zstdMagic is the little-endian Zstandard frame magic 0xFD2FB528.
var zstdMagic = [4]byte{0x28, 0xB5, 0x2F, 0xFD}

var frameCodec = NewZstdCompressor()

// CompressFrame compresses one frame chunk (5-byte frame header plus SoA
// payload) in a single shot at DefaultZstdLevel.
//
// The caller must pass the concatenated header and payload; compressing the
// two separately would produce two Zstd frames and break decoders.
func CompressFrame(raw []byte) ([]byte, error) {
	return CompressFrameLevel(raw, DefaultZstdLevel)
}

// CompressFrameLevel is CompressFrame at an explicit zstd level (1-22).
// Higher levels trade encode time for smaller chunks; the output is a
// standard Zstd frame at any level.
func CompressFrameLevel(raw []byte, level int) ([]byte, error) {
	if level < MinZstdLevel || level > MaxZstdLevel {
		return nil, fmt.Errorf("invalid zstd level %d", level)
	}

	compressed, err := frameCodec.CompressLevel(raw, level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrBadCompression, err)
	}

	return compressed, nil
}

// DecompressFrame decompresses one frame chunk in a single shot.
//
// Input that does not begin with the Zstandard magic number fails with
// errs.ErrBadCompression before any decoding work. Chunks whose declared or
// actual decompressed size exceeds MaxFrameSize fail with
// errs.ErrFrameTooLarge.
func DecompressFrame(data []byte) ([]byte, error) {
	if len(data) < 4 || [4]byte(data[:4]) != zstdMagic {
		return nil, fmt.Errorf("%w: missing zstd magic", errs.ErrBadCompression)
	}

	// Reject oversized chunks from the frame header alone when the content
	// size is declared, before allocating anything.
	var hdr zstd.Header
	if err := hdr.Decode(data); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrBadCompression, err)
	}
	if hdr.HasFCS && hdr.FrameContentSize > MaxFrameSize {
		return nil, fmt.Errorf("%w: declared size %d exceeds %d",
			errs.ErrFrameTooLarge, hdr.FrameContentSize, MaxFrameSize)
	}

	raw, err := frameCodec.Decompress(data)
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
		return nil, fmt.Errorf("%w: %w", errs.ErrFrameTooLarge, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrBadCompression, err)
	}
	if len(raw) > MaxFrameSize {
		return nil, fmt.Errorf("%w: decompressed size %d exceeds %d",
			errs.ErrFrameTooLarge, len(raw), MaxFrameSize)
	}

	return raw, nil
}
