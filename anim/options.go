package anim

import (
	"fmt"

	"github.com/nebulafx/nbl/compress"
	"github.com/nebulafx/nbl/format"
	"github.com/nebulafx/nbl/internal/options"
)

// DefaultMaxGOP is the default maximum GOP length: at most this many frames
// between forced keyframes.
const DefaultMaxGOP = 60

// writerConfig holds the encoder policy knobs.
type writerConfig struct {
	maxGOP           int
	autoKey          bool
	zstdLevel        int
	spoolCompression format.CompressionType
}

func defaultWriterConfig() writerConfig {
	return writerConfig{
		maxGOP:           DefaultMaxGOP,
		autoKey:          true,
		zstdLevel:        compress.DefaultZstdLevel,
		spoolCompression: format.CompressionNone,
	}
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*writerConfig]

// WithMaxGOP sets the maximum GOP length: an I-Frame is forced once this
// many frames have been emitted since the last keyframe. Zero disables the
// cadence limit entirely (keyframes then come only from hints and
// overflowing deltas).
func WithMaxGOP(frames int) WriterOption {
	return options.New(func(cfg *writerConfig) error {
		if frames < 0 {
			return fmt.Errorf("invalid max GOP length %d", frames)
		}
		cfg.maxGOP = frames

		return nil
	})
}

// WithoutAutoKeyframes disables automatic keyframe injection on
// non-representable deltas. PushFrame then fails with ErrDeltaOverflow
// instead of silently switching to an I-Frame, which is useful for
// pipelines that must control keyframe placement exactly.
func WithoutAutoKeyframes() WriterOption {
	return options.NoError(func(cfg *writerConfig) {
		cfg.autoKey = false
	})
}

// WithZstdLevel sets the Zstd compression level (1-22) for frame chunks.
// Higher levels shrink the container at the cost of encode time; playback
// is unaffected since any level decodes the same way.
func WithZstdLevel(level int) WriterOption {
	return options.New(func(cfg *writerConfig) error {
		if level < compress.MinZstdLevel || level > compress.MaxZstdLevel {
			return fmt.Errorf("invalid zstd level %d", level)
		}
		cfg.zstdLevel = level

		return nil
	})
}

// WithSpoolCompression selects the codec for the temp-file chunk spool used
// by CreateBuffered. The spooled chunks are already Zstd frames, so the
// default is None; S2 or LZ4 trade a little CPU for spool disk space.
//
// This setting never affects the container itself.
func WithSpoolCompression(c format.CompressionType) WriterOption {
	return options.New(func(cfg *writerConfig) error {
		switch c {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			cfg.spoolCompression = c
		default:
			return fmt.Errorf("invalid spool compression: %s", c)
		}

		return nil
	})
}
