// Package errs defines the sentinel errors shared across the nbl codec.
//
// Every error kind the codec can surface is a distinct sentinel so that
// callers can discriminate with errors.Is. Call sites wrap these with
// fmt.Errorf("...: %w", ...) to attach context such as the offending
// frame index; the sentinel stays matchable through the wrap.
package errs

import "errors"

// Container and metadata errors, detected at open time or while
// parsing the metadata region.
var (
	// ErrTruncated indicates fewer bytes remained than a read required.
	ErrTruncated = errors.New("truncated data")

	// ErrBadMagic indicates the file does not start with the NEBULAFX magic.
	ErrBadMagic = errors.New("bad magic")

	// ErrUnsupportedVersion indicates a container version other than 1.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrUnsupportedAttributes indicates an attributes bitmask other than 0x03.
	ErrUnsupportedAttributes = errors.New("unsupported attributes")

	// ErrMalformedHeader indicates nonzero reserved bytes or an invalid
	// bounding box in the file header.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrMalformedTexture indicates a texture entry with zero rows or columns.
	ErrMalformedTexture = errors.New("malformed texture entry")

	// ErrBadIndex indicates frame index entries that overlap, escape the
	// file, or point into the metadata region.
	ErrBadIndex = errors.New("bad frame index")

	// ErrBadKeyframeTable indicates a keyframe table that is non-ascending,
	// out of range, or missing frame 0.
	ErrBadKeyframeTable = errors.New("bad keyframe table")

	// ErrInvalidUTF8 indicates a length-prefixed string whose bytes are not
	// well-formed UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8 string")
)

// Chunk and payload errors, reported with the offending frame index.
var (
	// ErrBadCompression indicates chunk data that is not a valid Zstd frame.
	ErrBadCompression = errors.New("bad compression")

	// ErrFrameTooLarge indicates a chunk whose decompressed size exceeds
	// the safety ceiling.
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrPayloadSizeMismatch indicates a frame payload whose length does not
	// match the particle count and frame type.
	ErrPayloadSizeMismatch = errors.New("payload size mismatch")

	// ErrUnknownFrameType indicates a frame type byte other than 0 or 1.
	ErrUnknownFrameType = errors.New("unknown frame type")

	// ErrDuplicateParticleID indicates the same particle ID appearing twice
	// within one frame's ID column.
	ErrDuplicateParticleID = errors.New("duplicate particle id")
)

// Encoder and operational errors.
var (
	// ErrDeltaOverflow indicates a quantized delta outside its stored width
	// while automatic keyframe injection is disabled.
	ErrDeltaOverflow = errors.New("delta overflow")

	// ErrCancelled indicates the operation's context was cancelled between
	// frames. Partial outputs are invalid.
	ErrCancelled = errors.New("operation cancelled")

	// ErrWriterFinished indicates use of a writer after Finish.
	ErrWriterFinished = errors.New("writer already finished")

	// ErrWriterInvalid indicates use of a writer after a failed PushFrame;
	// the partial output must be discarded.
	ErrWriterInvalid = errors.New("writer in invalid state")

	// ErrFrameCountMismatch indicates a declared-capacity writer finishing
	// with a different number of frames than the header declared.
	ErrFrameCountMismatch = errors.New("frame count mismatch")
)
