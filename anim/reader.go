package anim

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/nebulafx/nbl/compress"
	"github.com/nebulafx/nbl/cursor"
	"github.com/nebulafx/nbl/encoding"
	"github.com/nebulafx/nbl/endian"
	"github.com/nebulafx/nbl/errs"
	"github.com/nebulafx/nbl/format"
	"github.com/nebulafx/nbl/internal/hash"
	"github.com/nebulafx/nbl/internal/pool"
	"github.com/nebulafx/nbl/section"
)

// Reader provides random-access playback over one NBL container.
//
// The header, texture block, and both index tables are parsed eagerly at
// open; chunk data is read on demand. The Reader owns its live set and a
// scratch buffer sized to the largest compressed chunk, so it is NOT safe
// for concurrent use. Callers may open independent Readers over the same
// source to parallelize across animations.
type Reader struct {
	src  io.ReaderAt
	size int64

	header    section.FileHeader
	textures  []section.TextureEntry
	texByPath map[uint64]int

	frameIndex section.FrameIndex
	keyframes  section.KeyframeIndex
	dataStart  uint64

	live         *LiveSet
	currentFrame int64 // -1 before the first seek
	scratch      *pool.ByteBuffer
}

// Open parses the metadata region of the container and validates every
// open-time invariant.
//
// Parameters:
//   - src: Byte source; the Reader keeps it for the lifetime of playback
//   - size: Total size of the container in bytes
//
// Returns:
//   - *Reader: Reader positioned before frame 0
//   - error: Any §7 metadata error, or the underlying I/O error
func Open(src io.ReaderAt, size int64) (*Reader, error) {
	br := bufio.NewReaderSize(io.NewSectionReader(src, 0, size), 64<<10)
	engine := endian.GetLittleEndianEngine()

	hdrBuf := make([]byte, section.HeaderSize)
	if err := readFull(br, hdrBuf); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header, err := section.ParseFileHeader(hdrBuf)
	if err != nil {
		return nil, err
	}

	pos := uint64(section.HeaderSize)

	// Texture block entries are variable length; slurp them entry by entry
	// so the section codec can parse from a contiguous buffer.
	var texBuf []byte
	for i := 0; i < int(header.TextureCount); i++ {
		var lenBuf [2]byte
		if err := readFull(br, lenBuf[:]); err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		pathLen := engine.Uint16(lenBuf[:])

		entry := make([]byte, int(pathLen)+2)
		if err := readFull(br, entry); err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		texBuf = append(texBuf, lenBuf[:]...)
		texBuf = append(texBuf, entry...)
	}
	textures, err := section.ReadTextureBlock(cursor.NewReader(texBuf), int(header.TextureCount))
	if err != nil {
		return nil, err
	}
	pos += uint64(len(texBuf))

	fiBuf := make([]byte, int(header.TotalFrames)*section.FrameIndexEntrySize)
	if err := readFull(br, fiBuf); err != nil {
		return nil, fmt.Errorf("read frame index: %w", err)
	}
	frameIndex, err := section.ReadFrameIndex(cursor.NewReader(fiBuf), int(header.TotalFrames))
	if err != nil {
		return nil, err
	}
	pos += uint64(len(fiBuf))

	var countBuf [4]byte
	if err := readFull(br, countBuf[:]); err != nil {
		return nil, fmt.Errorf("read keyframe count: %w", err)
	}
	kfCount := engine.Uint32(countBuf[:])
	kfBuf := make([]byte, 4+int(kfCount)*section.KeyframeEntrySize)
	copy(kfBuf, countBuf[:])
	if err := readFull(br, kfBuf[4:]); err != nil {
		return nil, fmt.Errorf("read keyframe index: %w", err)
	}
	keyframes, err := section.ReadKeyframeIndex(cursor.NewReader(kfBuf), header.TotalFrames)
	if err != nil {
		return nil, err
	}
	pos += uint64(len(kfBuf))

	if err := frameIndex.Validate(pos, uint64(size)); err != nil { //nolint:gosec
		return nil, err
	}

	texByPath := make(map[uint64]int, len(textures))
	for i, tex := range textures {
		texByPath[hash.ID(tex.Path)] = i
	}

	// One pooled scratch buffer, sized once to the largest compressed
	// chunk, serves every read for the lifetime of the reader.
	scratch := pool.GetScratchBuffer()
	scratch.Grow(int(frameIndex.MaxChunkSize()))

	return &Reader{
		src:          src,
		size:         size,
		header:       header,
		textures:     textures,
		texByPath:    texByPath,
		frameIndex:   frameIndex,
		keyframes:    keyframes,
		dataStart:    pos,
		live:         NewLiveSet(),
		currentFrame: -1,
		scratch:      scratch,
	}, nil
}

// Close returns the reader's pooled buffers. The Reader must not be used
// afterwards; the underlying source stays open and is the caller's to
// close.
func (r *Reader) Close() {
	if r.scratch != nil {
		pool.PutScratchBuffer(r.scratch)
		r.scratch = nil
	}
}

func readFull(r io.Reader, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: need %d bytes", errs.ErrTruncated, len(buf))
		}

		return err
	}

	return nil
}

// Header returns the parsed file header.
func (r *Reader) Header() section.FileHeader {
	return r.header
}

// Textures returns the texture block entries.
func (r *Reader) Textures() []section.TextureEntry {
	return r.textures
}

// TextureByPath returns the index of the texture with the given path.
func (r *Reader) TextureByPath(path string) (int, bool) {
	i, ok := r.texByPath[hash.ID(path)]
	if !ok || r.textures[i].Path != path {
		return 0, false
	}

	return i, true
}

// TotalFrames returns the number of frames in the animation.
func (r *Reader) TotalFrames() uint32 {
	return r.header.TotalFrames
}

// Keyframes returns the keyframe index table.
func (r *Reader) Keyframes() section.KeyframeIndex {
	return r.keyframes
}

// CurrentFrame returns the frame the live set reflects, or -1 before the
// first seek.
func (r *Reader) CurrentFrame() int64 {
	return r.currentFrame
}

// Seek materializes the live set at the target frame.
//
// It finds the greatest keyframe at or before the target by binary search,
// loads that I-Frame, and applies the P-Frames up to the target. Seeking to
// the frame after the current one applies a single chunk; seeking backward
// always re-seeks from the keyframe (P-Frames are not invertible).
//
// The context is consulted between frames; cancellation surfaces
// errs.ErrCancelled and leaves the live set mid-walk, so the next call must
// be a fresh Seek.
//
// Returns:
//   - *LiveSet: The reader-owned live set, valid until the next call
//   - error: Any §7 chunk error wrapped with the offending frame index
func (r *Reader) Seek(ctx context.Context, target uint32) (*LiveSet, error) {
	if target >= r.header.TotalFrames {
		return nil, fmt.Errorf("frame %d out of range (total %d)", target, r.header.TotalFrames)
	}

	if r.currentFrame >= 0 && int64(target) == r.currentFrame {
		return r.live, nil
	}

	// One-chunk fast path: the next frame in display order.
	if r.currentFrame >= 0 && int64(target) == r.currentFrame+1 {
		if err := r.applyFrame(target, false); err != nil {
			r.currentFrame = -1
			return nil, err
		}
		r.currentFrame = int64(target)

		return r.live, nil
	}

	start := r.keyframes.Previous(target)
	r.live = NewLiveSet()
	for f := start; f <= target; f++ {
		if err := ctx.Err(); err != nil {
			r.currentFrame = -1
			return nil, fmt.Errorf("frame %d: %w", f, errs.ErrCancelled)
		}
		if err := r.applyFrame(f, f == start); err != nil {
			r.currentFrame = -1
			return nil, err
		}
	}
	r.currentFrame = int64(target)

	return r.live, nil
}

// StepForward advances playback by exactly one frame.
func (r *Reader) StepForward(ctx context.Context) (*LiveSet, error) {
	if r.currentFrame < 0 {
		return r.Seek(ctx, 0)
	}
	next := r.currentFrame + 1
	if next >= int64(r.header.TotalFrames) {
		return nil, fmt.Errorf("frame %d out of range (total %d)", next, r.header.TotalFrames)
	}

	return r.Seek(ctx, uint32(next))
}

// applyFrame reads, decompresses, and applies one chunk to the live set.
// mustBeIFrame is set when the chunk is the keyframe a seek starts from.
func (r *Reader) applyFrame(frame uint32, mustBeIFrame bool) error {
	entry := r.frameIndex[frame]

	r.scratch.SetLength(int(entry.ChunkSize))
	buf := r.scratch.Bytes()
	if _, err := r.src.ReadAt(buf, int64(entry.ChunkOffset)); err != nil { //nolint:gosec
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("frame %d: %w", frame, errs.ErrTruncated)
		}

		return fmt.Errorf("frame %d: %w", frame, err)
	}

	raw, err := compress.DecompressFrame(buf)
	if err != nil {
		return fmt.Errorf("frame %d: %w", frame, err)
	}

	frameType, count, payload, err := encoding.ParseChunkHeader(raw)
	if err != nil {
		return fmt.Errorf("frame %d: %w", frame, err)
	}

	switch frameType {
	case format.FrameTypeI:
		if err := r.live.replaceWithIFrame(encoding.DecodeIFrame(payload, count)); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
	case format.FrameTypeP:
		if mustBeIFrame {
			return fmt.Errorf("frame %d: %w: keyframe chunk is a P-Frame", frame, errs.ErrBadKeyframeTable)
		}
		if err := r.live.applyPFrame(encoding.DecodePFrame(payload, count)); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
	}

	return nil
}
