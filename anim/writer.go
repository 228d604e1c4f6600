package anim

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nebulafx/nbl/compress"
	"github.com/nebulafx/nbl/cursor"
	"github.com/nebulafx/nbl/encoding"
	"github.com/nebulafx/nbl/errs"
	"github.com/nebulafx/nbl/internal/options"
	"github.com/nebulafx/nbl/section"
)

// Writer is the streaming encoder: it consumes absolute per-frame particle
// states in order and emits a complete container without buffering the
// animation.
//
// Two modes exist. Create writes straight to an io.WriteSeeker with the
// frame count declared up front; the index tables are reserved at their
// positions and back-patched by Finish. CreateBuffered spools compressed
// chunks to a temp file and assembles the container on Finish, for callers
// that cannot predict the frame count (a transcoder dropping frames).
//
// The Writer owns its sink exclusively and is not thread-safe. A failed
// PushFrame leaves the writer invalid; the partial output must be discarded.
type Writer struct {
	cfg writerConfig

	out      io.WriteSeeker // back-patch mode
	dst      io.Writer      // buffered mode
	spool    *chunkSpool    // buffered mode
	buffered bool

	header   *section.FileHeader
	textures []section.TextureEntry

	frameIndex section.FrameIndex
	keyframes  section.KeyframeIndex

	prev       map[int32]Particle
	frameCount uint32
	gopLen     int

	texBlockSize int
	curOffset    uint64

	bboxMin, bboxMax mgl32.Vec3
	hasBBox          bool

	chunkW *cursor.Writer

	finished bool
	invalid  bool
}

// Create starts a single-pass writer over a seekable sink.
//
// The frame count must be declared up front so the index region can be
// reserved; Finish fails with ErrFrameCountMismatch if a different number
// of frames was pushed. The keyframe table is reserved at its worst case
// (every frame a keyframe); unused reserve bytes stay zero between the
// table and the first chunk.
//
// Parameters:
//   - w: Destination sink, owned by the writer until Finish
//   - targetFPS: Playback rate recorded in the header
//   - totalFrames: Exact number of frames that will be pushed
//   - textures: Texture block entries, written immediately
//   - opts: Encoder policy options
func Create(w io.WriteSeeker, targetFPS uint16, totalFrames uint32, textures []section.TextureEntry, opts ...WriterOption) (*Writer, error) {
	wr, err := newWriter(targetFPS, textures, opts)
	if err != nil {
		return nil, err
	}
	wr.out = w
	wr.header.TotalFrames = totalFrames

	if _, err := w.Write(wr.header.Bytes()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	texW := cursor.NewWriter()
	defer texW.Release()
	if err := section.WriteTextureBlock(texW, textures); err != nil {
		return nil, err
	}
	wr.texBlockSize = texW.Len()
	if _, err := w.Write(texW.Bytes()); err != nil {
		return nil, fmt.Errorf("write texture block: %w", err)
	}

	// Reserve the frame index plus a worst-case keyframe table.
	reserve := int(totalFrames)*section.FrameIndexEntrySize +
		section.KeyframeCountSize + int(totalFrames)*section.KeyframeEntrySize
	if err := writeZeros(w, reserve); err != nil {
		return nil, fmt.Errorf("reserve index region: %w", err)
	}

	wr.curOffset = uint64(section.HeaderSize + wr.texBlockSize + reserve)

	return wr, nil
}

// CreateBuffered starts a two-pass writer over a plain io.Writer.
//
// Frames are compressed immediately and spooled to a temp file; the header,
// texture block, and exactly-sized index tables are written on Finish,
// followed by the spooled chunks. The frame count is whatever was pushed.
func CreateBuffered(w io.Writer, targetFPS uint16, textures []section.TextureEntry, opts ...WriterOption) (*Writer, error) {
	wr, err := newWriter(targetFPS, textures, opts)
	if err != nil {
		return nil, err
	}
	wr.dst = w
	wr.buffered = true

	codec, err := compress.GetCodec(wr.cfg.spoolCompression)
	if err != nil {
		return nil, err
	}
	wr.spool, err = newChunkSpool(codec)
	if err != nil {
		return nil, err
	}

	return wr, nil
}

func newWriter(targetFPS uint16, textures []section.TextureEntry, opts []WriterOption) (*Writer, error) {
	cfg := defaultWriterConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	for _, tex := range textures {
		if err := tex.Validate(); err != nil {
			return nil, err
		}
	}

	header := section.NewFileHeader(targetFPS)
	header.TextureCount = uint16(len(textures)) //nolint:gosec

	return &Writer{
		cfg:      cfg,
		header:   header,
		textures: textures,
		prev:     make(map[int32]Particle),
		chunkW:   cursor.NewWriter(),
	}, nil
}

// PushFrame encodes the next frame of the animation.
//
// The writer decides the frame type: frame 0, a forceKey hint, a full GOP,
// or any delta outside its stored width produces an I-Frame; everything
// else becomes a quantized P-Frame against the previous frame as the decoder
// reconstructs it.
// Row order within the chunk is ascending particle ID.
//
// PushFrame is all-or-nothing: on error the writer becomes invalid and the
// partial output must be discarded.
func (w *Writer) PushFrame(rows []Particle, forceKey bool) error {
	if w.finished {
		return errs.ErrWriterFinished
	}
	if w.invalid {
		return errs.ErrWriterInvalid
	}
	if !w.buffered && w.frameCount >= w.header.TotalFrames {
		w.invalid = true
		return fmt.Errorf("%w: declared %d frames", errs.ErrFrameCountMismatch, w.header.TotalFrames)
	}

	sorted, err := sortedRows(rows)
	if err != nil {
		w.invalid = true
		return fmt.Errorf("frame %d: %w", w.frameCount, err)
	}

	isKey := forceKey || w.frameCount == 0 ||
		(w.cfg.maxGOP > 0 && w.gopLen >= w.cfg.maxGOP)

	w.chunkW.Reset()
	if !isKey {
		delta, ok := deltaColumns(w.prev, sorted)
		switch {
		case ok:
			encoding.AppendPFrame(w.chunkW, delta)
			// Carry forward the positions the decoder reconstructs, so the
			// next delta and the bounding box start from playback state.
			for i := range sorted {
				base := w.prev[sorted[i].ID].Pos
				sorted[i].Pos = base.Add(mgl32.Vec3{
					encoding.DequantizePos(delta.DX[i]),
					encoding.DequantizePos(delta.DY[i]),
					encoding.DequantizePos(delta.DZ[i]),
				})
			}
		case !w.cfg.autoKey:
			w.invalid = true
			return fmt.Errorf("frame %d: %w", w.frameCount, errs.ErrDeltaOverflow)
		default:
			// Teleport rule: re-key instead of clamping the movement.
			isKey = true
		}
	}
	if isKey {
		cols, release := frameColumns(sorted)
		encoding.AppendIFrame(w.chunkW, cols)
		release()
	}

	compressed, err := compress.CompressFrameLevel(w.chunkW.Bytes(), w.cfg.zstdLevel)
	if err != nil {
		w.invalid = true
		return fmt.Errorf("frame %d: %w", w.frameCount, err)
	}

	if w.buffered {
		size, err := w.spool.add(compressed)
		if err != nil {
			w.invalid = true
			return fmt.Errorf("frame %d: %w", w.frameCount, err)
		}
		// Offsets are resolved at Finish; record the container size now.
		w.frameIndex = append(w.frameIndex, section.FrameIndexEntry{ChunkSize: uint32(size)}) //nolint:gosec
	} else {
		if _, err := w.out.Write(compressed); err != nil {
			w.invalid = true
			return fmt.Errorf("frame %d: %w", w.frameCount, err)
		}
		w.frameIndex = append(w.frameIndex, section.FrameIndexEntry{
			ChunkOffset: w.curOffset,
			ChunkSize:   uint32(len(compressed)), //nolint:gosec
		})
		w.curOffset += uint64(len(compressed))
	}

	if isKey {
		w.keyframes = append(w.keyframes, w.frameCount)
		w.gopLen = 1
	} else {
		w.gopLen++
	}

	w.growBBox(sorted)
	w.prev = make(map[int32]Particle, len(sorted))
	for _, p := range sorted {
		w.prev[p.ID] = p
	}
	w.frameCount++

	return nil
}

// growBBox widens the animation bounding box to contain every live position.
func (w *Writer) growBBox(rows []Particle) {
	for _, p := range rows {
		if !w.hasBBox {
			w.bboxMin, w.bboxMax = p.Pos, p.Pos
			w.hasBBox = true

			continue
		}
		for i := range 3 {
			if p.Pos[i] < w.bboxMin[i] {
				w.bboxMin[i] = p.Pos[i]
			}
			if p.Pos[i] > w.bboxMax[i] {
				w.bboxMax[i] = p.Pos[i]
			}
		}
	}
}

// FrameCount returns the number of frames pushed so far.
func (w *Writer) FrameCount() uint32 {
	return w.frameCount
}

// Finish finalizes the container: index tables, keyframe table, bounding
// box, and (in buffered mode) the assembled file. The writer cannot be
// reused afterwards.
func (w *Writer) Finish() error {
	if w.finished {
		return errs.ErrWriterFinished
	}
	if w.invalid {
		return errs.ErrWriterInvalid
	}
	defer w.chunkW.Release()

	w.header.BBoxMin = w.bboxMin
	w.header.BBoxMax = w.bboxMax

	if w.buffered {
		return w.finishBuffered()
	}

	return w.finishBackpatch()
}

func (w *Writer) finishBackpatch() error {
	if w.frameCount != w.header.TotalFrames {
		w.invalid = true
		return fmt.Errorf("%w: declared %d frames, pushed %d",
			errs.ErrFrameCountMismatch, w.header.TotalFrames, w.frameCount)
	}

	if _, err := w.out.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("finalize header: %w", err)
	}
	if _, err := w.out.Write(w.header.Bytes()); err != nil {
		return fmt.Errorf("finalize header: %w", err)
	}

	indexPos := int64(section.HeaderSize + w.texBlockSize)
	if _, err := w.out.Seek(indexPos, io.SeekStart); err != nil {
		return fmt.Errorf("finalize indexes: %w", err)
	}

	idxW := cursor.NewWriter()
	defer idxW.Release()
	w.frameIndex.WriteTo(idxW)
	w.keyframes.WriteTo(idxW)
	if _, err := w.out.Write(idxW.Bytes()); err != nil {
		return fmt.Errorf("finalize indexes: %w", err)
	}

	w.finished = true

	return nil
}

func (w *Writer) finishBuffered() error {
	defer w.spool.close()

	w.header.TotalFrames = w.frameCount

	texW := cursor.NewWriter()
	defer texW.Release()
	if err := section.WriteTextureBlock(texW, w.textures); err != nil {
		return err
	}

	// Exact-size tables: the two-pass layout has no reserve dead zone.
	dataStart := uint64(section.HeaderSize + texW.Len() +
		len(w.frameIndex)*section.FrameIndexEntrySize +
		w.keyframes.EncodedSize())

	offset := dataStart
	for i := range w.frameIndex {
		w.frameIndex[i].ChunkOffset = offset
		offset += uint64(w.frameIndex[i].ChunkSize)
	}

	if _, err := w.dst.Write(w.header.Bytes()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.dst.Write(texW.Bytes()); err != nil {
		return fmt.Errorf("write texture block: %w", err)
	}

	idxW := cursor.NewWriter()
	defer idxW.Release()
	w.frameIndex.WriteTo(idxW)
	w.keyframes.WriteTo(idxW)
	if _, err := w.dst.Write(idxW.Bytes()); err != nil {
		return fmt.Errorf("write indexes: %w", err)
	}

	if err := w.spool.writeTo(w.dst); err != nil {
		return err
	}

	w.finished = true

	return nil
}

// Abort discards the writer and any temp resources without finalizing.
func (w *Writer) Abort() {
	w.invalid = true
	if w.spool != nil {
		w.spool.close()
	}
	w.chunkW.Release()
}

func writeZeros(w io.Writer, n int) error {
	zeros := make([]byte, 8192)
	for n > 0 {
		chunk := n
		if chunk > len(zeros) {
			chunk = len(zeros)
		}
		if _, err := w.Write(zeros[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}

	return nil
}
