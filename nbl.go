// Package nbl implements the NBL (NebulaFX) particle animation container,
// version 1: a random-seekable, delta-compressed binary format for
// sequences of particle states intended for GPU-driven playback.
//
// A container is a fixed 48-byte header, a texture block, two eagerly
// loaded index tables, and a sequence of independently Zstd-compressed
// frame chunks. I-Frames carry absolute struct-of-arrays particle state;
// P-Frames carry quantized deltas (positions at 1/1000 block, sizes at
// 1/100) plus lifecycle information through their ID column.
//
// # Reading
//
//	f, _ := os.Open("burst.nbl")
//	info, _ := f.Stat()
//	r, err := nbl.Open(f, info.Size())
//	if err != nil {
//	    return err
//	}
//	live, err := r.Seek(ctx, 120)
//	for _, p := range live.Rows() {
//	    draw(p.Pos, p.Col, p.RealSize())
//	}
//
// # Writing
//
//	w, _ := nbl.Create(out, 30, totalFrames, textures)
//	for _, frame := range frames {
//	    w.PushFrame(frame, false)
//	}
//	err := w.Finish()
//
// The writer owns keyframe policy: frame 0, forced hints, a full GOP, and
// any per-particle delta outside its stored width (a particle moving more
// than 32.767 blocks in one frame) all produce I-Frames.
//
// # Transcoding
//
//	w, _ := nbl.CreateBuffered(out, 60, r.Textures())
//	err := nbl.Transcode(ctx, r, w, nbl.ScaleSize(2),
//	    nbl.WithResampleFactor(0.5))
//
// This package re-exports the anim types for the common paths; the anim,
// section, encoding, compress, and cursor packages expose the layers
// individually for advanced use.
package nbl

import (
	"context"
	"io"

	"github.com/nebulafx/nbl/anim"
	"github.com/nebulafx/nbl/section"
)

// Core types re-exported for embedders.
type (
	// Particle is the materialized state of one live particle.
	Particle = anim.Particle

	// LiveSet is the set of particles alive at the current frame.
	LiveSet = anim.LiveSet

	// Reader provides random-access playback over one container.
	Reader = anim.Reader

	// Writer is the streaming encoder.
	Writer = anim.Writer

	// Transform edits one frame of particles during a transcode.
	Transform = anim.Transform

	// Progress tracks a running transcode.
	Progress = anim.Progress

	// TextureEntry describes one sprite-sheet texture.
	TextureEntry = section.TextureEntry

	// Violation is one semantic problem found by Validate.
	Violation = anim.Violation
)

// Open parses the metadata region of a container and returns a Reader
// positioned before frame 0.
func Open(src io.ReaderAt, size int64) (*Reader, error) {
	return anim.Open(src, size)
}

// Create starts a single-pass writer over a seekable sink with the frame
// count declared up front.
func Create(w io.WriteSeeker, targetFPS uint16, totalFrames uint32, textures []TextureEntry, opts ...anim.WriterOption) (*Writer, error) {
	return anim.Create(w, targetFPS, totalFrames, textures, opts...)
}

// CreateBuffered starts a two-pass writer over a plain io.Writer; the frame
// count is whatever gets pushed.
func CreateBuffered(w io.Writer, targetFPS uint16, textures []TextureEntry, opts ...anim.WriterOption) (*Writer, error) {
	return anim.CreateBuffered(w, targetFPS, textures, opts...)
}

// Transcode streams every frame of r through transform and into w.
func Transcode(ctx context.Context, r *Reader, w *Writer, transform Transform, opts ...anim.TranscodeOption) error {
	return anim.Transcode(ctx, r, w, transform, opts...)
}

// Validate walks the whole animation and reports semantic issues the codec
// itself accepts.
func Validate(ctx context.Context, r *Reader) ([]Violation, error) {
	return anim.Validate(ctx, r)
}

// Frame transforms re-exported for embedders.
var (
	Identity        = anim.Identity
	Chain           = anim.Chain
	ScaleSize       = anim.ScaleSize
	UniformSize     = anim.UniformSize
	AdjustColor     = anim.AdjustColor
	TransformCoords = anim.TransformCoords
)

// Writer and transcode options re-exported for embedders.
var (
	WithMaxGOP           = anim.WithMaxGOP
	WithoutAutoKeyframes = anim.WithoutAutoKeyframes
	WithZstdLevel        = anim.WithZstdLevel
	WithSpoolCompression = anim.WithSpoolCompression
	WithTrim             = anim.WithTrim
	WithResampleFactor   = anim.WithResampleFactor
	WithKeyframeInterval = anim.WithKeyframeInterval
	WithTargetFPS        = anim.WithTargetFPS
	WithProgress         = anim.WithProgress
	NewProgress          = anim.NewProgress
)
