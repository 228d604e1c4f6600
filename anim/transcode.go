package anim

import (
	"context"
	"fmt"
	"math"

	"github.com/nebulafx/nbl/errs"
	"github.com/nebulafx/nbl/internal/options"
)

// transcodeConfig holds the retiming knobs of one transcode run.
type transcodeConfig struct {
	trimSet     bool
	trimStart   uint32
	trimEnd     uint32
	resample    float32
	keyInterval uint32
	fpsSet      bool
	fps         uint16
	progress    *Progress
}

// TranscodeOption configures a transcode run.
type TranscodeOption = options.Option[*transcodeConfig]

// WithTrim limits the output to source frames [start, end], clamped to the
// source length.
func WithTrim(start, end uint32) TranscodeOption {
	return options.New(func(cfg *transcodeConfig) error {
		if end < start {
			return fmt.Errorf("invalid trim range [%d, %d]", start, end)
		}
		cfg.trimSet = true
		cfg.trimStart = start
		cfg.trimEnd = end

		return nil
	})
}

// WithResampleFactor retimes the animation by factor: 2.0 halves the frame
// count, 0.5 doubles it. Output frames between source frames are linearly
// interpolated.
func WithResampleFactor(factor float32) TranscodeOption {
	return options.New(func(cfg *transcodeConfig) error {
		if factor <= 0 {
			return fmt.Errorf("invalid resample factor %g", factor)
		}
		cfg.resample = factor

		return nil
	})
}

// WithTargetFPS overrides the playback rate recorded in the output header.
// Frames are neither dropped nor duplicated; combine with
// WithResampleFactor to keep wall-clock duration.
func WithTargetFPS(fps uint16) TranscodeOption {
	return options.New(func(cfg *transcodeConfig) error {
		if fps == 0 {
			return fmt.Errorf("invalid target fps %d", fps)
		}
		cfg.fpsSet = true
		cfg.fps = fps

		return nil
	})
}

// WithKeyframeInterval forces an I-Frame every interval output frames, on
// top of the writer's own keyframe policy.
func WithKeyframeInterval(interval uint32) TranscodeOption {
	return options.NoError(func(cfg *transcodeConfig) {
		cfg.keyInterval = interval
	})
}

// WithProgress attaches a tracker that other goroutines may poll.
func WithProgress(p *Progress) TranscodeOption {
	return options.NoError(func(cfg *transcodeConfig) {
		cfg.progress = p
	})
}

// Transcode streams every frame of r through transform and into w.
//
// Source frames are materialized through the reader's live-set engine, so
// the output is re-encoded from absolute state: the writer re-decides
// keyframe placement, which keeps every P-Frame anchored to an I-Frame in
// its GOP even when trimming or resampling drops source frames.
//
// The writer must match the output frame count: a Create writer's declared
// count has to equal the computed total (CreateBuffered writers always fit).
// An option error or a frame-count mismatch returns before any frame is
// written and leaves the writer untouched. Any later error aborts the writer
// and the partial output must be discarded; the caller owns both r and w
// afterwards either way.
func Transcode(ctx context.Context, r *Reader, w *Writer, transform Transform, opts ...TranscodeOption) error {
	cfg := transcodeConfig{}
	if err := options.Apply(&cfg, opts...); err != nil {
		return err
	}
	if transform == nil {
		transform = Identity()
	}

	oldTotal := r.TotalFrames()
	newTotal := outputFrameCount(oldTotal, cfg)

	if !w.buffered && w.header.TotalFrames != newTotal {
		return fmt.Errorf("%w: writer declares %d frames, transcode produces %d",
			errs.ErrFrameCountMismatch, w.header.TotalFrames, newTotal)
	}

	// Retiming only relabels playback speed; the header is finalized by
	// Finish in both writer modes, so updating it here lands on disk.
	if cfg.fpsSet {
		w.header.TargetFPS = cfg.fps
	}

	cfg.progress.begin(newTotal)

	err := transcodeFrames(ctx, r, w, transform, cfg, oldTotal, newTotal)
	if err == nil {
		err = w.Finish()
	} else {
		// Partial outputs are invalid but closed: no temp files survive a
		// failed or cancelled run.
		w.Abort()
	}
	cfg.progress.finish(err)

	return err
}

func transcodeFrames(ctx context.Context, r *Reader, w *Writer, transform Transform, cfg transcodeConfig, oldTotal, newTotal uint32) error {
	// Cache of materialized source snapshots. Sequential stepping through
	// the reader fills it; entries are dropped once no output frame can
	// reference them, so at most two snapshots stay live for resampling.
	cache := make(map[uint32][]Particle)
	nextSource := uint32(0)

	for outIdx := uint32(0); outIdx < newTotal; outIdx++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("output frame %d: %w", outIdx, errs.ErrCancelled)
		}

		srcA, srcB, t := sourceFrames(outIdx, oldTotal, newTotal, cfg)

		for key := range cache {
			if key < srcA {
				delete(cache, key)
			}
		}

		for nextSource <= srcB && nextSource < oldTotal {
			live, err := r.Seek(ctx, nextSource)
			if err != nil {
				return err
			}
			snapshot, err := sortedRows(live.Snapshot())
			if err != nil {
				return err
			}
			if nextSource >= srcA {
				cache[nextSource] = snapshot
			}
			nextSource++
		}

		var rows []Particle
		if srcA == srcB || t < 0.001 {
			rows = append([]Particle(nil), cache[srcA]...)
		} else {
			rows = lerpParticles(cache[srcA], cache[srcB], t)
		}

		rows = transform(rows)

		forceKey := cfg.keyInterval > 0 && outIdx%cfg.keyInterval == 0
		if err := w.PushFrame(rows, forceKey); err != nil {
			return err
		}
		cfg.progress.update(outIdx + 1)
	}

	return nil
}

// outputFrameCount computes the number of output frames a run produces.
func outputFrameCount(oldTotal uint32, cfg transcodeConfig) uint32 {
	if oldTotal == 0 {
		return 0
	}
	if cfg.trimSet {
		start := min(cfg.trimStart, oldTotal-1)
		end := max(min(cfg.trimEnd, oldTotal-1), start)

		return end - start + 1
	}
	if cfg.resample > 0 {
		n := math.Round(float64(oldTotal) / float64(cfg.resample))
		if n < 1 {
			return 1
		}

		return uint32(n)
	}

	return oldTotal
}

// sourceFrames maps one output frame to its source frame pair and blend
// position.
func sourceFrames(outIdx, oldTotal, newTotal uint32, cfg transcodeConfig) (srcA, srcB uint32, t float32) {
	switch {
	case cfg.trimSet:
		start := min(cfg.trimStart, oldTotal-1)
		src := start + outIdx

		return src, src, 0
	case cfg.resample > 0:
		if newTotal <= 1 || oldTotal <= 1 {
			return 0, 0, 0
		}
		pos := float64(outIdx) * float64(oldTotal-1) / float64(newTotal-1)
		a := uint32(math.Floor(pos))
		if a > oldTotal-1 {
			a = oldTotal - 1
		}
		b := min(a+1, oldTotal-1)

		return a, b, float32(pos - float64(a))
	default:
		return outIdx, outIdx, 0
	}
}
