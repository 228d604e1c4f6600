// Package anim implements the playback and encoding layers of the nbl codec:
// the random-access Reader with its live particle set, the streaming Writer,
// and the Transcoder that connects the two.
package anim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nebulafx/nbl/encoding"
	"github.com/nebulafx/nbl/errs"
)

// Particle is the materialized state of one live particle.
//
// Size is held in stored units (real size × 100), exactly as the I-Frame
// column carries it; DequantizeSizeValue converts to the real value.
type Particle struct {
	ID     int32
	Pos    mgl32.Vec3
	Col    [4]uint8 // R, G, B, A
	Size   uint16
	TexID  uint8
	SeqIdx uint8
}

// RealSize returns the particle size in real units.
func (p Particle) RealSize() float32 {
	return encoding.DequantizeSizeValue(p.Size)
}

// LiveSet is the set of particles alive at the current frame.
//
// It keeps two parallel structures: a compact row-ordered slice in the
// current frame's on-disk row order for rendering, and an ID-to-row map for
// delta application. Both are rebuilt on every I-Frame and replaced on
// P-Frames. The Reader owns its LiveSet exclusively; it is not thread-safe
// and is invalidated by the next Seek or StepForward.
type LiveSet struct {
	rows  []Particle
	index map[int32]int
}

// NewLiveSet creates an empty live set.
func NewLiveSet() *LiveSet {
	return &LiveSet{index: make(map[int32]int)}
}

// Len returns the number of live particles.
func (ls *LiveSet) Len() int {
	return len(ls.rows)
}

// Rows returns the live particles in the current frame's row order.
// The slice aliases internal storage; callers that retain it across
// Seek/StepForward must copy.
func (ls *LiveSet) Rows() []Particle {
	return ls.rows
}

// Get returns the particle with the given ID.
func (ls *LiveSet) Get(id int32) (Particle, bool) {
	row, ok := ls.index[id]
	if !ok {
		return Particle{}, false
	}

	return ls.rows[row], true
}

// IDs returns the live particle IDs in row order.
func (ls *LiveSet) IDs() []int32 {
	ids := make([]int32, len(ls.rows))
	for i, p := range ls.rows {
		ids[i] = p.ID
	}

	return ids
}

// Snapshot returns a copy of the live particles, safe to retain.
func (ls *LiveSet) Snapshot() []Particle {
	out := make([]Particle, len(ls.rows))
	copy(out, ls.rows)

	return out
}

// replaceWithIFrame rebuilds both structures from an I-Frame's columns.
func (ls *LiveSet) replaceWithIFrame(f *encoding.Frame) error {
	n := f.Len()
	ls.rows = ls.rows[:0]
	ls.index = make(map[int32]int, n)

	for i := 0; i < n; i++ {
		id := f.ID[i]
		if _, dup := ls.index[id]; dup {
			return fmt.Errorf("%w: id %d", errs.ErrDuplicateParticleID, id)
		}
		ls.rows = append(ls.rows, Particle{
			ID:     id,
			Pos:    mgl32.Vec3{f.X[i], f.Y[i], f.Z[i]},
			Col:    [4]uint8{f.R[i], f.G[i], f.B[i], f.A[i]},
			Size:   f.Size[i],
			TexID:  f.TexID[i],
			SeqIdx: f.SeqIdx[i],
		})
		ls.index[id] = i
	}

	return nil
}

// applyPFrame advances the live set by one delta frame.
//
// The three lifecycle cases fall out of the ID column: IDs present in both
// the set and the frame update, IDs only in the frame spawn from the zero
// basis, and IDs missing from the frame despawn. The replacement rows take
// the frame's row order.
func (ls *LiveSet) applyPFrame(d *encoding.DeltaFrame) error {
	n := d.Len()
	newRows := make([]Particle, 0, n)
	newIndex := make(map[int32]int, n)

	for i := 0; i < n; i++ {
		id := d.ID[i]
		if _, dup := newIndex[id]; dup {
			return fmt.Errorf("%w: id %d", errs.ErrDuplicateParticleID, id)
		}

		var p Particle
		if row, ok := ls.index[id]; ok {
			// Update: apply deltas to the previous state. Position is f32
			// and unclamped; integer attributes saturate at their range.
			p = ls.rows[row]
			p.Pos = p.Pos.Add(mgl32.Vec3{
				encoding.DequantizePos(d.DX[i]),
				encoding.DequantizePos(d.DY[i]),
				encoding.DequantizePos(d.DZ[i]),
			})
			p.Col[0] = satAddUint8(p.Col[0], d.DR[i])
			p.Col[1] = satAddUint8(p.Col[1], d.DG[i])
			p.Col[2] = satAddUint8(p.Col[2], d.DB[i])
			p.Col[3] = satAddUint8(p.Col[3], d.DA[i])
			p.Size = satAddUint16(p.Size, d.DSize[i])
			p.TexID = satAddUint8(p.TexID, d.DTexID[i])
			p.SeqIdx = satAddUint8(p.SeqIdx, d.DSeqIdx[i])
		} else {
			// Spawn: zero basis. The delta's bit pattern IS the absolute
			// initial value for the integer attributes.
			p = Particle{
				ID: id,
				Pos: mgl32.Vec3{
					encoding.DequantizePos(d.DX[i]),
					encoding.DequantizePos(d.DY[i]),
					encoding.DequantizePos(d.DZ[i]),
				},
				Col:    [4]uint8{uint8(d.DR[i]), uint8(d.DG[i]), uint8(d.DB[i]), uint8(d.DA[i])},
				Size:   uint16(d.DSize[i]),
				TexID:  uint8(d.DTexID[i]),
				SeqIdx: uint8(d.DSeqIdx[i]),
			}
		}

		newIndex[id] = len(newRows)
		newRows = append(newRows, p)
	}

	ls.rows = newRows
	ls.index = newIndex

	return nil
}

func satAddUint8(v uint8, d int8) uint8 {
	sum := int16(v) + int16(d)
	if sum < 0 {
		return 0
	}
	if sum > 255 {
		return 255
	}

	return uint8(sum)
}

func satAddUint16(v uint16, d int16) uint16 {
	sum := int32(v) + int32(d)
	if sum < 0 {
		return 0
	}
	if sum > 65535 {
		return 65535
	}

	return uint16(sum)
}
