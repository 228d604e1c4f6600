package anim

import (
	"fmt"
	"sort"

	"github.com/nebulafx/nbl/encoding"
	"github.com/nebulafx/nbl/errs"
	"github.com/nebulafx/nbl/internal/pool"
)

// sortedRows returns a copy of rows in ascending ID order and checks that
// no ID repeats. The encoder fixes row order per frame so that re-encoding
// the same states reproduces the same bytes.
func sortedRows(rows []Particle) ([]Particle, error) {
	out := make([]Particle, len(rows))
	copy(out, rows)
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })

	for i := 1; i < len(out); i++ {
		if out[i].ID == out[i-1].ID {
			return nil, fmt.Errorf("%w: id %d", errs.ErrDuplicateParticleID, out[i].ID)
		}
	}

	return out, nil
}

// frameColumns converts row-ordered particles to I-Frame columns backed by
// pooled slices. The returned release function must be called once the
// columns have been serialized.
func frameColumns(rows []Particle) (*encoding.Frame, func()) {
	n := len(rows)
	f := &encoding.Frame{}

	cleanups := make([]func(), 0, 11)
	getF32 := func() []float32 {
		s, cleanup := pool.GetFloat32Slice(n)
		cleanups = append(cleanups, cleanup)
		return s
	}
	getU8 := func() []uint8 {
		s, cleanup := pool.GetUint8Slice(n)
		cleanups = append(cleanups, cleanup)
		return s
	}

	f.X, f.Y, f.Z = getF32(), getF32(), getF32()
	f.R, f.G, f.B, f.A = getU8(), getU8(), getU8(), getU8()
	f.TexID, f.SeqIdx = getU8(), getU8()

	var cleanup func()
	f.Size, cleanup = pool.GetUint16Slice(n)
	cleanups = append(cleanups, cleanup)
	f.ID, cleanup = pool.GetInt32Slice(n)
	cleanups = append(cleanups, cleanup)

	for i, p := range rows {
		f.X[i], f.Y[i], f.Z[i] = p.Pos[0], p.Pos[1], p.Pos[2]
		f.R[i], f.G[i], f.B[i], f.A[i] = p.Col[0], p.Col[1], p.Col[2], p.Col[3]
		f.Size[i] = p.Size
		f.TexID[i] = p.TexID
		f.SeqIdx[i] = p.SeqIdx
		f.ID[i] = p.ID
	}

	return f, func() {
		for _, c := range cleanups {
			c()
		}
	}
}

// deltaColumns computes the P-Frame delta columns from the previous written
// snapshot to the new rows.
//
// IDs absent from prev spawn with the zero basis: position deltas are the
// absolute position quantized, and the integer attributes store their
// absolute value's bit pattern. IDs present in prev store differences.
//
// Returns ok=false when any delta is not representable in its stored width;
// the caller then either forces an I-Frame or surfaces ErrDeltaOverflow.
func deltaColumns(prev map[int32]Particle, rows []Particle) (*encoding.DeltaFrame, bool) {
	n := len(rows)
	d := &encoding.DeltaFrame{
		DX:      make([]int16, n),
		DY:      make([]int16, n),
		DZ:      make([]int16, n),
		DR:      make([]int8, n),
		DG:      make([]int8, n),
		DB:      make([]int8, n),
		DA:      make([]int8, n),
		DSize:   make([]int16, n),
		DTexID:  make([]int8, n),
		DSeqIdx: make([]int8, n),
		ID:      make([]int32, n),
	}

	for i, p := range rows {
		d.ID[i] = p.ID

		old, existed := prev[p.ID]
		if !existed {
			var ok bool
			if d.DX[i], ok = encoding.QuantizePos(p.Pos[0]); !ok {
				return nil, false
			}
			if d.DY[i], ok = encoding.QuantizePos(p.Pos[1]); !ok {
				return nil, false
			}
			if d.DZ[i], ok = encoding.QuantizePos(p.Pos[2]); !ok {
				return nil, false
			}
			// Bit-pattern reinterpretation carries any absolute value.
			d.DR[i] = int8(p.Col[0])
			d.DG[i] = int8(p.Col[1])
			d.DB[i] = int8(p.Col[2])
			d.DA[i] = int8(p.Col[3])
			d.DSize[i] = int16(p.Size)
			d.DTexID[i] = int8(p.TexID)
			d.DSeqIdx[i] = int8(p.SeqIdx)

			continue
		}

		var ok bool
		if d.DX[i], ok = encoding.QuantizePos(p.Pos[0] - old.Pos[0]); !ok {
			return nil, false
		}
		if d.DY[i], ok = encoding.QuantizePos(p.Pos[1] - old.Pos[1]); !ok {
			return nil, false
		}
		if d.DZ[i], ok = encoding.QuantizePos(p.Pos[2] - old.Pos[2]); !ok {
			return nil, false
		}

		for c := 0; c < 4; c++ {
			diff, fits := int8Diff(p.Col[c], old.Col[c])
			if !fits {
				return nil, false
			}
			switch c {
			case 0:
				d.DR[i] = diff
			case 1:
				d.DG[i] = diff
			case 2:
				d.DB[i] = diff
			case 3:
				d.DA[i] = diff
			}
		}

		sizeDiff := int32(p.Size) - int32(old.Size)
		if sizeDiff < -32768 || sizeDiff > 32767 {
			return nil, false
		}
		d.DSize[i] = int16(sizeDiff)

		var fits bool
		if d.DTexID[i], fits = int8Diff(p.TexID, old.TexID); !fits {
			return nil, false
		}
		if d.DSeqIdx[i], fits = int8Diff(p.SeqIdx, old.SeqIdx); !fits {
			return nil, false
		}
	}

	return d, true
}

func int8Diff(cur, old uint8) (int8, bool) {
	diff := int16(cur) - int16(old)
	if diff < -128 || diff > 127 {
		return 0, false
	}

	return int8(diff), true
}
