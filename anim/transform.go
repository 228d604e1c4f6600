package anim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nebulafx/nbl/encoding"
)

// Transform edits one frame of particles during a transcode. The slice is
// the transform's to keep or mutate; returning it modified in place is fine.
// A nil Transform means identity.
type Transform func(rows []Particle) []Particle

// Identity returns every frame unchanged.
func Identity() Transform {
	return func(rows []Particle) []Particle { return rows }
}

// Chain composes transforms left to right.
func Chain(transforms ...Transform) Transform {
	return func(rows []Particle) []Particle {
		for _, t := range transforms {
			rows = t(rows)
		}

		return rows
	}
}

// ScaleSize multiplies every particle's size by factor.
func ScaleSize(factor float32) Transform {
	return func(rows []Particle) []Particle {
		for i := range rows {
			rows[i].Size = clampSize(float64(rows[i].Size) * float64(factor))
		}

		return rows
	}
}

// UniformSize sets every particle to the given real size.
func UniformSize(size float32) Transform {
	stored := encoding.QuantizeSizeValue(size)

	return func(rows []Particle) []Particle {
		for i := range rows {
			rows[i].Size = stored
		}

		return rows
	}
}

// AdjustColor scales the RGB channels by brightness and the alpha channel
// by opacity, clamped to [0,255].
func AdjustColor(brightness, opacity float32) Transform {
	return func(rows []Particle) []Particle {
		for i := range rows {
			for c := 0; c < 3; c++ {
				rows[i].Col[c] = clampColor(float64(rows[i].Col[c]) * float64(brightness))
			}
			rows[i].Col[3] = clampColor(float64(rows[i].Col[3]) * float64(opacity))
		}

		return rows
	}
}

// TransformCoords scales positions about the origin and then translates.
func TransformCoords(translate mgl32.Vec3, scale float32) Transform {
	return func(rows []Particle) []Particle {
		for i := range rows {
			rows[i].Pos = rows[i].Pos.Mul(scale).Add(translate)
		}

		return rows
	}
}

func clampColor(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}

	return uint8(v)
}

func clampSize(v float64) uint16 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}

	return uint16(v)
}

// lerpParticles linearly interpolates two ID-matched snapshots.
//
// Particles present in both frames interpolate attribute-wise; particles
// present in only one frame survive on the side t is closer to, which keeps
// spawn and despawn timing stable under resampling.
func lerpParticles(a, b []Particle, t float32) []Particle {
	aIndex := make(map[int32]int, len(a))
	for i, p := range a {
		aIndex[p.ID] = i
	}
	bIndex := make(map[int32]int, len(b))
	for i, p := range b {
		bIndex[p.ID] = i
	}

	result := make([]Particle, 0, len(a))
	for _, pa := range a {
		if bi, ok := bIndex[pa.ID]; ok {
			pb := b[bi]
			p := Particle{
				ID:   pa.ID,
				Pos:  pa.Pos.Add(pb.Pos.Sub(pa.Pos).Mul(t)),
				Size: lerpUint16(pa.Size, pb.Size, t),
			}
			for c := 0; c < 4; c++ {
				p.Col[c] = lerpUint8(pa.Col[c], pb.Col[c], t)
			}
			if t < 0.5 {
				p.TexID, p.SeqIdx = pa.TexID, pa.SeqIdx
			} else {
				p.TexID, p.SeqIdx = pb.TexID, pb.SeqIdx
			}
			result = append(result, p)
		} else if t < 0.5 {
			result = append(result, pa)
		}
	}

	if t >= 0.5 {
		for _, pb := range b {
			if _, ok := aIndex[pb.ID]; !ok {
				result = append(result, pb)
			}
		}
	}

	return result
}

func lerpUint8(a, b uint8, t float32) uint8 {
	return clampColor(float64(a) + (float64(b)-float64(a))*float64(t))
}

func lerpUint16(a, b uint16, t float32) uint16 {
	return clampSize(float64(a) + (float64(b)-float64(a))*float64(t))
}
