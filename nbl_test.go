package nbl

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestPublicSurface_EncodeDecode(t *testing.T) {
	textures := []TextureEntry{
		{Path: "minecraft:textures/particle/flame.png", Rows: 1, Cols: 1},
	}

	var out bytes.Buffer
	w, err := CreateBuffered(&out, 30, textures)
	require.NoError(t, err)

	for f := 0; f < 10; f++ {
		require.NoError(t, w.PushFrame([]Particle{{
			ID:   42,
			Pos:  mgl32.Vec3{float32(f) * 0.5, 2, 3},
			Col:  [4]uint8{255, 128, 64, 255},
			Size: 100,
		}}, false))
	}
	require.NoError(t, w.Finish())

	r, err := Open(bytes.NewReader(out.Bytes()), int64(out.Len()))
	require.NoError(t, err)
	require.Equal(t, uint32(10), r.TotalFrames())
	require.Len(t, r.Textures(), 1)

	live, err := r.Seek(context.Background(), 9)
	require.NoError(t, err)
	p, ok := live.Get(42)
	require.True(t, ok)
	require.InDelta(t, 4.5, p.Pos[0], 0.005)
	require.Equal(t, float32(1.0), p.RealSize())
}

func TestPublicSurface_Transcode(t *testing.T) {
	var src bytes.Buffer
	w, err := CreateBuffered(&src, 30, nil)
	require.NoError(t, err)
	for f := 0; f < 6; f++ {
		require.NoError(t, w.PushFrame([]Particle{{
			ID:   1,
			Pos:  mgl32.Vec3{float32(f), 0, 0},
			Col:  [4]uint8{100, 100, 100, 255},
			Size: 100,
		}}, false))
	}
	require.NoError(t, w.Finish())

	r, err := Open(bytes.NewReader(src.Bytes()), int64(src.Len()))
	require.NoError(t, err)

	var dst bytes.Buffer
	dw, err := CreateBuffered(&dst, 60, nil, WithMaxGOP(2))
	require.NoError(t, err)

	progress := NewProgress()
	err = Transcode(context.Background(), r, dw,
		Chain(ScaleSize(2), AdjustColor(1.5, 1)),
		WithTrim(1, 4), WithProgress(progress))
	require.NoError(t, err)

	_, total, done, perr := progress.Snapshot()
	require.NoError(t, perr)
	require.True(t, done)
	require.Equal(t, uint32(4), total)

	tr, err := Open(bytes.NewReader(dst.Bytes()), int64(dst.Len()))
	require.NoError(t, err)
	require.Equal(t, uint32(4), tr.TotalFrames())
	require.Equal(t, uint16(60), tr.Header().TargetFPS)

	live, err := tr.Seek(context.Background(), 0)
	require.NoError(t, err)
	p, ok := live.Get(1)
	require.True(t, ok)
	require.Equal(t, uint16(200), p.Size)
	require.Equal(t, uint8(150), p.Col[0])
	require.InDelta(t, 1.0, p.Pos[0], 0.005)

	violations, err := Validate(context.Background(), tr)
	require.NoError(t, err)
	require.Len(t, violations, 4) // tex_id 0 with no textures, one per frame
}
