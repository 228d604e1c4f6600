package anim

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nebulafx/nbl/section"
	"github.com/stretchr/testify/require"
)

func TestValidate_CleanAnimation(t *testing.T) {
	// driftFrames cycles seq_idx through 16 cells, so the sheet needs a
	// 4x4 grid to stay in range.
	textures := []section.TextureEntry{
		{Path: "minecraft:textures/particle/smoke.png", Rows: 4, Cols: 4},
	}
	frames := driftFrames(20)
	r, _ := encodeAnimation(t, frames, textures)

	violations, err := Validate(context.Background(), r)
	require.NoError(t, err)
	require.Empty(t, violations)
}

func TestValidate_TextureOutOfRange(t *testing.T) {
	// One texture, but a particle points at texture 3. The codec accepts
	// the container; the validator reports it.
	frames := [][]Particle{{
		{ID: 1, Pos: mgl32.Vec3{0, 0, 0}, Col: [4]uint8{255, 255, 255, 255}, Size: 10, TexID: 3},
	}}
	r, _ := encodeAnimation(t, frames, flameTexture())

	violations, err := Validate(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	require.Equal(t, uint32(0), violations[0].Frame)
	require.Equal(t, int32(1), violations[0].ID)
	require.Contains(t, violations[0].Detail, "tex_id")
}

func TestValidate_NoTextures(t *testing.T) {
	// TextureCount = 0 is a valid container; any tex_id reference at all
	// is then reportable.
	frames := [][]Particle{{
		{ID: 1, Pos: mgl32.Vec3{0, 0, 0}, Col: [4]uint8{255, 255, 255, 255}, Size: 10},
	}}
	r, _ := encodeAnimation(t, frames, nil)

	violations, err := Validate(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, violations, 1)
}

func TestValidate_SeqIdxPastSheet(t *testing.T) {
	textures := []section.TextureEntry{
		{Path: "minecraft:textures/particle/smoke.png", Rows: 2, Cols: 2},
	}
	frames := [][]Particle{{
		{ID: 1, Pos: mgl32.Vec3{0, 0, 0}, Col: [4]uint8{255, 255, 255, 255}, Size: 10, SeqIdx: 9},
	}}
	r, _ := encodeAnimation(t, frames, textures)

	violations, err := Validate(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	require.Contains(t, violations[0].Detail, "seq_idx")
}

func TestValidate_EmptyAnimation(t *testing.T) {
	out := &memFile{}
	w, err := Create(out, 30, 0, nil)
	require.NoError(t, err)
	require.NoError(t, w.Finish())

	r, err := Open(bytes.NewReader(out.buf), int64(len(out.buf)))
	require.NoError(t, err)

	violations, err := Validate(context.Background(), r)
	require.NoError(t, err)
	require.Empty(t, violations)
}
