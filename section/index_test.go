package section

import (
	"testing"

	"github.com/nebulafx/nbl/cursor"
	"github.com/nebulafx/nbl/errs"
	"github.com/stretchr/testify/require"
)

func TestFrameIndex_RoundTrip(t *testing.T) {
	index := FrameIndex{
		{ChunkOffset: 100, ChunkSize: 50},
		{ChunkOffset: 150, ChunkSize: 25},
		{ChunkOffset: 175, ChunkSize: 1000},
	}

	w := cursor.NewWriter()
	defer w.Release()
	index.WriteTo(w)
	require.Len(t, w.Bytes(), 3*FrameIndexEntrySize)

	parsed, err := ReadFrameIndex(cursor.NewReader(w.Bytes()), 3)
	require.NoError(t, err)
	require.Equal(t, index, parsed)
}

func TestFrameIndex_Validate(t *testing.T) {
	t.Run("Valid contiguous chunks", func(t *testing.T) {
		index := FrameIndex{
			{ChunkOffset: 100, ChunkSize: 50},
			{ChunkOffset: 150, ChunkSize: 25},
		}
		require.NoError(t, index.Validate(100, 175))
	})

	t.Run("Offset inside metadata region", func(t *testing.T) {
		index := FrameIndex{{ChunkOffset: 80, ChunkSize: 10}}
		err := index.Validate(100, 200)
		require.ErrorIs(t, err, errs.ErrBadIndex)
	})

	t.Run("Chunk escapes file", func(t *testing.T) {
		index := FrameIndex{{ChunkOffset: 100, ChunkSize: 200}}
		err := index.Validate(100, 250)
		require.ErrorIs(t, err, errs.ErrBadIndex)
	})

	t.Run("Overlapping chunks", func(t *testing.T) {
		index := FrameIndex{
			{ChunkOffset: 100, ChunkSize: 60},
			{ChunkOffset: 150, ChunkSize: 25},
		}
		err := index.Validate(100, 300)
		require.ErrorIs(t, err, errs.ErrBadIndex)
	})

	t.Run("Overlap detected regardless of frame order", func(t *testing.T) {
		// Frame order is not offset order; the overlap check sorts.
		index := FrameIndex{
			{ChunkOffset: 150, ChunkSize: 25},
			{ChunkOffset: 100, ChunkSize: 60},
		}
		err := index.Validate(100, 300)
		require.ErrorIs(t, err, errs.ErrBadIndex)
	})

	t.Run("Empty index", func(t *testing.T) {
		require.NoError(t, FrameIndex{}.Validate(48, 48))
	})
}

func TestFrameIndex_MaxChunkSize(t *testing.T) {
	index := FrameIndex{
		{ChunkOffset: 0, ChunkSize: 10},
		{ChunkOffset: 10, ChunkSize: 500},
		{ChunkOffset: 510, ChunkSize: 20},
	}
	require.Equal(t, uint32(500), index.MaxChunkSize())
	require.Equal(t, uint32(0), FrameIndex{}.MaxChunkSize())
}

func TestKeyframeIndex_RoundTrip(t *testing.T) {
	index := KeyframeIndex{0, 60, 120}

	w := cursor.NewWriter()
	defer w.Release()
	index.WriteTo(w)
	require.Len(t, w.Bytes(), index.EncodedSize())

	parsed, err := ReadKeyframeIndex(cursor.NewReader(w.Bytes()), 180)
	require.NoError(t, err)
	require.Equal(t, index, parsed)
}

func TestKeyframeIndex_Validate(t *testing.T) {
	t.Run("Empty table for empty animation", func(t *testing.T) {
		require.NoError(t, KeyframeIndex{}.Validate(0))
	})

	t.Run("Empty table for non-empty animation", func(t *testing.T) {
		err := KeyframeIndex{}.Validate(10)
		require.ErrorIs(t, err, errs.ErrBadKeyframeTable)
	})

	t.Run("Missing frame 0", func(t *testing.T) {
		err := KeyframeIndex{5, 10}.Validate(20)
		require.ErrorIs(t, err, errs.ErrBadKeyframeTable)
	})

	t.Run("Not strictly ascending", func(t *testing.T) {
		err := KeyframeIndex{0, 10, 10}.Validate(20)
		require.ErrorIs(t, err, errs.ErrBadKeyframeTable)
	})

	t.Run("Out of range", func(t *testing.T) {
		err := KeyframeIndex{0, 25}.Validate(20)
		require.ErrorIs(t, err, errs.ErrBadKeyframeTable)
	})
}

func TestKeyframeIndex_Previous(t *testing.T) {
	index := KeyframeIndex{0, 60, 120}

	require.Equal(t, uint32(0), index.Previous(0))
	require.Equal(t, uint32(0), index.Previous(59))
	require.Equal(t, uint32(60), index.Previous(60))
	require.Equal(t, uint32(60), index.Previous(119))
	require.Equal(t, uint32(120), index.Previous(150))
}

func TestKeyframeIndex_Contains(t *testing.T) {
	index := KeyframeIndex{0, 60, 120}

	require.True(t, index.Contains(0))
	require.True(t, index.Contains(60))
	require.False(t, index.Contains(61))
	require.False(t, index.Contains(121))
}

func TestTextureBlock_RoundTrip(t *testing.T) {
	entries := []TextureEntry{
		{Path: "minecraft:textures/particle/flame.png", Rows: 1, Cols: 1},
		{Path: "minecraft:textures/particle/smoke.png", Rows: 4, Cols: 4},
		{Path: "", Rows: 1, Cols: 2},
	}

	w := cursor.NewWriter()
	defer w.Release()
	require.NoError(t, WriteTextureBlock(w, entries))
	require.Len(t, w.Bytes(), TextureBlockSize(entries))

	parsed, err := ReadTextureBlock(cursor.NewReader(w.Bytes()), len(entries))
	require.NoError(t, err)
	require.Equal(t, entries, parsed)
}

func TestTextureEntry_Validate(t *testing.T) {
	require.NoError(t, TextureEntry{Path: "a.png", Rows: 1, Cols: 1}.Validate())

	err := TextureEntry{Path: "a.png", Rows: 0, Cols: 1}.Validate()
	require.ErrorIs(t, err, errs.ErrMalformedTexture)

	err = TextureEntry{Path: "a.png", Rows: 1, Cols: 0}.Validate()
	require.ErrorIs(t, err, errs.ErrMalformedTexture)
}

func TestTextureEntry_Cells(t *testing.T) {
	require.Equal(t, 16, TextureEntry{Rows: 4, Cols: 4}.Cells())
	require.Equal(t, 255*255, TextureEntry{Rows: 255, Cols: 255}.Cells())
}
