package section

import (
	"fmt"

	"github.com/nebulafx/nbl/cursor"
	"github.com/nebulafx/nbl/errs"
)

// TextureEntry describes one sprite-sheet texture referenced by particles.
type TextureEntry struct {
	// Path is the resource location of the texture, UTF-8, at most 65535 bytes.
	Path string
	// Rows and Cols are the sprite-sheet grid dimensions, each 1..=255.
	Rows uint8
	Cols uint8
}

// Cells returns the number of sprite cells in the sheet.
func (t TextureEntry) Cells() int {
	return int(t.Rows) * int(t.Cols)
}

// EncodedSize returns the on-disk size of the entry.
func (t TextureEntry) EncodedSize() int {
	return 2 + len(t.Path) + 2
}

// Validate checks the entry against the format limits.
func (t TextureEntry) Validate() error {
	if t.Rows == 0 || t.Cols == 0 {
		return fmt.Errorf("%w: %q has %dx%d grid", errs.ErrMalformedTexture, t.Path, t.Rows, t.Cols)
	}
	if len(t.Path) > cursor.MaxStringLength {
		return fmt.Errorf("%w: path length %d", errs.ErrMalformedTexture, len(t.Path))
	}

	return nil
}

// ReadTextureBlock reads count texture entries from the cursor.
//
// Returns:
//   - []TextureEntry: Parsed entries, nil when count is zero
//   - error: ErrTruncated, ErrInvalidUTF8, or ErrMalformedTexture
func ReadTextureBlock(r *cursor.Reader, count int) ([]TextureEntry, error) {
	if count == 0 {
		return nil, nil
	}

	entries := make([]TextureEntry, 0, count)
	for i := 0; i < count; i++ {
		path, err := r.String()
		if err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		rows, err := r.Uint8()
		if err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		cols, err := r.Uint8()
		if err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}

		entry := TextureEntry{Path: path, Rows: rows, Cols: cols}
		if err := entry.Validate(); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// WriteTextureBlock appends all entries to the writer.
func WriteTextureBlock(w *cursor.Writer, entries []TextureEntry) error {
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
		if err := w.PutString(entry.Path); err != nil {
			return err
		}
		w.PutUint8(entry.Rows)
		w.PutUint8(entry.Cols)
	}

	return nil
}

// TextureBlockSize returns the total on-disk size of the texture block.
func TextureBlockSize(entries []TextureEntry) int {
	size := 0
	for _, entry := range entries {
		size += entry.EncodedSize()
	}

	return size
}
