package anim

import (
	"fmt"
	"io"
	"os"

	"github.com/nebulafx/nbl/compress"
)

// chunkSpool buffers compressed frame chunks in a temp file for the
// two-pass writer, which cannot know the index table sizes until the last
// frame has been pushed.
//
// Spool entries may be recompressed with any registry codec on their way to
// disk; chunks come back out byte-identical either way.
type chunkSpool struct {
	file  *os.File
	codec compress.Codec
	sizes []int
}

func newChunkSpool(codec compress.Codec) (*chunkSpool, error) {
	file, err := os.CreateTemp("", "nbl-spool-*")
	if err != nil {
		return nil, fmt.Errorf("create chunk spool: %w", err)
	}

	return &chunkSpool{file: file, codec: codec}, nil
}

// add appends one chunk to the spool and returns its final (container)
// size in bytes.
func (s *chunkSpool) add(chunk []byte) (int, error) {
	spooled, err := s.codec.Compress(chunk)
	if err != nil {
		return 0, fmt.Errorf("spool chunk: %w", err)
	}
	if _, err := s.file.Write(spooled); err != nil {
		return 0, fmt.Errorf("spool chunk: %w", err)
	}
	s.sizes = append(s.sizes, len(spooled))

	return len(chunk), nil
}

// writeTo streams every spooled chunk, in push order, to w.
func (s *chunkSpool) writeTo(w io.Writer) error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind chunk spool: %w", err)
	}

	buf := make([]byte, 0)
	for i, size := range s.sizes {
		if cap(buf) < size {
			buf = make([]byte, size)
		}
		buf = buf[:size]
		if _, err := io.ReadFull(s.file, buf); err != nil {
			return fmt.Errorf("read spooled chunk %d: %w", i, err)
		}

		chunk, err := s.codec.Decompress(buf)
		if err != nil {
			return fmt.Errorf("read spooled chunk %d: %w", i, err)
		}
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("write chunk %d: %w", i, err)
		}
	}

	return nil
}

// close removes the spool file. Safe to call more than once.
func (s *chunkSpool) close() {
	if s.file == nil {
		return
	}
	name := s.file.Name()
	_ = s.file.Close()
	_ = os.Remove(name)
	s.file = nil
}
