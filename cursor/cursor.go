// Package cursor provides bounds-checked binary primitives over byte buffers.
//
// All multi-byte reads and writes are little-endian, matching the on-disk
// layout of the NBL container. Reads that would run past the end of the
// buffer fail with errs.ErrTruncated instead of panicking, so malformed
// files surface as errors rather than crashes.
//
// Strings are length-prefixed: a uint16 byte count followed by that many
// bytes of UTF-8. A zero-length prefix is a valid empty string.
package cursor

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/nebulafx/nbl/endian"
	"github.com/nebulafx/nbl/errs"
)

// MaxStringLength is the maximum byte length of a length-prefixed string,
// bounded by the uint16 prefix.
const MaxStringLength = math.MaxUint16

// Reader is a forward-only cursor over a byte buffer.
//
// The Reader does not copy the underlying buffer; slices returned by Bytes
// alias it and must not be modified by the caller.
type Reader struct {
	buf    []byte
	pos    int
	engine endian.EndianEngine
}

// NewReader creates a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{
		buf:    buf,
		engine: endian.GetLittleEndianEngine(),
	}
}

// Pos returns the current byte offset from the start of the buffer.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// require checks that n more bytes are available.
func (r *Reader) require(n int) error {
	if r.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			errs.ErrTruncated, n, r.pos, r.Remaining())
	}

	return nil
}

// Skip advances the cursor by n bytes without interpreting them.
func (r *Reader) Skip(n int) error {
	if err := r.require(n); err != nil {
		return err
	}
	r.pos += n

	return nil
}

// Bytes returns the next n bytes and advances the cursor.
// The returned slice aliases the underlying buffer.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

// Uint8 reads one unsigned byte.
func (r *Reader) Uint8() (uint8, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++

	return v, nil
}

// Uint16 reads a little-endian uint16.
func (r *Reader) Uint16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := r.engine.Uint16(r.buf[r.pos:])
	r.pos += 2

	return v, nil
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := r.engine.Uint32(r.buf[r.pos:])
	r.pos += 4

	return v, nil
}

// Uint64 reads a little-endian uint64.
func (r *Reader) Uint64() (uint64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	v := r.engine.Uint64(r.buf[r.pos:])
	r.pos += 8

	return v, nil
}

// Int8 reads one signed byte.
func (r *Reader) Int8() (int8, error) {
	v, err := r.Uint8()
	return int8(v), err
}

// Int16 reads a little-endian int16.
func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Int32 reads a little-endian int32.
func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Int64 reads a little-endian int64.
func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Float32 reads a little-endian IEEE-754 32-bit float.
func (r *Reader) Float32() (float32, error) {
	v, err := r.Uint32()
	return math.Float32frombits(v), err
}

// String reads a length-prefixed UTF-8 string.
//
// The prefix is a little-endian uint16 byte count. A zero count yields an
// empty string. Bytes that are not well-formed UTF-8 fail with
// errs.ErrInvalidUTF8.
func (r *Reader) String() (string, error) {
	n, err := r.Uint16()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}

	b, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %d-byte string at offset %d", errs.ErrInvalidUTF8, n, r.pos-int(n))
	}

	return string(b), nil
}
