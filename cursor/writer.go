package cursor

import (
	"fmt"
	"math"

	"github.com/nebulafx/nbl/endian"
	"github.com/nebulafx/nbl/internal/pool"
)

// Writer appends little-endian binary data into a pooled byte buffer.
//
// The Writer mirrors Reader: every Put method is the inverse of the
// corresponding read. Writes cannot fail except for oversized strings,
// so the numeric Put methods return nothing.
//
// Call Release when done to return the buffer to the pool. Bytes must not
// be used after Release.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// NewWriter creates a Writer backed by a pooled buffer.
func NewWriter() *Writer {
	return &Writer{
		buf:    pool.GetChunkBuffer(),
		engine: endian.GetLittleEndianEngine(),
	}
}

// Bytes returns the accumulated bytes. The slice aliases the internal
// buffer and is only valid until the next write or Release.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the accumulated bytes but keeps the buffer.
func (w *Writer) Reset() {
	w.buf.Reset()
}

// Release returns the internal buffer to the pool.
func (w *Writer) Release() {
	if w.buf != nil {
		pool.PutChunkBuffer(w.buf)
		w.buf = nil
	}
}

// Grow pre-allocates capacity for n more bytes.
func (w *Writer) Grow(n int) {
	w.buf.Grow(n)
}

// PutUint8 appends one unsigned byte.
func (w *Writer) PutUint8(v uint8) {
	w.buf.B = append(w.buf.B, v)
}

// PutUint16 appends a little-endian uint16.
func (w *Writer) PutUint16(v uint16) {
	w.buf.B = w.engine.AppendUint16(w.buf.B, v)
}

// PutUint32 appends a little-endian uint32.
func (w *Writer) PutUint32(v uint32) {
	w.buf.B = w.engine.AppendUint32(w.buf.B, v)
}

// PutUint64 appends a little-endian uint64.
func (w *Writer) PutUint64(v uint64) {
	w.buf.B = w.engine.AppendUint64(w.buf.B, v)
}

// PutInt8 appends one signed byte.
func (w *Writer) PutInt8(v int8) {
	w.PutUint8(uint8(v))
}

// PutInt16 appends a little-endian int16.
func (w *Writer) PutInt16(v int16) {
	w.PutUint16(uint16(v))
}

// PutInt32 appends a little-endian int32.
func (w *Writer) PutInt32(v int32) {
	w.PutUint32(uint32(v))
}

// PutInt64 appends a little-endian int64.
func (w *Writer) PutInt64(v int64) {
	w.PutUint64(uint64(v))
}

// PutFloat32 appends a little-endian IEEE-754 32-bit float.
func (w *Writer) PutFloat32(v float32) {
	w.PutUint32(math.Float32bits(v))
}

// PutBytes appends raw bytes.
func (w *Writer) PutBytes(b []byte) {
	w.buf.MustWrite(b)
}

// PutString appends a length-prefixed UTF-8 string.
//
// Returns an error if the string exceeds MaxStringLength bytes.
func (w *Writer) PutString(s string) error {
	if len(s) > MaxStringLength {
		return fmt.Errorf("string length %d exceeds maximum %d", len(s), MaxStringLength)
	}

	w.buf.Grow(2 + len(s))
	w.PutUint16(uint16(len(s))) //nolint:gosec
	w.buf.MustWrite([]byte(s))

	return nil
}
