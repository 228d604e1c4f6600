package compress

// ZstdCompressor provides Zstandard compression for frame chunks.
//
// Each call compresses or decompresses exactly one payload; the compressor
// never carries dictionary or window state between calls, so any chunk can
// be decoded without the ones before it.
//
// Two implementations exist behind build tags: a cgo-backed libzstd binding
// and a pure-Go fallback. Both produce standard Zstd frames and are
// interchangeable on disk.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
