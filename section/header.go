package section

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nebulafx/nbl/endian"
	"github.com/nebulafx/nbl/errs"
)

// FileHeader represents the fixed 48-byte header at the start of the container.
type FileHeader struct {
	// Version is the container format version. Only version 1 is defined.
	Version uint16 // byte offset 8-9
	// TargetFPS is the intended playback rate in frames per second.
	TargetFPS uint16 // byte offset 10-11
	// TotalFrames is the number of frames in the animation.
	TotalFrames uint32 // byte offset 12-15
	// TextureCount is the number of entries in the texture block.
	TextureCount uint16 // byte offset 16-17
	// Attributes is the optional-array bitmask; must be RequiredAttributes.
	Attributes uint16 // byte offset 18-19
	// BBoxMin and BBoxMax bound every live particle position in the
	// animation, componentwise.
	BBoxMin mgl32.Vec3 // byte offset 20-31
	BBoxMax mgl32.Vec3 // byte offset 32-43
	// bytes 44-47 are reserved and must be zero
}

// NewFileHeader creates a header for a new container with the given playback
// rate. The frame count and bounding box are filled in by the writer at
// finalize.
func NewFileHeader(targetFPS uint16) *FileHeader {
	return &FileHeader{
		Version:    SupportedVersion,
		TargetFPS:  targetFPS,
		Attributes: RequiredAttributes,
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (at least 48 bytes)
//
// Returns:
//   - error: ErrTruncated, ErrBadMagic, ErrUnsupportedVersion,
//     ErrUnsupportedAttributes, or ErrMalformedHeader
func (h *FileHeader) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: header needs %d bytes, have %d", errs.ErrTruncated, HeaderSize, len(data))
	}

	if [MagicSize]byte(data[:MagicSize]) != Magic {
		return errs.ErrBadMagic
	}

	engine := endian.GetLittleEndianEngine()

	h.Version = engine.Uint16(data[VersionOffset:])
	if h.Version != SupportedVersion {
		return fmt.Errorf("%w: version %d", errs.ErrUnsupportedVersion, h.Version)
	}

	h.TargetFPS = engine.Uint16(data[TargetFPSOffset:])
	h.TotalFrames = engine.Uint32(data[TotalFramesOffset:])
	h.TextureCount = engine.Uint16(data[TextureCountOffset:])

	h.Attributes = engine.Uint16(data[AttributesOffset:])
	if h.Attributes != RequiredAttributes {
		return fmt.Errorf("%w: attributes 0x%02x", errs.ErrUnsupportedAttributes, h.Attributes)
	}

	for i := range 3 {
		h.BBoxMin[i] = math.Float32frombits(engine.Uint32(data[BBoxMinOffset+4*i:]))
		h.BBoxMax[i] = math.Float32frombits(engine.Uint32(data[BBoxMaxOffset+4*i:]))
	}
	for i := range 3 {
		if h.BBoxMin[i] > h.BBoxMax[i] {
			return fmt.Errorf("%w: bbox min %v exceeds max %v", errs.ErrMalformedHeader, h.BBoxMin, h.BBoxMax)
		}
	}

	if engine.Uint32(data[ReservedOffset:]) != 0 {
		return fmt.Errorf("%w: nonzero reserved bytes", errs.ErrMalformedHeader)
	}

	return nil
}

// Bytes serializes the FileHeader into a 48-byte slice.
func (h *FileHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := endian.GetLittleEndianEngine()

	copy(b, Magic[:])
	engine.PutUint16(b[VersionOffset:], h.Version)
	engine.PutUint16(b[TargetFPSOffset:], h.TargetFPS)
	engine.PutUint32(b[TotalFramesOffset:], h.TotalFrames)
	engine.PutUint16(b[TextureCountOffset:], h.TextureCount)
	engine.PutUint16(b[AttributesOffset:], h.Attributes)
	for i := range 3 {
		engine.PutUint32(b[BBoxMinOffset+4*i:], math.Float32bits(h.BBoxMin[i]))
		engine.PutUint32(b[BBoxMaxOffset+4*i:], math.Float32bits(h.BBoxMax[i]))
	}
	// bytes 44-47 stay zero

	return b
}

// ParseFileHeader parses a FileHeader from a byte slice.
func ParseFileHeader(data []byte) (FileHeader, error) {
	h := FileHeader{}
	if err := h.Parse(data); err != nil {
		return FileHeader{}, err
	}

	return h, nil
}
