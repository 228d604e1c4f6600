package section

// Offsets and sizes of the fixed metadata sections.
const (
	MagicSize  = 8  // "NEBULAFX"
	HeaderSize = 48 // fixed file header size in bytes

	FrameIndexEntrySize = 12 // u64 ChunkOffset + u32 ChunkSize
	KeyframeEntrySize   = 4  // u32 frame number
	KeyframeCountSize   = 4  // u32 count prefix

	// Byte offsets of the header fields.
	VersionOffset      = 8
	TargetFPSOffset    = 10
	TotalFramesOffset  = 12
	TextureCountOffset = 16
	AttributesOffset   = 18
	BBoxMinOffset      = 20
	BBoxMaxOffset      = 32
	ReservedOffset     = 44

	// SupportedVersion is the only container version this codec reads and writes.
	SupportedVersion = 1

	// RequiredAttributes is the only attributes bitmask version 1 defines:
	// both the Alpha and Size arrays are present. Other values are reserved
	// for future optional-array layouts.
	RequiredAttributes = 0x03
)

// Magic is the eight ASCII bytes every NBL container starts with.
var Magic = [MagicSize]byte{'N', 'E', 'B', 'U', 'L', 'A', 'F', 'X'}
