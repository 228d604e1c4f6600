package format

type (
	FrameType       uint8
	CompressionType uint8
)

const (
	FrameTypeI FrameType = 0x0 // FrameTypeI represents a self-contained I-Frame.
	FrameTypeP FrameType = 0x1 // FrameTypeP represents a quantized delta P-Frame.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (f FrameType) String() string {
	switch f {
	case FrameTypeI:
		return "I-Frame"
	case FrameTypeP:
		return "P-Frame"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
