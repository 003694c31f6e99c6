package persistence

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Magic identifies snapshot blobs.
	Magic = "ALSN"
	// Version is the current format version.
	Version uint8 = 1

	// DefaultBlockSize is the uncompressed size of a payload block.
	DefaultBlockSize = 256 * 1024

	blockHeaderSize = 8
	maxCodecName    = 255
)

var (
	ErrInvalidMagic       = errors.New("persistence: invalid magic number")
	ErrInvalidVersion     = errors.New("persistence: unsupported version")
	ErrUnknownCodec       = errors.New("persistence: unknown codec")
	ErrUnknownCompression = errors.New("persistence: unknown compression")
	ErrCorrupt            = errors.New("persistence: corrupt snapshot")
)

// Compression defines the block compression algorithm.
type Compression uint8

const (
	// CompressionNone stores blocks as-is.
	CompressionNone Compression = 0
	// CompressionLZ4 is LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD is ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

func (c Compression) valid() bool {
	return c <= CompressionZSTD
}

// ParseCompression parses "none", "lz4" or "zstd", case-insensitively.
// The empty string means none.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

// Header is the self-describing prefix of a snapshot blob.
type Header struct {
	Version     uint8
	Compression Compression
	Codec       string
}

func (h Header) size() int {
	return len(Magic) + 3 + len(h.Codec)
}

func (h Header) appendTo(dst []byte) []byte {
	dst = append(dst, Magic...)
	dst = append(dst, h.Version, byte(h.Compression), byte(len(h.Codec)))
	return append(dst, h.Codec...)
}

// ReadHeader parses the header at the start of data and returns it with its size.
func ReadHeader(data []byte) (Header, int, error) {
	var h Header
	if len(data) < len(Magic)+3 {
		return h, 0, fmt.Errorf("%w: header truncated", ErrCorrupt)
	}
	if string(data[:len(Magic)]) != Magic {
		return h, 0, ErrInvalidMagic
	}
	off := len(Magic)
	h.Version = data[off]
	h.Compression = Compression(data[off+1])
	nameLen := int(data[off+2])
	off += 3

	if h.Version != Version {
		return h, 0, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}
	if !h.Compression.valid() {
		return h, 0, fmt.Errorf("%w: %d", ErrUnknownCompression, h.Compression)
	}
	if len(data) < off+nameLen {
		return h, 0, fmt.Errorf("%w: codec name truncated", ErrCorrupt)
	}
	h.Codec = string(data[off : off+nameLen])
	return h, off + nameLen, nil
}
