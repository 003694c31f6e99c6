package hash

import (
	"encoding/base64"
	"encoding/binary"
	"hash"
	"hash/crc32"
)

// TrailerSize is the size of a little-endian CRC32C trailer.
const TrailerSize = 4

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// AppendTrailer appends sum as a little-endian trailer.
func AppendTrailer(dst []byte, sum uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, sum)
}

// SplitTrailer separates a blob into its body and trailing checksum.
// ok is false if the blob is shorter than a trailer.
func SplitTrailer(blob []byte) (body []byte, sum uint32, ok bool) {
	if len(blob) < TrailerSize {
		return nil, 0, false
	}
	n := len(blob) - TrailerSize
	return blob[:n], binary.LittleEndian.Uint32(blob[n:]), true
}

// Base64CRC32C returns the checksum of data in the form S3 expects:
// base64 of the big-endian bytes.
func Base64CRC32C(data []byte) string {
	return base64.StdEncoding.EncodeToString(binary.BigEndian.AppendUint32(nil, CRC32C(data)))
}
