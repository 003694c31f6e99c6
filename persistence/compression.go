package persistence

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ZSTD encoder/decoder pools
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compressBlock frames data as one block. The block is stored uncompressed
// when compression saves less than 10%.
func compressBlock(dst, data []byte, c Compression) ([]byte, error) {
	var compressed []byte
	var err error

	switch c {
	case CompressionLZ4:
		compressed, err = compressBlockLZ4(data)
	case CompressionZSTD:
		compressed, err = compressBlockZSTD(data)
	}
	if err != nil {
		return nil, err
	}

	var hdr [blockHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(data))) //nolint:gosec // blocks are bounded by the block size

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		// 0 = uncompressed
		dst = append(dst, hdr[:]...)
		return append(dst, data...), nil
	}

	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(compressed))) //nolint:gosec // bounded by lz4/zstd bound of the block
	dst = append(dst, hdr[:]...)
	return append(dst, compressed...), nil
}

func compressBlockLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}
	return compressed[:n], nil
}

func compressBlockZSTD(data []byte) ([]byte, error) {
	enc, err := getZstdEncoder()
	if err != nil {
		return nil, err
	}
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil), nil
}

// decompressBlock reads the block at the start of data and returns its
// content and framed size.
func decompressBlock(data []byte, c Compression) ([]byte, int, error) {
	if len(data) < blockHeaderSize {
		return nil, 0, fmt.Errorf("%w: block too small for header", ErrCorrupt)
	}

	uncompressedSize := int(binary.LittleEndian.Uint32(data[0:]))
	compressedSize := int(binary.LittleEndian.Uint32(data[4:]))

	if compressedSize == 0 {
		end := blockHeaderSize + uncompressedSize
		if len(data) < end {
			return nil, 0, fmt.Errorf("%w: block extends beyond data", ErrCorrupt)
		}
		return data[blockHeaderSize:end], end, nil
	}

	end := blockHeaderSize + compressedSize
	if len(data) < end {
		return nil, 0, fmt.Errorf("%w: compressed block extends beyond data", ErrCorrupt)
	}
	compressedData := data[blockHeaderSize:end]
	result := make([]byte, uncompressedSize)

	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(compressedData, result)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if n != uncompressedSize {
			return nil, 0, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return result, end, nil

	case CompressionZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, 0, err
		}
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(compressedData, result[:0])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if len(decoded) != uncompressedSize {
			return nil, 0, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, end, nil

	default:
		return nil, 0, fmt.Errorf("%w: compressed block in %s snapshot", ErrCorrupt, c)
	}
}

// blockWriter splits a payload into framed blocks.
type blockWriter struct {
	w           io.Writer
	compression Compression
	blockSize   int
	frame       []byte
	written     int64
}

func newBlockWriter(w io.Writer, c Compression, blockSize int) *blockWriter {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &blockWriter{
		w:           w,
		compression: c,
		blockSize:   blockSize,
	}
}

// WritePayload frames p into blocks. An empty payload produces no blocks.
func (b *blockWriter) WritePayload(p []byte) error {
	for len(p) > 0 {
		n := min(len(p), b.blockSize)

		frame, err := compressBlock(b.frame[:0], p[:n], b.compression)
		if err != nil {
			return err
		}
		b.frame = frame

		written, err := b.w.Write(frame)
		if err != nil {
			return err
		}
		b.written += int64(written)
		p = p[n:]
	}
	return nil
}

// readBlocks decompresses every block in data and concatenates the contents.
func readBlocks(data []byte, c Compression) ([]byte, error) {
	var out []byte
	for len(data) > 0 {
		block, n, err := decompressBlock(data, c)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
		data = data[n:]
	}
	return out, nil
}
