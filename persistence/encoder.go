package persistence

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hupe1980/anonlattice/codec"
	"github.com/hupe1980/anonlattice/internal/hash"
	"github.com/hupe1980/anonlattice/lattice"
)

// Options configures snapshot encoding.
type Options struct {
	// Codec encodes the snapshot payload. Default: codec.Default.
	Codec codec.Codec
	// Compression is the block compression. Default: none.
	Compression Compression
	// BlockSize is the uncompressed block size. Default: DefaultBlockSize.
	BlockSize int
}

// Option configures encoding.
type Option func(*Options)

// WithCodec sets the payload codec.
func WithCodec(c codec.Codec) Option {
	return func(o *Options) {
		o.Codec = c
	}
}

// WithCompression sets the block compression.
func WithCompression(c Compression) Option {
	return func(o *Options) {
		o.Compression = c
	}
}

// WithBlockSize sets the uncompressed block size.
func WithBlockSize(n int) Option {
	return func(o *Options) {
		o.BlockSize = n
	}
}

func newOptions(opts []Option) Options {
	o := Options{
		Codec:     codec.Default,
		BlockSize: DefaultBlockSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Codec == nil {
		o.Codec = codec.Default
	}
	return o
}

// Encoder writes snapshots to an output stream.
type Encoder struct {
	w    io.Writer
	opts Options
}

// NewEncoder returns an encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: newOptions(opts)}
}

// Encode writes one snapshot.
func (e *Encoder) Encode(snap *lattice.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("persistence: nil snapshot")
	}
	if !e.opts.Compression.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, e.opts.Compression)
	}
	name := e.opts.Codec.Name()
	if len(name) > maxCodecName {
		return fmt.Errorf("%w: codec name %q too long", ErrUnknownCodec, name)
	}

	payload, err := e.opts.Codec.Marshal(snap)
	if err != nil {
		return fmt.Errorf("persistence: encode snapshot with %s: %w", name, err)
	}

	crc := hash.NewCRC32C()
	w := io.MultiWriter(e.w, crc)

	h := Header{Version: Version, Compression: e.opts.Compression, Codec: name}
	if _, err := w.Write(h.appendTo(make([]byte, 0, h.size()))); err != nil {
		return err
	}
	if err := newBlockWriter(w, h.Compression, e.opts.BlockSize).WritePayload(payload); err != nil {
		return err
	}

	_, err = e.w.Write(hash.AppendTrailer(nil, crc.Sum32()))
	return err
}

// Marshal encodes a snapshot into a new byte slice.
func Marshal(snap *lattice.Snapshot, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decoder reads snapshots from an input stream.
type Decoder struct {
	r      io.Reader
	header Header
}

// NewDecoder returns a decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads the rest of the stream as one snapshot.
func (d *Decoder) Decode() (*lattice.Snapshot, error) {
	data, err := io.ReadAll(d.r)
	if err != nil {
		return nil, err
	}
	snap, h, err := decode(data)
	if err != nil {
		return nil, err
	}
	d.header = h
	return snap, nil
}

// Header returns the header of the last decoded snapshot.
func (d *Decoder) Header() Header {
	return d.header
}

// Unmarshal decodes a snapshot from data.
func Unmarshal(data []byte) (*lattice.Snapshot, error) {
	snap, _, err := decode(data)
	return snap, err
}

func decode(data []byte) (*lattice.Snapshot, Header, error) {
	body, expected, ok := hash.SplitTrailer(data)
	if !ok {
		return nil, Header{}, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(data))
	}

	h, n, err := ReadHeader(body)
	if err != nil {
		return nil, h, err
	}

	if actual := hash.CRC32C(body); actual != expected {
		return nil, h, &ChecksumMismatchError{Expected: expected, Actual: actual}
	}

	c, ok := codec.ByName(h.Codec)
	if !ok {
		return nil, h, fmt.Errorf("%w: %q", ErrUnknownCodec, h.Codec)
	}

	payload, err := readBlocks(body[n:], h.Compression)
	if err != nil {
		return nil, h, err
	}

	snap := new(lattice.Snapshot)
	if err := c.Unmarshal(payload, snap); err != nil {
		return nil, h, fmt.Errorf("%w: decode payload with %s: %w", ErrCorrupt, h.Codec, err)
	}
	return snap, h, nil
}
