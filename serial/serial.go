package serial

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/internal/gap"
	"github.com/hupe1980/bitagg/internal/hash"
	"github.com/hupe1980/bitagg/internal/layout"
)

const (
	// Version is the current format version.
	Version = 1

	headerSize   = 4 + 1 + 1 + 2 + 8 + 4 + 4
	checksumSize = hash.TrailerSize
)

var magic = [4]byte{'B', 'A', 'G', 'V'}

var (
	// ErrCorrupt is returned for data that does not follow the format.
	ErrCorrupt = errors.New("serial: corrupt data")

	// ErrChecksum is returned when the trailing checksum does not match.
	ErrChecksum = errors.New("serial: checksum mismatch")

	// ErrVersion is returned for an unsupported format version.
	ErrVersion = errors.New("serial: unsupported version")
)

type options struct {
	compression Compression
	frameSize   int
}

// Option configures encoding.
type Option func(*options)

// WithCompression sets the frame compression. Defaults to CompressionNone.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithFrameSize sets the uncompressed frame size in bytes. Defaults to 256 KiB.
func WithFrameSize(n int) Option {
	return func(o *options) {
		o.frameSize = n
	}
}

// Marshal encodes v.
func Marshal(v *bvector.BVector, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Write(&buf, v, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes v to w and returns the number of bytes written.
func Write(w io.Writer, v *bvector.BVector, opts ...Option) (int64, error) {
	o := options{frameSize: defaultFrameSize}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.compression.valid() {
		return 0, fmt.Errorf("serial: unknown compression %s", o.compression)
	}

	cw := &countingWriter{w: w}
	crc := hash.NewCRC32C()
	out := io.MultiWriter(cw, crc)

	var blocks uint32
	v.ForEachBlock(func(_, _ int, _ bvector.Block) bool {
		blocks++
		return true
	})

	var hdr [headerSize]byte
	copy(hdr[0:4], magic[:])
	hdr[4] = Version
	hdr[5] = byte(o.compression)
	binary.LittleEndian.PutUint64(hdr[8:], v.Size())
	binary.LittleEndian.PutUint32(hdr[16:], uint32(v.TopBlocks()))
	binary.LittleEndian.PutUint32(hdr[20:], blocks)
	if _, err := out.Write(hdr[:]); err != nil {
		return cw.n, err
	}

	fw := newFrameWriter(out, o.compression, o.frameSize)
	bw := bufio.NewWriter(fw)
	var err error
	v.ForEachBlock(func(i, j int, b bvector.Block) bool {
		err = writeBlock(bw, i, j, b)
		return err == nil
	})
	if err != nil {
		return cw.n, err
	}
	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	if err := fw.Flush(); err != nil {
		return cw.n, err
	}

	sum := hash.Trailer(crc.Sum32())
	if _, err := cw.Write(sum[:]); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

func writeBlock(w *bufio.Writer, i, j int, b bvector.Block) error {
	if b.Kind() == bvector.KindGap && len(b.Runs()) > math.MaxUint16 {
		var tmp layout.Words
		b.Runs().ToWords(&tmp)
		b = bvector.Dense(&tmp)
	}
	if _, err := w.Write([]byte{byte(i), byte(j), byte(b.Kind())}); err != nil {
		return err
	}
	switch b.Kind() {
	case bvector.KindDense:
		var buf [8]byte
		for _, word := range b.Words() {
			binary.LittleEndian.PutUint64(buf[:], word)
			if _, err := w.Write(buf[:]); err != nil {
				return err
			}
		}
	case bvector.KindGap:
		runs := b.Runs()
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(len(runs)))
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
		for _, x := range runs {
			binary.LittleEndian.PutUint16(buf[:], x)
			if _, err := w.Write(buf[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read decodes a bit-vector from r. opts configure the new vector, for
// example its allocator.
func Read(r io.Reader, opts ...bvector.Option) (*bvector.BVector, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data, opts...)
}

// Unmarshal decodes a bit-vector from data.
func Unmarshal(data []byte, opts ...bvector.Option) (*bvector.BVector, error) {
	if len(data) < headerSize+checksumSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(data))
	}
	if !bytes.Equal(data[0:4], magic[:]) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, data[0:4])
	}
	if data[4] != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, data[4])
	}
	body, want, got := hash.SplitTrailer(data)
	if want != got {
		return nil, fmt.Errorf("%w: stored %08x, computed %08x", ErrChecksum, want, got)
	}

	c := Compression(data[5])
	if !c.valid() {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, data[5])
	}
	size := binary.LittleEndian.Uint64(data[8:])
	top := binary.LittleEndian.Uint32(data[16:])
	blocks := binary.LittleEndian.Uint32(data[20:])
	if size > layout.MaxSize || top > layout.TopBlocks {
		return nil, fmt.Errorf("%w: size %d, top %d", ErrCorrupt, size, top)
	}

	stream, err := decompressFrames(body[headerSize:], c)
	if err != nil {
		return nil, err
	}

	v := bvector.New(append([]bvector.Option{bvector.WithSize(size)}, opts...)...)
	v.InitTree()
	v.ReserveTop(int(top))
	d := decoder{buf: stream, top: int(top)}
	for k := uint32(0); k < blocks; k++ {
		if err := d.block(v); err != nil {
			v.Clear()
			return nil, fmt.Errorf("block %d: %w", k, err)
		}
	}
	if len(d.buf) != 0 {
		v.Clear()
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(d.buf))
	}
	return v, nil
}

type decoder struct {
	buf []byte
	top int
}

func (d *decoder) next(n int) ([]byte, error) {
	if len(d.buf) < n {
		return nil, fmt.Errorf("%w: unexpected end of block stream", ErrCorrupt)
	}
	p := d.buf[:n]
	d.buf = d.buf[n:]
	return p, nil
}

func (d *decoder) block(v *bvector.BVector) error {
	p, err := d.next(3)
	if err != nil {
		return err
	}
	i, j, kind := int(p[0]), int(p[1]), bvector.Kind(p[2])
	if i >= d.top {
		return fmt.Errorf("%w: block (%d, %d) outside top extent %d", ErrCorrupt, i, j, d.top)
	}

	switch kind {
	case bvector.KindAllOnes:
		v.SetBlock(i, j, bvector.AllOnes())
	case bvector.KindDense:
		p, err := d.next(layout.BlockBytes)
		if err != nil {
			return err
		}
		w, err := v.Allocator().AllocDense()
		if err != nil {
			return err
		}
		for k := range w {
			w[k] = binary.LittleEndian.Uint64(p[8*k:])
		}
		v.SetBlock(i, j, bvector.Dense(w))
	case bvector.KindGap:
		p, err := d.next(2)
		if err != nil {
			return err
		}
		n := int(binary.LittleEndian.Uint16(p))
		if p, err = d.next(2 * n); err != nil {
			return err
		}
		runs := make(gap.Block, n)
		for k := range runs {
			runs[k] = binary.LittleEndian.Uint16(p[2*k:])
		}
		if err := runs.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		v.SetBlock(i, j, bvector.Gap(runs))
	default:
		return fmt.Errorf("%w: block kind %d", ErrCorrupt, kind)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
