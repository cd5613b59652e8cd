package serial

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the frame compression algorithm.
type Compression uint8

const (
	// CompressionNone stores frames as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, good for hot data).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio, good for cold data).
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

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

const (
	frameHeaderSize  = 8
	defaultFrameSize = 256 * 1024
)

// compressFrame appends the framed form of data to dst. Frames that do not
// shrink by at least 10% are stored uncompressed.
func compressFrame(dst, data []byte, c Compression) ([]byte, error) {
	var packed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		packed = buf[:n]
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		packed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	var hdr [frameHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(data)))
	if len(packed) == 0 || float64(len(packed)) > float64(len(data))*0.9 {
		dst = append(dst, hdr[:]...)
		return append(dst, data...), nil
	}
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(packed)))
	dst = append(dst, hdr[:]...)
	return append(dst, packed...), nil
}

// decompressFrames decodes every frame in data and returns the concatenated
// payload.
func decompressFrames(data []byte, c Compression) ([]byte, error) {
	var out []byte
	for len(data) > 0 {
		if len(data) < frameHeaderSize {
			return nil, fmt.Errorf("%w: truncated frame header", ErrCorrupt)
		}
		raw := binary.LittleEndian.Uint32(data[0:])
		stored := binary.LittleEndian.Uint32(data[4:])
		data = data[frameHeaderSize:]

		if stored == 0 {
			if uint64(len(data)) < uint64(raw) {
				return nil, fmt.Errorf("%w: frame extends beyond data", ErrCorrupt)
			}
			out = append(out, data[:raw]...)
			data = data[raw:]
			continue
		}
		if uint64(len(data)) < uint64(stored) {
			return nil, fmt.Errorf("%w: compressed frame extends beyond data", ErrCorrupt)
		}
		packed := data[:stored]
		data = data[stored:]

		start := len(out)
		out = append(out, make([]byte, raw)...)
		switch c {
		case CompressionLZ4:
			n, err := lz4.UncompressBlock(packed, out[start:])
			if err != nil {
				return nil, fmt.Errorf("%w: lz4: %w", ErrCorrupt, err)
			}
			if uint32(n) != raw {
				return nil, fmt.Errorf("%w: lz4 size mismatch", ErrCorrupt)
			}
		case CompressionZSTD:
			dec, err := getZstdDecoder()
			if err != nil {
				return nil, err
			}
			decoded, err := dec.DecodeAll(packed, out[start:start])
			zstdDecoderPool.Put(dec)
			if err != nil {
				return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
			}
			if uint32(len(decoded)) != raw {
				return nil, fmt.Errorf("%w: zstd size mismatch", ErrCorrupt)
			}
		default:
			return nil, fmt.Errorf("%w: compressed frame without compression", ErrCorrupt)
		}
	}
	return out, nil
}

// frameWriter buffers a byte stream and emits it as frames.
type frameWriter struct {
	w     io.Writer
	c     Compression
	size  int
	buf   []byte
	frame []byte
}

func newFrameWriter(w io.Writer, c Compression, size int) *frameWriter {
	if size <= 0 {
		size = defaultFrameSize
	}
	return &frameWriter{w: w, c: c, size: size, buf: make([]byte, 0, size)}
}

func (f *frameWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		if len(f.buf) == f.size {
			if err := f.Flush(); err != nil {
				return total, err
			}
		}
		n := min(len(p), f.size-len(f.buf))
		f.buf = append(f.buf, p[:n]...)
		total += n
		p = p[n:]
	}
	return total, nil
}

// Flush writes the buffered bytes as one frame.
func (f *frameWriter) Flush() error {
	if len(f.buf) == 0 {
		return nil
	}
	var err error
	f.frame, err = compressFrame(f.frame[:0], f.buf, f.c)
	if err != nil {
		return err
	}
	if _, err := f.w.Write(f.frame); err != nil {
		return err
	}
	f.buf = f.buf[:0]
	return nil
}
