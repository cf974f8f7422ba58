package compression

import (
	"fmt"

	"github.com/pierrec/lz4"
)

// NoCompressor is a pass-through, used when compression is disabled by
// configuration.
type NoCompressor struct{}

func (c *NoCompressor) Name() string { return "none" }

func (c *NoCompressor) Compress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (c *NoCompressor) Decompress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// LZ4Compressor compresses chunk blobs with LZ4 block compression, the
// same library and API the teacher repository's nodestore compression
// layer uses.
//
// lz4.CompressBlock returns n == 0, nil (not an error) when the input is
// too incompressible to fit a block at all — a documented behavior of the
// pierrec/lz4 block API, not a failure. Every stored blob therefore carries
// a one-byte tag ahead of its payload recording whether that payload is a
// raw fallback or an actual LZ4 block, so an incompressible chunk round
// trips instead of silently losing its data to an empty slice.
type LZ4Compressor struct{}

func (c *LZ4Compressor) Name() string { return "lz4" }

const (
	tagRaw        byte = 0
	tagCompressed byte = 1
)

func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	maxSize := lz4.CompressBlockBound(len(data))
	compressed := make([]byte, maxSize)
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("compression: lz4 compress: %w", err)
	}
	if n == 0 {
		out := make([]byte, 1+len(data))
		out[0] = tagRaw
		copy(out[1:], data)
		return out, nil
	}

	out := make([]byte, 1+n)
	out[0] = tagCompressed
	copy(out[1:], compressed[:n])
	return out, nil
}

func (c *LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	tag, body := data[0], data[1:]
	switch tag {
	case tagRaw:
		out := make([]byte, len(body))
		copy(out, body)
		return out, nil
	case tagCompressed:
		for bufSize := len(body) * 2; bufSize <= len(body)*64; bufSize *= 2 {
			out := make([]byte, bufSize)
			n, err := lz4.UncompressBlock(body, out)
			if err == nil {
				return out[:n], nil
			}
		}
		return nil, fmt.Errorf("compression: lz4 decompress failed after growing buffer")
	default:
		return nil, fmt.Errorf("compression: lz4 decompress: unknown block tag %d", tag)
	}
}
