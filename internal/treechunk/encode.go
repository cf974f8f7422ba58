package treechunk

import (
	"encoding/binary"

	"github.com/zkprover/treechunk64/internal/crypto/scalar"
)

// MaxChunkBytes is the worst-case encoded size: a 16-byte bitmap header
// plus 64 LEAF records of 64 bytes each (32-byte key + 32-byte value).
const MaxChunkBytes = 16 + NumSlots*64

// BitmapHeaderBytes is the size of the two little-endian u64 bitmaps that
// open every encoded chunk.
const BitmapHeaderBytes = 16

// writeBitmaps writes the isZero/isLeaf bitmap header into the first 16
// bytes of buf. The source's two bitmap words are fixed little-endian here
// for on-disk portability (SPEC_FULL.md §9, "Bitmap endianness").
func writeBitmaps(buf []byte, isZero, isLeaf uint64) {
	binary.LittleEndian.PutUint64(buf[0:8], isZero)
	binary.LittleEndian.PutUint64(buf[8:16], isLeaf)
}

// readBitmaps reads the isZero/isLeaf bitmap header. Caller must have
// already checked len(buf) >= BitmapHeaderBytes.
func readBitmaps(buf []byte) (isZero, isLeaf uint64) {
	isZero = binary.LittleEndian.Uint64(buf[0:8])
	isLeaf = binary.LittleEndian.Uint64(buf[8:16])
	return
}

// Encode serializes children64 into the canonical on-wire byte blob and
// sets bDataValid. Idempotent when bDataValid already holds. Does not
// replicate the original encoder's dead intermediate data.resize() calls
// (SPEC_FULL.md §9): this implementation builds directly into one
// fixed-capacity buffer sized once.
func (c *Chunk) Encode() error {
	if c.bDataValid {
		return nil
	}
	c.ensureChildren64()

	var isZero, isLeaf uint64
	buf := make([]byte, BitmapHeaderBytes, MaxChunkBytes)

	for i := 0; i < NumSlots; i++ {
		s := c.children64[i]
		switch s.Tag {
		case TagZero:
			isZero |= 1 << uint(i)
		case TagLeaf:
			isLeaf |= 1 << uint(i)
			keyBytes := scalar.FeaToBytesBE(s.Leaf.Key)
			valBytes := scalar.FeaToBytesBE(s.Leaf.Value)
			buf = append(buf, keyBytes[:]...)
			buf = append(buf, valBytes[:]...)
		case TagIntermediate:
			digest, ok := s.Digest()
			if !ok {
				fatal("encode", c.level, ErrInternalInvariant)
			}
			digestBytes := digest.Bytes()
			buf = append(buf, digestBytes[:]...)
		default:
			fatal("encode", c.level, ErrInternalInvariant)
		}

		if len(buf) > MaxChunkBytes {
			return newChunkErr("encode", c.level, ErrCapacityExceeded)
		}
	}

	writeBitmaps(buf, isZero, isLeaf)

	c.data = buf
	c.bDataValid = true
	return nil
}

// Bytes returns the chunk's canonical encoded form, encoding it first if
// necessary.
func (c *Chunk) Bytes() ([]byte, error) {
	if err := c.Encode(); err != nil {
		return nil, err
	}
	return c.data, nil
}
