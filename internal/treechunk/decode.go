package treechunk

import (
	"github.com/zkprover/treechunk64/internal/crypto/poseidon"
	"github.com/zkprover/treechunk64/internal/crypto/scalar"
)

// leafRecordBytes is the on-wire size of one LEAF record (32-byte key +
// 32-byte value).
const leafRecordBytes = 2 * scalar.Size

// interRecordBytes is the on-wire size of one INTERMEDIATE record (32-byte
// digest).
const interRecordBytes = scalar.Size

// Decode parses data into 64 typed slots and sets bChildren64Valid.
// Idempotent when bChildren64Valid already holds. Leaves children64
// untouched and returns ErrMalformedChunk if the blob is too short for its
// own bitmap header or for any per-slot record it declares.
func (c *Chunk) Decode() error {
	if c.bChildren64Valid {
		return nil
	}
	if !c.bDataValid {
		fatal("decode", c.level, ErrMissingRepresentation)
	}

	data := c.data
	if len(data) < BitmapHeaderBytes {
		return newChunkErr("decode", c.level, ErrMalformedChunk)
	}
	isZero, isLeaf := readBitmaps(data)

	var children [NumSlots]Slot
	offset := BitmapHeaderBytes

	for i := 0; i < NumSlots; i++ {
		bit := uint64(1) << uint(i)
		switch {
		case isZero&bit != 0:
			// isZero takes precedence over isLeaf for the same slot
			// (SPEC_FULL.md §4.1, "Tie-breaks").
			children[i] = ZeroSlot()
		case isLeaf&bit != 0:
			if offset+leafRecordBytes > len(data) {
				return newChunkErr("decode", c.level, ErrMalformedChunk)
			}
			key, err := scalar.BytesToFea(data[offset : offset+scalar.Size])
			if err != nil {
				return newChunkErr("decode", c.level, ErrMalformedChunk)
			}
			value, err := scalar.BytesToFea(data[offset+scalar.Size : offset+leafRecordBytes])
			if err != nil {
				return newChunkErr("decode", c.level, ErrMalformedChunk)
			}
			children[i] = NewLeafSlot(key, value)
			offset += leafRecordBytes
		default:
			if offset+interRecordBytes > len(data) {
				return newChunkErr("decode", c.level, ErrMalformedChunk)
			}
			var raw [scalar.Size]byte
			copy(raw[:], data[offset:offset+interRecordBytes])
			children[i] = NewIntermediateSlot(poseidon.FromBytes(raw))
			offset += interRecordBytes
		}
	}

	c.children64 = children
	c.bChildren64Valid = true
	return nil
}
