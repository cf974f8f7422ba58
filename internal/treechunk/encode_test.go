package treechunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkprover/treechunk64/internal/crypto/field"
	"github.com/zkprover/treechunk64/internal/crypto/poseidon"
)

// TestEncode_EmptyChunk covers S1: an all-ZERO chunk encodes to exactly the
// 16-byte bitmap header, with both bitmap words showing every slot empty.
func TestEncode_EmptyChunk(t *testing.T) {
	c, err := NewEmpty(0)
	require.NoError(t, err)

	require.NoError(t, c.Encode())
	data, err := c.Bytes()
	require.NoError(t, err)

	require.Len(t, data, BitmapHeaderBytes)
	isZero, isLeaf := readBitmaps(data)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), isZero)
	assert.Equal(t, uint64(0), isLeaf)
}

// TestEncode_SingleLeaf covers S2: one LEAF slot among 63 ZERO slots encodes
// to the 16-byte header plus one 64-byte LEAF record.
func TestEncode_SingleLeaf(t *testing.T) {
	c, err := NewEmpty(0)
	require.NoError(t, err)

	key := randFea(10)
	value := randFea(20)
	c.MutateSlot(5, NewLeafSlot(key, value))

	data, err := c.Bytes()
	require.NoError(t, err)
	require.Len(t, data, BitmapHeaderBytes+leafRecordBytes)

	isZero, isLeaf := readBitmaps(data)
	assert.Equal(t, uint64(1)<<5, isLeaf)
	assert.Equal(t, ^(uint64(1) << 5), isZero)
}

func TestEncode_IsIdempotent(t *testing.T) {
	c, err := NewEmpty(0)
	require.NoError(t, err)
	c.MutateSlot(0, NewLeafSlot(randFea(1), randFea(2)))

	first, err := c.Bytes()
	require.NoError(t, err)
	second, err := c.Bytes()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncode_IntermediateSlotWritesDigestRecord(t *testing.T) {
	c, err := NewEmpty(0)
	require.NoError(t, err)

	digest := poseidon.FromElement(field.FromUint64(7))
	c.MutateSlot(0, NewIntermediateSlot(digest))

	data, err := c.Bytes()
	require.NoError(t, err)
	require.Len(t, data, BitmapHeaderBytes+interRecordBytes)

	digestBytes := digest.Bytes()
	assert.Equal(t, digestBytes[:], data[BitmapHeaderBytes:BitmapHeaderBytes+interRecordBytes])
}

// TestEncode_FullyLeafedChunkHitsMaxChunkBytesExactly pins the worst-case
// size boundary: all 64 slots as LEAF records is the one input that reaches
// MaxChunkBytes exactly. CapacityExceeded itself is unreachable through this
// package's public API, since no slot shape encodes to more than a LEAF
// record and 64 of those is the theoretical maximum.
func TestEncode_FullyLeafedChunkHitsMaxChunkBytesExactly(t *testing.T) {
	c, err := NewEmpty(0)
	require.NoError(t, err)
	for i := 0; i < NumSlots; i++ {
		c.MutateSlot(i, NewLeafSlot(randFea(uint64(i)), randFea(uint64(i+1))))
	}

	data, err := c.Bytes()
	require.NoError(t, err)
	assert.Len(t, data, MaxChunkBytes)
}
