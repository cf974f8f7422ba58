package treechunk

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkprover/treechunk64/internal/crypto/field"
	"github.com/zkprover/treechunk64/internal/crypto/poseidon"
)

func loadFromBytes(t *testing.T, data []byte) *Chunk {
	t.Helper()
	c := &Chunk{level: 0, data: data, bDataValid: true}
	return c
}

// TestDecode_TooShortForHeader covers S5: a blob shorter than the 16-byte
// bitmap header is rejected as malformed.
func TestDecode_TooShortForHeader(t *testing.T) {
	c := loadFromBytes(t, []byte{0x01, 0x02, 0x03})
	err := c.Decode()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedChunk)
}

// TestDecode_TruncatedLeafRecord covers S5's other shape: a bitmap header
// claiming a LEAF record that the blob doesn't have room for.
func TestDecode_TruncatedLeafRecord(t *testing.T) {
	buf := make([]byte, BitmapHeaderBytes, BitmapHeaderBytes+10)
	isLeaf := uint64(1)
	isZero := ^isLeaf
	writeBitmaps(buf, isZero, isLeaf)
	buf = append(buf, make([]byte, 10)...) // short by 54 bytes of the 64 required

	c := loadFromBytes(t, buf)
	err := c.Decode()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedChunk)
}

func TestDecode_TruncatedIntermediateRecord(t *testing.T) {
	buf := make([]byte, BitmapHeaderBytes, BitmapHeaderBytes+5)
	writeBitmaps(buf, 0, 0) // slot 0 is neither zero nor leaf -> INTERMEDIATE
	buf = append(buf, make([]byte, 5)...)

	c := loadFromBytes(t, buf)
	err := c.Decode()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedChunk)
}

func TestDecode_IsIdempotent(t *testing.T) {
	c, err := NewEmpty(0)
	require.NoError(t, err)
	c.MutateSlot(0, NewLeafSlot(randFea(1), randFea(2)))
	data, err := c.Bytes()
	require.NoError(t, err)

	loaded := loadFromBytes(t, data)
	require.NoError(t, loaded.Decode())
	first := loaded.children64
	require.NoError(t, loaded.Decode())
	assert.Equal(t, first, loaded.children64)
}

// TestRoundTrip_Randomized covers S6 and testable property 1 (round-trip
// fidelity): encoding a randomly populated chunk and decoding it back
// reproduces the same LEAF key/value pairs and INTERMEDIATE digests,
// iterated many times over varied fill patterns.
func TestRoundTrip_Randomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 1000; iter++ {
		c, err := NewEmpty(0)
		require.NoError(t, err)

		want := make([]Slot, NumSlots)
		for i := range want {
			switch rng.Intn(3) {
			case 0:
				want[i] = ZeroSlot()
			case 1:
				key := randomFeaRT(rng)
				value := randomFeaRT(rng)
				want[i] = NewLeafSlot(key, value)
			case 2:
				digest := poseidon.FromElement(field.FromUint64(rng.Uint64()))
				want[i] = NewIntermediateSlot(digest)
			}
			c.MutateSlot(i, want[i])
		}

		data, err := c.Bytes()
		require.NoError(t, err)
		require.LessOrEqual(t, len(data), MaxChunkBytes)

		decoded := loadFromBytes(t, data)
		require.NoError(t, decoded.Decode())

		for i := 0; i < NumSlots; i++ {
			wantSlot := want[i]
			gotSlot := decoded.children64[i]
			require.Equal(t, wantSlot.Tag, gotSlot.Tag, "slot %d tag mismatch on iteration %d", i, iter)

			switch wantSlot.Tag {
			case TagLeaf:
				assert.Equal(t, wantSlot.Leaf.Key, gotSlot.Leaf.Key)
				assert.Equal(t, wantSlot.Leaf.Value, gotSlot.Leaf.Value)
			case TagIntermediate:
				assert.True(t, wantSlot.Inter.Digest.Equal(gotSlot.Inter.Digest))
			}
		}
	}
}

func randomFeaRT(rng *rand.Rand) [4]field.Element {
	var out [4]field.Element
	for i := range out {
		out[i] = field.FromUint64(rng.Uint64())
	}
	return out
}
