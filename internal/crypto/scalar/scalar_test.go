package scalar

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkprover/treechunk64/internal/crypto/field"
)

func TestBytesToFea_RejectsWrongLength(t *testing.T) {
	_, err := BytesToFea(make([]byte, 31))
	require.Error(t, err)
}

func TestBytesToFea_TopLimbIsMostSignificant(t *testing.T) {
	b := make([]byte, Size)
	binary.BigEndian.PutUint64(b[0:8], 0xAAAABBBBCCCCDDDD)

	fea, err := BytesToFea(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xAAAABBBBCCCCDDDD), fea[0].BigInt().Uint64())
	assert.True(t, fea[1].IsZero())
	assert.True(t, fea[2].IsZero())
	assert.True(t, fea[3].IsZero())
}

func TestFeaToBytesBE_RoundTripsWithBytesToFea(t *testing.T) {
	fea := [4]field.Element{
		field.FromUint64(1),
		field.FromUint64(2),
		field.FromUint64(3),
		field.FromUint64(4),
	}

	b := FeaToBytesBE(fea)
	restored, err := BytesToFea(b[:])
	require.NoError(t, err)
	for i := range fea {
		assert.True(t, fea[i].Equal(restored[i]), "limb %d mismatch", i)
	}
}

func TestFeaToBytesBE_ZeroScalar(t *testing.T) {
	var fea [4]field.Element
	b := FeaToBytesBE(fea)
	assert.Equal(t, make([]byte, Size), b[:])
}
