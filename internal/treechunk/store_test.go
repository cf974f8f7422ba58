package treechunk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkprover/treechunk64/internal/crypto/field"
	"github.com/zkprover/treechunk64/internal/storage/kvmemory"
	"github.com/zkprover/treechunk64/internal/treechunk"
)

func TestLoadFromStore_RoundTripsThroughComputeRoot(t *testing.T) {
	kv := kvmemory.New()

	original, err := treechunk.NewEmpty(0)
	require.NoError(t, err)
	original.MutateSlot(1, treechunk.NewLeafSlot(fea(1), fea(2)))
	original.MutateSlot(40, treechunk.NewLeafSlot(fea(3), fea(4)))

	digest, err := original.ComputeRoot()
	require.NoError(t, err)
	data, err := original.Bytes()
	require.NoError(t, err)
	require.NoError(t, kv.Write(digest, data))

	loaded, err := treechunk.NewEmpty(0)
	require.NoError(t, err)
	require.NoError(t, loaded.LoadFromStore(kv, digest))

	require.NoError(t, loaded.Decode())
	recomputed, err := loaded.ComputeRoot()
	require.NoError(t, err)
	assert.True(t, digest.Equal(recomputed))
}

func TestLoadFromStore_MissingDigestWrapsStoreError(t *testing.T) {
	kv := kvmemory.New()
	c, err := treechunk.NewEmpty(0)
	require.NoError(t, err)

	missing, err := treechunk.NewEmpty(0)
	require.NoError(t, err)
	digest, err := missing.ComputeRoot()
	require.NoError(t, err)

	err = c.LoadFromStore(kv, digest)
	require.Error(t, err)
	assert.ErrorIs(t, err, treechunk.ErrStore)
}

func TestDigestKey_IsStableAndDistinct(t *testing.T) {
	a, err := treechunk.NewEmpty(0)
	require.NoError(t, err)
	a.MutateSlot(0, treechunk.NewLeafSlot(fea(1), fea(2)))
	digestA, err := a.ComputeRoot()
	require.NoError(t, err)

	b, err := treechunk.NewEmpty(0)
	require.NoError(t, err)
	b.MutateSlot(0, treechunk.NewLeafSlot(fea(5), fea(6)))
	digestB, err := b.ComputeRoot()
	require.NoError(t, err)

	assert.Equal(t, treechunk.DigestKey(digestA), treechunk.DigestKey(digestA))
	assert.NotEqual(t, treechunk.DigestKey(digestA), treechunk.DigestKey(digestB))
}

func fea(seed uint64) [4]field.Element {
	return [4]field.Element{
		field.FromUint64(seed),
		field.FromUint64(seed + 100),
		field.FromUint64(seed + 200),
		field.FromUint64(seed + 300),
	}
}
