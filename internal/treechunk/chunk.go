// Package treechunk implements the tree-chunk engine of an SMT64 sparse
// Merkle tree: encoding/decoding one 64-slot chunk to/from its on-disk byte
// form, and collapsing its 64 slots into one Merkle root via an arithmetic
// hash function over a prime field. See SPEC_FULL.md for the full contract.
package treechunk

import (
	"github.com/zkprover/treechunk64/internal/crypto/poseidon"
)

// NumSlots is the fixed fanout of one chunk.
const NumSlots = 64

// LevelsPerChunk is the number of binary tree levels one chunk covers.
const LevelsPerChunk = 6

// Chunk owns the three redundant, validity-flag-guarded representations of
// one 64-slot unit of an SMT64 tree, plus its root digest.
//
// Exactly one representation is canonical at any instant; the others are
// memoised. Callers must never observe data and children64 disagreeing, or
// a stale hash after a mutation — the validity flags enforce this.
type Chunk struct {
	level int

	data       []byte
	bDataValid bool

	children64       [NumSlots]Slot
	bChildren64Valid bool

	layer32            [32]Slot
	layer16            [16]Slot
	layer8             [8]Slot
	layer4             [4]Slot
	layer2             [2]Slot
	child1             Slot
	bChildrenRestValid bool

	hash       poseidon.Digest
	bHashValid bool
}

// NewEmpty constructs a Chunk at the given tree level (must be a multiple
// of LevelsPerChunk) with all 64 slots set to ZERO.
func NewEmpty(level int) (*Chunk, error) {
	if level%LevelsPerChunk != 0 {
		return nil, newChunkErr("newEmpty", level, ErrInvalidLevel)
	}
	c := &Chunk{level: level}
	for i := range c.children64 {
		c.children64[i] = ZeroSlot()
	}
	c.bChildren64Valid = true
	return c, nil
}

// Level returns the chunk's position in the tree.
func (c *Chunk) Level() int {
	return c.level
}

// Slot returns a copy of the slot at the given index of the 64-slot layer.
// Panics if children64 is not populated and the caller has not called
// Decode or LoadFromStore first, matching invariant 2 of SPEC_FULL.md §3.
func (c *Chunk) Slot(index int) Slot {
	c.ensureChildren64()
	return c.children64[index]
}

// MutateSlot overwrites the slot at the given index. Per SPEC_FULL.md §3
// ("Lifecycle"), this invalidates bDataValid, bHashValid, and
// bChildrenRestValid — the byte form, the root digest, and the
// intermediate layers no longer reflect children64 until recomputed.
func (c *Chunk) MutateSlot(index int, s Slot) {
	c.ensureChildren64()
	c.children64[index] = s
	c.bDataValid = false
	c.bHashValid = false
	c.bChildrenRestValid = false
}

// ensureChildren64 enforces invariant 2: at least one of bDataValid,
// bChildren64Valid must hold before any derived operation runs.
func (c *Chunk) ensureChildren64() {
	if c.bChildren64Valid {
		return
	}
	if c.bDataValid {
		if err := c.Decode(); err != nil {
			fatal("ensureChildren64", c.level, ErrMissingRepresentation)
		}
		return
	}
	fatal("ensureChildren64", c.level, ErrMissingRepresentation)
}

// NonZeroChildCount returns the number of non-ZERO slots in children64,
// preferring the O(1) popcount of data's isZero bitmap when bDataValid
// holds and falling back to scanning children64 otherwise.
func (c *Chunk) NonZeroChildCount() int {
	if c.bDataValid {
		isZero, _ := readBitmaps(c.data)
		return NumSlots - popcount64(isZero)
	}
	if c.bChildren64Valid {
		n := 0
		for _, s := range c.children64 {
			if s.Tag != TagZero {
				n++
			}
		}
		return n
	}
	fatal("nonZeroChildCount", c.level, ErrMissingRepresentation)
	return 0
}

// Digest returns the chunk's root digest, computing it via ComputeRoot if
// it is not already cached.
func (c *Chunk) Digest() (poseidon.Digest, error) {
	if c.bHashValid {
		return c.hash, nil
	}
	return c.ComputeRoot()
}

func popcount64(v uint64) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}
