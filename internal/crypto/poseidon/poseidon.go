// Package poseidon provides the arithmetic hash primitive the tree-chunk
// engine treats as opaque. A Digest is exactly one element of the field
// the permutation operates over: the iden3 BN254 scalar field's modulus is
// just under 2^254, so one element's canonical big-endian encoding already
// fills the wire format's 32-byte digest record (SPEC_FULL.md §4.1) with
// no truncation or multi-element packing needed.
package poseidon

import (
	"math/big"

	iden3poseidon "github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/zkprover/treechunk64/internal/crypto/field"
)

// Digest identifies a sub-tree: one field element produced by the
// Poseidon permutation.
type Digest struct {
	elem field.Element
}

// Zero is the all-zero digest: the canonical "empty sub-tree" marker.
func Zero() Digest {
	return Digest{elem: field.Zero()}
}

// IsZero reports whether d is the all-zero digest.
func (d Digest) IsZero() bool {
	return d.elem.IsZero()
}

// Equal reports whether d and other are the same digest.
func (d Digest) Equal(other Digest) bool {
	return d.elem.Equal(other.elem)
}

// Bytes returns the digest's 32-byte big-endian canonical encoding, the
// exact form an on-wire INTERMEDIATE record stores.
func (d Digest) Bytes() [32]byte {
	return d.elem.Bytes()
}

// FromBytes reconstructs a Digest from its 32-byte big-endian encoding.
func FromBytes(b [32]byte) Digest {
	return Digest{elem: field.FromBigInt(new(big.Int).SetBytes(b[:]))}
}

// FromElement wraps an already-computed field element as a Digest, the
// inverse of Element.
func FromElement(e field.Element) Digest {
	return Digest{elem: e}
}

// Element returns the field element a Digest wraps.
func (d Digest) Element() field.Element {
	return d.elem
}

// Hash combines an arbitrary vector of field elements into one Digest via
// a single Poseidon permutation call.
func Hash(inputs []field.Element) Digest {
	bigInputs := make([]*big.Int, len(inputs))
	for i, in := range inputs {
		bigInputs[i] = in.BigInt()
	}

	h, err := iden3poseidon.Hash(bigInputs)
	if err != nil {
		// The only failure mode of the underlying permutation is an input
		// vector longer than it supports; every caller in this package
		// passes a small, fixed-size vector, so this would be an internal
		// invariant violation, not a data error.
		panic("poseidon: hash of internal fixed-size input vector failed: " + err.Error())
	}
	return Digest{elem: field.FromBigInt(h)}
}

// HashPair combines two child digests into their parent's digest,
// H(left, right) in the collapse rule's notation.
func HashPair(left, right Digest) Digest {
	return Hash([]field.Element{left.elem, right.elem})
}

// LeafMarker derives the domain-separation field element appended to a
// leaf's (key, value) vector before hashing, carrying the depth at which
// the leaf was finalized.
func LeafMarker(level int) field.Element {
	return field.FromUint64(uint64(level))
}

// HashLeaf computes a leaf's digest from its key, its value decomposed
// into four field elements, and the level at which it was finalized.
func HashLeaf(key [4]field.Element, value [4]field.Element, level int) Digest {
	inputs := make([]field.Element, 0, 9)
	inputs = append(inputs, key[:]...)
	inputs = append(inputs, value[:]...)
	inputs = append(inputs, LeafMarker(level))
	return Hash(inputs)
}
