// Package field wraps a single element of the prime field used by the
// Poseidon permutation. It is deliberately thin: the tree-chunk engine
// treats Field as an opaque scalar with a distinguished zero value and
// never reaches into its internal representation.
package field

import (
	"math/big"

	"github.com/iden3/go-iden3-crypto/ff"
)

// Element is an opaque prime-field scalar.
type Element struct {
	inner ff.Element
}

// Zero returns the distinguished zero element.
func Zero() Element {
	var e Element
	e.inner.SetZero()
	return e
}

// FromUint64 lifts a machine word into the field.
func FromUint64(v uint64) Element {
	var e Element
	e.inner.SetUint64(v)
	return e
}

// FromBigInt reduces an arbitrary-precision integer into the field.
func FromBigInt(v *big.Int) Element {
	var e Element
	e.inner.SetBigInt(v)
	return e
}

// BigInt returns the element's canonical big.Int representation.
func (e Element) BigInt() *big.Int {
	var out big.Int
	e.inner.ToBigIntRegular(&out)
	return &out
}

// IsZero reports whether e is the distinguished zero element.
func (e Element) IsZero() bool {
	return e.inner.IsZero()
}

// Equal reports whether e and other represent the same field value.
func (e Element) Equal(other Element) bool {
	return e.inner.Equal(&other.inner)
}

// Bytes returns the element's big-endian canonical encoding.
func (e Element) Bytes() [32]byte {
	return e.inner.Bytes()
}

// String renders the element in decimal for diagnostics.
func (e Element) String() string {
	return e.inner.String()
}
