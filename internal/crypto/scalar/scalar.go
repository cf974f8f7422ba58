// Package scalar implements the 256-bit big-endian scalar to 4-field-element
// map the wire format's LEAF and INTERMEDIATE records depend on. It mirrors
// the decomposition in the original hashdb64 tree_chunk implementation's
// scalar2fea/ba2scalar/scalar2bytesBE helpers: a 256-bit unsigned integer
// split into four 64-bit big-endian limbs, each lifted independently into
// the field.
package scalar

import (
	"encoding/binary"
	"fmt"

	"github.com/zkprover/treechunk64/internal/crypto/field"
)

// Size is the byte length of one on-wire scalar record (key, value, or
// intermediate digest).
const Size = 32

// BytesToFea decomposes a 32-byte big-endian scalar into 4 field elements,
// most-significant limb first (fea[0] is the top 64 bits).
func BytesToFea(b []byte) ([4]field.Element, error) {
	if len(b) != Size {
		return [4]field.Element{}, fmt.Errorf("scalar: expected %d bytes, got %d", Size, len(b))
	}
	var fea [4]field.Element
	for i := 0; i < 4; i++ {
		limb := binary.BigEndian.Uint64(b[i*8 : i*8+8])
		fea[i] = field.FromUint64(limb)
	}
	return fea, nil
}

// FeaToBytesBE recomposes a 32-byte big-endian scalar from 4 field
// elements. Each element is assumed to already represent a value that fits
// in 64 bits (true for values produced by BytesToFea); callers that derive
// fea from arbitrary field arithmetic must reduce first.
func FeaToBytesBE(fea [4]field.Element) [Size]byte {
	var out [Size]byte
	for i := 0; i < 4; i++ {
		limb := fea[i].BigInt().Uint64()
		binary.BigEndian.PutUint64(out[i*8:i*8+8], limb)
	}
	return out
}
