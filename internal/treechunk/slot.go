package treechunk

import (
	"github.com/zkprover/treechunk64/internal/crypto/field"
	"github.com/zkprover/treechunk64/internal/crypto/poseidon"
)

// SlotTag distinguishes the four shapes a Slot can take.
type SlotTag uint8

const (
	// TagUnspecified is the zero value: an uninitialised placeholder. It
	// is a bug for any slot of the 64-slot layer to still carry this tag
	// once encode/collapse runs; it is expected and harmless for the
	// five intermediate collapse layers before computeRoot populates them.
	TagUnspecified SlotTag = iota
	// TagZero marks an empty sub-tree: no payload, digest is the all-zero
	// digest.
	TagZero
	// TagLeaf carries a LeafPayload.
	TagLeaf
	// TagIntermediate carries an InterPayload.
	TagIntermediate
)

func (t SlotTag) String() string {
	switch t {
	case TagUnspecified:
		return "UNSPECIFIED"
	case TagZero:
		return "ZERO"
	case TagLeaf:
		return "LEAF"
	case TagIntermediate:
		return "INTERMEDIATE"
	default:
		return "INVALID"
	}
}

// LeafPayload is the content of a LEAF slot: a key, a 256-bit value, and
// the binary depth at which the leaf was finalized during collapse. Level
// and Digest are only meaningful once Finalized is true; an unfinalized
// leaf still bubbling up through ZERO siblings carries neither.
type LeafPayload struct {
	Key   [4]field.Element
	Value [4]field.Element

	Finalized bool
	// Level is the absolute tree depth (chunk.level + relative collapse
	// depth) at which this leaf was finalized. The original implementation
	// packs this into a 6-bit field on the assumption a leaf finalizes
	// within its own chunk (relative depth 0..6); this repository stores
	// the full absolute depth as a plain int since nothing below depends
	// on the packed width.
	Level  int
	Digest poseidon.Digest
}

// InterPayload is the content of an INTERMEDIATE slot: a precomputed
// sub-tree digest.
type InterPayload struct {
	Digest poseidon.Digest
}

// Slot is the tagged variant every position in a Chunk's 64-slot layer (and
// every position in its five intermediate collapse layers) takes. Only the
// payload matching Tag is meaningful; the others are zero values.
type Slot struct {
	Tag   SlotTag
	Leaf  LeafPayload
	Inter InterPayload
}

// ZeroSlot returns a slot representing an empty sub-tree.
func ZeroSlot() Slot {
	return Slot{Tag: TagZero}
}

// NewLeafSlot returns an unfinalized LEAF slot: its level and digest are
// not yet known, since those depend on the depth at which it meets a
// non-ZERO sibling during collapse (see SPEC_FULL.md §4.3).
func NewLeafSlot(key, value [4]field.Element) Slot {
	return Slot{Tag: TagLeaf, Leaf: LeafPayload{Key: key, Value: value}}
}

// NewIntermediateSlot returns an INTERMEDIATE slot carrying a precomputed
// digest, as produced by decoding an on-wire record or by a collapse step.
func NewIntermediateSlot(digest poseidon.Digest) Slot {
	return Slot{Tag: TagIntermediate, Inter: InterPayload{Digest: digest}}
}

// Digest returns the slot's digest contribution to a parent hash. It is
// only valid to call on ZERO, finalized LEAF, or INTERMEDIATE slots; an
// unfinalized LEAF has no well-defined digest until collapse assigns it a
// level, and UNSPECIFIED has none at all.
func (s Slot) Digest() (poseidon.Digest, bool) {
	switch s.Tag {
	case TagZero:
		return poseidon.Zero(), true
	case TagIntermediate:
		return s.Inter.Digest, true
	case TagLeaf:
		if s.Leaf.Finalized {
			return s.Leaf.Digest, true
		}
		return poseidon.Digest{}, false
	default:
		return poseidon.Digest{}, false
	}
}
