package treechunk

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zkprover/treechunk64/internal/crypto/poseidon"
)

// ComputeRoot reduces children64 through six binary layers into one root
// digest (SPEC_FULL.md §4.3), populating the five intermediate layers,
// child1, and the chunk's cached hash. Idempotent when bHashValid and
// bChildrenRestValid already hold.
func (c *Chunk) ComputeRoot() (poseidon.Digest, error) {
	if c.bHashValid && c.bChildrenRestValid {
		return c.hash, nil
	}
	if c.level%LevelsPerChunk != 0 {
		return poseidon.Digest{}, newChunkErr("computeRoot", c.level, ErrInvalidLevel)
	}
	c.ensureChildren64()

	for _, s := range c.children64 {
		if s.Tag == TagUnspecified {
			fatal("computeRoot", c.level, ErrInternalInvariant)
		}
	}

	layer32, err := reduceLayer(c.children64[:], 5, c.level)
	if err != nil {
		return poseidon.Digest{}, err
	}
	copy(c.layer32[:], layer32)

	layer16, err := reduceLayer(layer32, 4, c.level)
	if err != nil {
		return poseidon.Digest{}, err
	}
	copy(c.layer16[:], layer16)

	layer8, err := reduceLayer(layer16, 3, c.level)
	if err != nil {
		return poseidon.Digest{}, err
	}
	copy(c.layer8[:], layer8)

	layer4, err := reduceLayer(layer8, 2, c.level)
	if err != nil {
		return poseidon.Digest{}, err
	}
	copy(c.layer4[:], layer4)

	layer2, err := reduceLayer(layer4, 1, c.level)
	if err != nil {
		return poseidon.Digest{}, err
	}
	copy(c.layer2[:], layer2)

	root, err := reduceLayer(layer2, 0, c.level)
	if err != nil {
		return poseidon.Digest{}, err
	}
	c.child1 = root[0]

	digest, ok := c.child1.Digest()
	if !ok {
		fatal("computeRoot", c.level, ErrInternalInvariant)
	}

	c.hash = digest
	c.bHashValid = true
	c.bChildrenRestValid = true
	return c.hash, nil
}

// reduceLayer reduces an input layer of slots pairwise into an output
// layer of half the size, at the given output depth (relative to the
// chunk's own level — 0 is the chunk root, produced by reducing the
// 2-slot layer). Pair reductions within this one layer are independent and
// run concurrently; reductions across layers remain strictly sequential
// since each call to reduceLayer fully completes before the next begins.
//
// Errors from concurrent goroutines are collected into a slice indexed by
// pair position rather than raced to the caller, so the lowest pair index
// always wins on a tie — reruns of the same input are guaranteed to report
// the same error (SPEC_FULL.md §4.3, "Parallelism policy").
func reduceLayer(input []Slot, outputDepth int, chunkLevel int) ([]Slot, error) {
	numPairs := len(input) / 2
	output := make([]Slot, numPairs)
	errs := make([]error, numPairs)

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < numPairs; i++ {
		i := i
		g.Go(func() error {
			left := input[2*i]
			right := input[2*i+1]
			s, err := combinePair(left, right, outputDepth, chunkLevel)
			if err != nil {
				errs[i] = err
				return nil
			}
			output[i] = s
			return nil
		})
	}
	// errgroup.Wait only ever returns nil here since goroutines record
	// their own error into errs rather than returning it, which is what
	// makes the lowest-index-wins tie-break deterministic below.
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return output, nil
}

// combinePair implements the 3x3 collapse table of SPEC_FULL.md §4.3 for
// one pair of slots at input depth outputDepth+1, producing one output
// slot at outputDepth.
func combinePair(left, right Slot, outputDepth int, chunkLevel int) (Slot, error) {
	inputLevel := chunkLevel + outputDepth + 1
	rootLevel := chunkLevel

	switch {
	case left.Tag == TagZero && right.Tag == TagZero:
		return ZeroSlot(), nil

	case left.Tag == TagZero && right.Tag == TagLeaf:
		if outputDepth == 0 {
			return finalizeLeaf(right, rootLevel), nil
		}
		return right, nil

	case left.Tag == TagLeaf && right.Tag == TagZero:
		if outputDepth == 0 {
			return finalizeLeaf(left, rootLevel), nil
		}
		return left, nil

	case left.Tag == TagZero && right.Tag == TagIntermediate:
		rd, ok := right.Digest()
		if !ok {
			return Slot{}, internalInvariantErr(chunkLevel)
		}
		return NewIntermediateSlot(poseidon.HashPair(poseidon.Zero(), rd)), nil

	case left.Tag == TagIntermediate && right.Tag == TagZero:
		ld, ok := left.Digest()
		if !ok {
			return Slot{}, internalInvariantErr(chunkLevel)
		}
		return NewIntermediateSlot(poseidon.HashPair(ld, poseidon.Zero())), nil

	case left.Tag == TagLeaf && right.Tag == TagLeaf:
		lf := finalizeLeaf(left, inputLevel)
		rf := finalizeLeaf(right, inputLevel)
		return NewIntermediateSlot(poseidon.HashPair(lf.Leaf.Digest, rf.Leaf.Digest)), nil

	case left.Tag == TagLeaf && right.Tag == TagIntermediate:
		lf := finalizeLeaf(left, inputLevel)
		rd, ok := right.Digest()
		if !ok {
			return Slot{}, internalInvariantErr(chunkLevel)
		}
		return NewIntermediateSlot(poseidon.HashPair(lf.Leaf.Digest, rd)), nil

	case left.Tag == TagIntermediate && right.Tag == TagLeaf:
		ld, ok := left.Digest()
		if !ok {
			return Slot{}, internalInvariantErr(chunkLevel)
		}
		rf := finalizeLeaf(right, inputLevel)
		return NewIntermediateSlot(poseidon.HashPair(ld, rf.Leaf.Digest)), nil

	case left.Tag == TagIntermediate && right.Tag == TagIntermediate:
		ld, ok1 := left.Digest()
		rd, ok2 := right.Digest()
		if !ok1 || !ok2 {
			return Slot{}, internalInvariantErr(chunkLevel)
		}
		return NewIntermediateSlot(poseidon.HashPair(ld, rd)), nil

	default:
		return Slot{}, internalInvariantErr(chunkLevel)
	}
}

// finalizeLeaf returns a copy of a LEAF slot with its level fixed and its
// digest computed, if it is not already finalized. Per the unpaired-leaf
// invariant, a leaf is finalized exactly once — at the depth it first
// meets a non-ZERO sibling or reaches the chunk root alone — so a leaf
// that arrives already finalized is returned unchanged rather than
// finalized again. Collapse itself never passes a finalized leaf upward
// (pass-through slots stay unfinalized, and the root reduction is the last
// one); such a leaf only arrives when a caller stored one in children64. This mirrors the depth-as-parameter design SPEC_FULL.md
// §9 prefers over the original's in-place level mutation: Slot values stay
// immutable, and each layer works from the previous layer's output.
func finalizeLeaf(s Slot, absoluteLevel int) Slot {
	if s.Leaf.Finalized {
		return s
	}
	digest := poseidon.HashLeaf(s.Leaf.Key, s.Leaf.Value, absoluteLevel)
	leaf := s.Leaf
	leaf.Finalized = true
	leaf.Level = absoluteLevel
	leaf.Digest = digest
	return Slot{Tag: TagLeaf, Leaf: leaf}
}

func internalInvariantErr(level int) *ChunkError {
	return newChunkErr("computeRoot", level, ErrInternalInvariant)
}
