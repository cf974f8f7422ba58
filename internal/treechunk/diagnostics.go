package treechunk

import (
	"fmt"
	"strings"

	"github.com/zkprover/treechunk64/internal/crypto/poseidon"
)

// DiagnosticDump produces a human-readable description of the chunk: its
// level, its root digest if known, and a per-layer type-letter summary
// mirroring the original implementation's print() — Z for ZERO, L for
// LEAF, I for INTERMEDIATE, U for UNSPECIFIED. This is a pure inspection
// function; it consumes no validity flags and mutates none.
func (c *Chunk) DiagnosticDump() string {
	var b strings.Builder

	fmt.Fprintf(&b, "level=%d\n", c.level)
	if c.bHashValid {
		fmt.Fprintf(&b, "hash=%s\n", digestString(c.hash))
	} else {
		fmt.Fprintf(&b, "hash=<unknown>\n")
	}

	if c.bChildren64Valid {
		fmt.Fprintf(&b, "children64: %s\n", layerLetters(c.children64[:]))
	}
	if c.bChildrenRestValid {
		fmt.Fprintf(&b, "layer32:    %s\n", layerLetters(c.layer32[:]))
		fmt.Fprintf(&b, "layer16:    %s\n", layerLetters(c.layer16[:]))
		fmt.Fprintf(&b, "layer8:     %s\n", layerLetters(c.layer8[:]))
		fmt.Fprintf(&b, "layer4:     %s\n", layerLetters(c.layer4[:]))
		fmt.Fprintf(&b, "layer2:     %s\n", layerLetters(c.layer2[:]))
		fmt.Fprintf(&b, "child1:     %s\n", layerLetters([]Slot{c.child1}))
	}

	if c.bChildren64Valid {
		for i, s := range c.children64 {
			if s.Tag == TagZero {
				continue
			}
			switch s.Tag {
			case TagLeaf:
				fmt.Fprintf(&b, "  [%02d] LEAF finalized=%v level=%d digest=%s\n",
					i, s.Leaf.Finalized, s.Leaf.Level, digestString(s.Leaf.Digest))
			case TagIntermediate:
				fmt.Fprintf(&b, "  [%02d] INTERMEDIATE digest=%s\n", i, digestString(s.Inter.Digest))
			default:
				fmt.Fprintf(&b, "  [%02d] %s\n", i, s.Tag)
			}
		}
	}

	return b.String()
}

func layerLetters(slots []Slot) string {
	letters := make([]byte, len(slots))
	for i, s := range slots {
		switch s.Tag {
		case TagZero:
			letters[i] = 'Z'
		case TagLeaf:
			letters[i] = 'L'
		case TagIntermediate:
			letters[i] = 'I'
		default:
			letters[i] = 'U'
		}
	}
	return string(letters)
}

func digestString(d poseidon.Digest) string {
	b := d.Bytes()
	return fmt.Sprintf("%x", b)
}
