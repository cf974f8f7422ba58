package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/zkprover/treechunk64/internal/crypto/poseidon"
	"github.com/zkprover/treechunk64/internal/crypto/scalar"
)

// parseDigest decodes the 64-hex-character (32-byte) representation a
// digest round-trips to on the command line.
func parseDigest(s string) (poseidon.Digest, error) {
	var zero poseidon.Digest

	raw, err := hex.DecodeString(s)
	if err != nil {
		return zero, fmt.Errorf("invalid hex digest: %w", err)
	}
	if len(raw) != scalar.Size {
		return zero, fmt.Errorf("digest must be %d bytes, got %d", scalar.Size, len(raw))
	}

	var b [scalar.Size]byte
	copy(b[:], raw)
	return poseidon.FromBytes(b), nil
}
