package treechunk

import (
	"encoding/hex"

	"github.com/zkprover/treechunk64/internal/crypto/poseidon"
)

// KVStore is the opaque external collaborator the engine consumes. The
// engine never reads or writes the store itself outside LoadFromStore;
// callers inject bytes everywhere else (SPEC_FULL.md §6).
type KVStore interface {
	Read(digest poseidon.Digest) ([]byte, error)
	Write(digest poseidon.Digest, data []byte) error
}

// DigestKey renders a digest as the canonical hex string KVStore
// implementations key their storage by. It is exposed so storage
// backends built around this package (kvmemory, kvpebble) address the
// same logical key space the engine's digests define.
func DigestKey(d poseidon.Digest) string {
	b := d.Bytes()
	return hex.EncodeToString(b[:])
}

// LoadFromStore reads this chunk's canonical bytes from kv keyed by
// digest, sets bDataValid and bHashValid (with hash = digest), and clears
// both children flags — the loaded bytes are trusted to decode into the
// same children64 the digest commits to, but that correspondence is only
// checked lazily, the next time Decode or ComputeRoot runs.
func (c *Chunk) LoadFromStore(kv KVStore, digest poseidon.Digest) error {
	data, err := kv.Read(digest)
	if err != nil {
		return wrapStoreErr("loadFromStore", c.level, err)
	}
	c.data = data
	c.bDataValid = true
	c.hash = digest
	c.bHashValid = true
	c.bChildren64Valid = false
	c.bChildrenRestValid = false
	return nil
}
