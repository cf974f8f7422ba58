// Package kvmemory is an in-memory KVStore implementation used by engine
// tests and short-lived chunk stores. It mirrors the teacher's
// internal/core/shamap/memory_family.go and
// internal/storage/nodestore/backing.go memoryBackstore: a mutex-guarded
// map returning defensive copies, no persistence, no eviction.
package kvmemory

import (
	"fmt"
	"sync"

	"github.com/zkprover/treechunk64/internal/crypto/poseidon"
	"github.com/zkprover/treechunk64/internal/treechunk"
)

// ErrNotFound is returned by Read when no value has been written for the
// requested digest.
var ErrNotFound = fmt.Errorf("kvmemory: not found")

// Store is a sync.RWMutex-guarded in-memory KVStore keyed by the
// treechunk package's canonical digest hex encoding.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Read implements treechunk.KVStore.
func (s *Store) Read(digest poseidon.Digest) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.data[treechunk.DigestKey(digest)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// Write implements treechunk.KVStore.
func (s *Store) Write(digest poseidon.Digest, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	s.data[treechunk.DigestKey(digest)] = cp
	return nil
}

// Len reports the number of entries currently stored, mainly useful in
// tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ treechunk.KVStore = (*Store)(nil)
