// Package kvpebble is the persistent KVStore backing for the tree-chunk
// engine, grounded in the teacher's internal/storage/nodestore/pebble.go:
// a cockroachdb/pebble-backed store, an LZ4 compression stage ported from
// the teacher's compression registry, and an LRU decode cache built on
// hashicorp/golang-lru/v2, the same generic cache API the teacher uses in
// internal/core/ledger/manager/cache.go.
package kvpebble

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cockroachdb/pebble"

	"github.com/zkprover/treechunk64/internal/crypto/poseidon"
	"github.com/zkprover/treechunk64/internal/storage/kvpebble/compression"
	"github.com/zkprover/treechunk64/internal/treechunk"
)

// ErrNotFound mirrors pebble.ErrNotFound at this package's boundary so
// callers do not need to import pebble themselves.
var ErrNotFound = fmt.Errorf("kvpebble: not found")

// Options configures a Store.
type Options struct {
	// Dir is the pebble data directory.
	Dir string
	// Compression names a registered compression.Compressor ("none" or
	// "lz4"). Defaults to "lz4" if empty.
	Compression string
	// CacheSize bounds the number of decoded chunk blobs kept in the LRU
	// decode cache. Defaults to 4096 if zero.
	CacheSize int
}

// Store is a pebble-backed treechunk.KVStore with optional compression
// and an LRU decode cache in front of pebble reads.
type Store struct {
	db         *pebble.DB
	compressor compression.Compressor
	cache      *lru.Cache[string, []byte]
}

// Open opens (creating if necessary) a pebble database at opts.Dir and
// wraps it as a treechunk.KVStore.
func Open(opts Options) (*Store, error) {
	if opts.Compression == "" {
		opts.Compression = "lz4"
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 4096
	}

	comp, err := compression.Get(opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("kvpebble: %w", err)
	}

	db, err := pebble.Open(opts.Dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("kvpebble: open %s: %w", opts.Dir, err)
	}

	cache, err := lru.New[string, []byte](opts.CacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kvpebble: new lru cache: %w", err)
	}

	return &Store{db: db, compressor: comp, cache: cache}, nil
}

// Read implements treechunk.KVStore.
func (s *Store) Read(digest poseidon.Digest) ([]byte, error) {
	key := treechunk.DigestKey(digest)

	if cached, ok := s.cache.Get(key); ok {
		return cloneBytes(cached), nil
	}

	raw, closer, err := s.db.Get([]byte(key))
	if err == pebble.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kvpebble: get %s: %w", key, err)
	}
	defer closer.Close()

	data, err := s.compressor.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("kvpebble: decompress %s: %w", key, err)
	}

	s.cache.Add(key, cloneBytes(data))
	return data, nil
}

// Write implements treechunk.KVStore.
func (s *Store) Write(digest poseidon.Digest, data []byte) error {
	key := treechunk.DigestKey(digest)

	compressed, err := s.compressor.Compress(data)
	if err != nil {
		return fmt.Errorf("kvpebble: compress %s: %w", key, err)
	}

	if err := s.db.Set([]byte(key), compressed, &pebble.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("kvpebble: set %s: %w", key, err)
	}

	s.cache.Add(key, cloneBytes(data))
	return nil
}

// Close closes the underlying pebble database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Compact runs a manual compaction over the range from the store's first
// key to its last key. It is a no-op on an empty store.
func (s *Store) Compact() error {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("kvpebble: new iter: %w", err)
	}
	defer iter.Close()

	var first, last []byte
	if iter.First() {
		first = append([]byte{}, iter.Key()...)
	}
	if iter.Last() {
		last = append([]byte{}, iter.Key()...)
	}
	if first == nil || last == nil {
		return nil
	}
	return s.db.Compact(first, last, true)
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

var _ treechunk.KVStore = (*Store)(nil)
