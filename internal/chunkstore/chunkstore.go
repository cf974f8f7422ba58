// Package chunkstore is the orchestration layer between the treechunk
// engine and a treechunk.KVStore: it owns a bounded in-memory LRU of live
// *treechunk.Chunk values, counts hits/misses/stores the way the teacher's
// internal/storage/nodestore.DatabaseImpl tracks Statistics, and logs with
// zap the way the teacher's outer (non-core) packages do.
package chunkstore

import (
	"context"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/zkprover/treechunk64/internal/crypto/poseidon"
	"github.com/zkprover/treechunk64/internal/treechunk"
)

// Stats mirrors the teacher's nodestore Statistics shape, scoped to this
// package's concerns.
type Stats struct {
	Reads       uint64
	CacheHits   uint64
	CacheMisses uint64
	Writes      uint64
}

// Store mediates every chunk the caller touches through a digest-addressed
// treechunk.KVStore, fronted by an LRU of already-materialised chunks so a
// hot chunk is not re-decoded on every access.
type Store struct {
	kv    treechunk.KVStore
	cache *lru.Cache[string, *treechunk.Chunk]
	log   *zap.Logger
	stats stats
}

type stats struct {
	reads       uint64
	cacheHits   uint64
	cacheMisses uint64
	writes      uint64
}

// Options configures a Store.
type Options struct {
	// CacheSize bounds the number of live chunks kept in the LRU. A value
	// <= 0 disables the cache: every Get re-reads and re-decodes.
	CacheSize int
	// Logger receives diagnostic events. A no-op logger is used if nil.
	Logger *zap.Logger
}

// New wraps kv with an LRU of live chunks.
func New(kv treechunk.KVStore, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{kv: kv, log: logger}

	if opts.CacheSize > 0 {
		cache, err := lru.New[string, *treechunk.Chunk](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("chunkstore: new lru cache: %w", err)
		}
		s.cache = cache
	}

	return s, nil
}

// Get loads the chunk at the given tree level rooted at digest, preferring
// the live-chunk cache over a KVStore round trip. level must be supplied by
// the caller (e.g. a parent chunk's known child position) since a digest
// alone does not carry the chunk's absolute tree position, and that
// position is required for ComputeRoot's leaf-finalization arithmetic.
func (s *Store) Get(ctx context.Context, level int, digest poseidon.Digest) (*treechunk.Chunk, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	atomic.AddUint64(&s.stats.reads, 1)
	key := treechunk.DigestKey(digest)

	if s.cache != nil {
		if c, ok := s.cache.Get(key); ok {
			atomic.AddUint64(&s.stats.cacheHits, 1)
			return c, nil
		}
		atomic.AddUint64(&s.stats.cacheMisses, 1)
	}

	c, err := treechunk.NewEmpty(level)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: get %s: %w", key, err)
	}
	if err := c.LoadFromStore(s.kv, digest); err != nil {
		s.log.Debug("chunkstore: load failed", zap.String("digest", key), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		s.cache.Add(key, c)
	}

	return c, nil
}

// Put recomputes c's root digest and persists its canonical bytes under
// that digest, then makes c the cached entry for that digest.
func (s *Store) Put(ctx context.Context, c *treechunk.Chunk) (poseidon.Digest, error) {
	var zero poseidon.Digest

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	default:
	}

	digest, err := c.Digest()
	if err != nil {
		return zero, fmt.Errorf("chunkstore: put: compute root: %w", err)
	}

	data, err := c.Bytes()
	if err != nil {
		return zero, fmt.Errorf("chunkstore: put: encode: %w", err)
	}

	key := treechunk.DigestKey(digest)
	if err := s.kv.Write(digest, data); err != nil {
		return zero, fmt.Errorf("chunkstore: put: write %s: %w", key, err)
	}
	atomic.AddUint64(&s.stats.writes, 1)

	if s.cache != nil {
		s.cache.Add(key, c)
	}

	s.log.Debug("chunkstore: stored chunk", zap.String("digest", key), zap.Int("level", c.Level()))
	return digest, nil
}

// Stats returns a snapshot of the store's access counters.
func (s *Store) Stats() Stats {
	return Stats{
		Reads:       atomic.LoadUint64(&s.stats.reads),
		CacheHits:   atomic.LoadUint64(&s.stats.cacheHits),
		CacheMisses: atomic.LoadUint64(&s.stats.cacheMisses),
		Writes:      atomic.LoadUint64(&s.stats.writes),
	}
}
