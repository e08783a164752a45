package memocache

import (
	"context"
	"errors"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Sharded partitions keys across independent sub-caches to cut lock
// contention on hot paths. Routing is stable: a key always lands on the
// same shard, so per-shard guarantees (at-most-one fill per key, LRU
// order, stats) carry over per key.
type Sharded[V any] struct {
	shards []Cache[V]
}

// NewSharded creates a cache with n shards, each built by factory.
// A shard count below one is raised to one.
//
// Example:
//
//	c := memocache.NewSharded(16, func() memocache.Cache[User] {
//	    return memocache.NewMemory[User](memocache.WithMaxEntries(1000))
//	})
//	defer c.Close()
func NewSharded[V any](n int, factory func() Cache[V]) *Sharded[V] {
	n = max(n, 1)

	shards := make([]Cache[V], n)
	for i := range shards {
		shards[i] = factory()
	}

	return &Sharded[V]{shards: shards}
}

// shard returns the sub-cache owning the key.
func (s *Sharded[V]) shard(key string) Cache[V] {
	return s.shards[xxhash.Sum64String(key)%uint64(len(s.shards))]
}

// Get retrieves a value by key from the owning shard.
func (s *Sharded[V]) Get(ctx context.Context, key string) (V, error) {
	return s.shard(key).Get(ctx, key)
}

// Set stores a value in the owning shard.
func (s *Sharded[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	return s.shard(key).Set(ctx, key, value, ttl)
}

// GetOrSet retrieves or fills a value through the owning shard.
// Fill deduplication happens inside the shard, so the at-most-one
// compute per key guarantee is preserved.
func (s *Sharded[V]) GetOrSet(ctx context.Context, key string, fn Fallback[V]) (V, error) {
	return s.shard(key).GetOrSet(ctx, key, fn)
}

// Delete removes a key from the owning shard.
func (s *Sharded[V]) Delete(ctx context.Context, key string) error {
	return s.shard(key).Delete(ctx, key)
}

// Has checks the owning shard for a live entry.
func (s *Sharded[V]) Has(ctx context.Context, key string) (bool, error) {
	return s.shard(key).Has(ctx, key)
}

// Clear removes all entries from every shard.
func (s *Sharded[V]) Clear(ctx context.Context) error {
	var errs []error
	for _, c := range s.shards {
		if err := c.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every shard. Close is idempotent when the shards are.
func (s *Sharded[V]) Close() error {
	var errs []error
	for _, c := range s.shards {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stats sums activity counters across shards that track them.
// Shards without counters contribute nothing.
func (s *Sharded[V]) Stats() Stats {
	var total Stats
	for _, c := range s.shards {
		if sp, ok := c.(StatsProvider); ok {
			st := sp.Stats()
			total.Hits += st.Hits
			total.Misses += st.Misses
			total.Evictions += st.Evictions
			total.Expirations += st.Expirations
		}
	}
	return total
}

var _ Cache[any] = (*Sharded[any])(nil)
var _ StatsProvider = (*Sharded[any])(nil)
