// Package memocache provides a generic memoizing key-value cache with
// in-memory, sharded, and Redis backends.
//
// All backends share the same [Cache] interface, so a process-local memo
// table and a cross-process Redis cache are interchangeable at the call
// site.
//
// # Interface
//
// The [Cache] interface is generic over value type V:
//
//   - Get(ctx, key) (V, error) — retrieve a value
//   - Set(ctx, key, value, ttl) error — store a value with TTL
//   - GetOrSet(ctx, key, fn) (V, error) — retrieve, or compute and store on miss
//   - Delete(ctx, key) error — remove a key
//   - Has(ctx, key) (bool, error) — check existence
//   - Clear(ctx) error — remove all entries
//   - Close() error — release resources
//
// TTL semantics for Set:
//   - Positive duration: entry expires after this duration
//   - Zero: use the cache's configured default (unset default = never expires)
//   - Negative: entry never expires
//
// # Memoization
//
// GetOrSet is the core operation: look up a key, and on a miss invoke the
// caller-supplied [Fallback] exactly once, store its result, and return it.
// The fallback never runs when the key is present, so repeated lookups for
// the same key skip the expensive computation:
//
//	val, err := c.GetOrSet(ctx, "report:2024", func(ctx context.Context) (Report, time.Duration, error) {
//	    return buildExpensiveReport(ctx)
//	})
//
// Concurrent callers for the same key are deduplicated with singleflight:
// the first caller computes, the rest wait and receive the same value.
// A stored entry is never overwritten by a later fill. If the fallback
// fails, nothing is cached, the error is returned unchanged, and a later
// call retries. Backend read failures other than [ErrNotFound] are
// returned to the caller without invoking the fallback.
//
// # In-Memory Cache
//
// Use [NewMemory] for process-local memoization. The cache is unbounded
// and entries never expire unless configured otherwise:
//
//	c := memocache.NewMemory[string](
//	    memocache.WithDefaultTTL(5 * time.Minute),
//	    memocache.WithCleanupInterval(30 * time.Second),
//	    memocache.WithMaxEntries(10000),
//	)
//	defer c.Close()
//
// With a max entry count, the least recently used entry is evicted first.
// An eviction callback is available for resource cleanup:
//
//	c.SetEvictCallback(func(key string, conn *Connection) {
//	    conn.Close()
//	})
//
// [Memory.Stats] reports hit/miss/eviction/expiration counters.
//
// # Sharded Cache
//
// Use [NewSharded] to partition keys across independent sub-caches and
// reduce lock contention under concurrency:
//
//	c := memocache.NewSharded(16, func() memocache.Cache[User] {
//	    return memocache.NewMemory[User]()
//	})
//
// # Redis Cache
//
// Use [NewRedis] to share memoized results across processes. Requires a
// [github.com/redis/go-redis/v9.UniversalClient], typically from
// [github.com/dmitrymomot/memocache/redisconn]:
//
//	client := redisconn.MustOpen(ctx, os.Getenv("REDIS_URL"))
//	c := memocache.NewRedis[User](client, nil,
//	    memocache.WithPrefix("users"),
//	    memocache.WithRedisDefaultTTL(30 * time.Minute),
//	)
//
// Pass a custom [Marshaler] as the second argument to change the
// serialization format. If nil, JSON is used.
//
// # Error Handling
//
// The package defines sentinel errors:
//
//   - [ErrNotFound] — key absent or expired (an absence signal, not a failure)
//   - [ErrClosed] — mutating operation on a closed cache
//   - [ErrMarshal] — value serialization failed
//   - [ErrUnmarshal] — value deserialization failed
//
// Use [errors.Is] to check:
//
//	val, err := c.Get(ctx, "key")
//	if errors.Is(err, memocache.ErrNotFound) {
//	    // handle miss
//	}
package memocache
