package memocache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Redis is a cache backed by Redis, for memoized results shared across
// processes. Values are serialized with the configured Marshaler
// (default: JSON).
type Redis[V any] struct {
	client    redis.UniversalClient
	opts      *redisOptions
	marshaler Marshaler[V]
	group     singleflight.Group
}

// NewRedis creates a new Redis-backed cache.
// The client should be obtained from redisconn.Open or redisconn.MustOpen.
//
// An optional Marshaler customizes serialization (msgpack, protobuf, etc.).
// If nil, JSON is used.
//
// Example:
//
//	client := redisconn.MustOpen(ctx, os.Getenv("REDIS_URL"))
//	c := memocache.NewRedis[User](client, nil,
//	    memocache.WithPrefix("users"),
//	    memocache.WithRedisDefaultTTL(30 * time.Minute),
//	)
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	o := defaultRedisOptions()
	for _, opt := range opts {
		opt(o)
	}

	if m == nil {
		m = jsonMarshaler[V]{}
	}

	return &Redis[V]{
		client:    client,
		opts:      o,
		marshaler: m,
	}
}

// Get retrieves a value by key.
// Returns ErrNotFound if the key does not exist.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	data, err := r.client.Get(ctx, r.prefixed(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}

	v, err := r.marshaler.Unmarshal(data)
	if err != nil {
		return zero, err
	}

	return v, nil
}

// Set stores a value with the given TTL.
// TTL semantics: positive = expires after duration, zero = use the
// configured default, negative = no expiration. Redis itself treats a
// zero expiration as "persist", so both the unset default and a negative
// TTL map to 0 on the wire.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}

	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}
	ttl = max(ttl, 0)

	return r.client.Set(ctx, r.prefixed(key), data, ttl).Err()
}

// GetOrSet retrieves a value by key, invoking fn to compute and store it
// on a miss. Fills are deduplicated per process: concurrent callers in
// this process share one fn invocation. Callers in other processes may
// still race; the re-check inside the flight keeps overwrites of an
// already-stored entry to the fill window.
func (r *Redis[V]) GetOrSet(ctx context.Context, key string, fn Fallback[V]) (V, error) {
	return lookupOrFill(ctx, r, &r.group, key, fn)
}

// Delete removes a key.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefixed(key)).Err()
}

// Has checks whether a key exists.
func (r *Redis[V]) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefixed(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear removes all cache entries.
// With a prefix configured, only matching keys are removed via SCAN;
// without one, FLUSHDB is used.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.opts.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}
	return r.clearByPrefix(ctx)
}

// Close is a no-op. The Redis client lifecycle is owned by the caller
// (see redisconn.Shutdown).
func (r *Redis[V]) Close() error {
	return nil
}

// prefixed returns the full Redis key with the configured prefix.
func (r *Redis[V]) prefixed(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return r.opts.prefix + ":" + key
}

// clearByPrefix removes all keys under the configured prefix using SCAN,
// which does not block the server.
func (r *Redis[V]) clearByPrefix(ctx context.Context) error {
	pattern := r.opts.prefix + ":*"
	var cursor uint64

	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

var _ Cache[any] = (*Redis[any])(nil)
