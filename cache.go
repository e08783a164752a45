package memocache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fallback computes a value for a key on a cache miss.
// It returns the value, a TTL for the new entry, and an error.
//
// TTL semantics mirror Set: positive = entry expires after this duration,
// zero = use the backend's configured default, negative = never expires.
// If the fallback returns an error, nothing is cached and the error is
// returned to the caller unchanged; a later lookup for the same key
// invokes the fallback again.
type Fallback[V any] func(ctx context.Context) (V, time.Duration, error)

// Cache is a generic memoizing key-value store.
//
// TTL semantics for Set:
//   - Positive duration: entry expires after this duration
//   - Zero: use the cache's configured default TTL
//   - Negative: entry never expires
type Cache[V any] interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key is absent or has expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// GetOrSet retrieves a value by key, invoking fn to compute and store
	// it on a miss. fn is never invoked when the key is present, and runs
	// at most once per key across concurrent callers.
	GetOrSet(ctx context.Context, key string, fn Fallback[V]) (V, error)

	// Delete removes a key from the cache.
	Delete(ctx context.Context, key string) error

	// Has checks whether a key exists and has not expired.
	Has(ctx context.Context, key string) (bool, error)

	// Clear removes all entries from the cache.
	Clear(ctx context.Context) error

	// Close releases resources (stops background goroutines, etc.).
	Close() error
}

// Marshaler serializes and deserializes cache values for storage backends
// that require byte representation (e.g., Redis).
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

// lookupOrFill implements the GetOrSet discipline shared by all backends.
//
// The singleflight group belongs to the backend, so fills are deduplicated
// per cache instance: the first caller for a missing key computes, concurrent
// callers for the same key wait and receive the computed value.
//
// Backend read failures other than ErrNotFound propagate to the caller
// without invoking the fallback, on the fast path and the in-flight re-check
// alike: a flaky read must not trigger spurious recomputation or hide the
// backend error.
func lookupOrFill[V any](ctx context.Context, c Cache[V], group *singleflight.Group, key string, fn Fallback[V]) (V, error) {
	var zero V

	// Fast path: hit without entering the flight.
	switch v, err := c.Get(ctx, key); {
	case err == nil:
		return v, nil
	case !errors.Is(err, ErrNotFound):
		return zero, err
	}

	v, err, _ := group.Do(key, func() (any, error) {
		// Re-check inside the flight: an earlier flight may have filled the
		// entry between our miss and acquiring the flight. An existing entry
		// is never overwritten by a fill. The probe goes through Has so one
		// logical lookup does not count a second miss.
		ok, err := c.Has(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			switch v, err := c.Get(ctx, key); {
			case err == nil:
				return v, nil
			case !errors.Is(err, ErrNotFound):
				return nil, err
			}
			// The entry vanished between the probe and the read (expired
			// or deleted); fill below.
		}

		val, ttl, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		// Best-effort store: the computed value is returned to all waiters
		// even if the backend refuses it.
		_ = c.Set(ctx, key, val, ttl)

		return val, nil
	})
	if err != nil {
		return zero, err
	}

	return v.(V), nil
}
