package memocache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrNotFound is returned when a key is absent from the cache
	// (never stored, expired, or evicted). It signals absence, not failure:
	// check with errors.Is and fall back to a fill.
	ErrNotFound = errors.New("memocache: entry not found")

	// ErrClosed is returned when a mutating operation is attempted on a
	// closed cache.
	ErrClosed = errors.New("memocache: closed")

	// ErrMarshal is returned when value serialization fails.
	ErrMarshal = errors.New("memocache: failed to marshal value")

	// ErrUnmarshal is returned when value deserialization fails.
	ErrUnmarshal = errors.New("memocache: failed to unmarshal value")
)
