package memocache

import (
	"log/slog"
	"time"
)

// MemoryOption configures the in-memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	logger          *slog.Logger
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

func defaultMemoryOptions() *memoryOptions {
	return &memoryOptions{
		defaultTTL:      0, // 0 = entries never expire
		cleanupInterval: 0, // 0 = no background sweeping
		maxEntries:      0, // 0 = unlimited
	}
}

// WithDefaultTTL sets the expiration applied when Set is called with a
// zero TTL. Default: 0 (entries never expire).
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.defaultTTL = d
	}
}

// WithCleanupInterval enables a background janitor goroutine that removes
// expired entries every d. Without it, expired entries are dropped lazily
// on access. Default: 0 (disabled).
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries caps the number of entries in the cache.
// When the cap is reached, the least recently used entry is evicted.
// Zero means unlimited. Default: 0 (unlimited).
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

// WithLogger sets the logger used by background maintenance.
// Default: discard all logs.
func WithLogger(l *slog.Logger) MemoryOption {
	return func(o *memoryOptions) {
		o.logger = l
	}
}
