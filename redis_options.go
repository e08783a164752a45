package memocache

import "time"

// RedisOption configures the Redis cache.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
}

func defaultRedisOptions() *redisOptions {
	return &redisOptions{
		prefix:     "",
		defaultTTL: 0, // 0 = no expiration
	}
}

// WithRedisDefaultTTL sets the expiration applied when Set is called with
// a zero TTL. Default: 0 (no expiration).
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.defaultTTL = d
	}
}

// WithPrefix sets a key prefix for all cache operations.
// Keys are stored as "{prefix}:{key}", which namespaces caches sharing a
// Redis instance and lets Clear scope itself to this cache's keys.
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}
