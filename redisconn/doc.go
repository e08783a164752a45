// Package redisconn provides Redis client construction for Redis-backed
// caches.
//
// It wraps [github.com/redis/go-redis/v9] with pool and timeout defaults
// tuned for cache traffic, startup retry with a doubling interval, a
// deadline-bounded health check probe, and a graceful shutdown hook.
//
// # Features
//
//   - Pool defaults sized for many small, latency-sensitive commands
//   - Short command timeouts: recomputing a value beats stalling on the cache
//   - Startup retry with a doubling interval, logged via WithLogger
//   - Health check closure compatible with func(context.Context) error probes
//   - Support for redis:// and rediss:// (TLS) URL schemes
//
// # Usage
//
//	ctx := context.Background()
//	client, err := redisconn.Open(ctx, os.Getenv("REDIS_URL"),
//	    redisconn.WithPoolSize(50),
//	    redisconn.WithLogger(log),
//	)
//	if err != nil {
//	    // handle startup failure
//	}
//	defer redisconn.Shutdown(client)(ctx)
//
//	c := memocache.NewRedis[User](client, nil, memocache.WithPrefix("users"))
//
// All settings are configured via functional options; see the With*
// functions for defaults.
package redisconn
