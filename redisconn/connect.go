package redisconn

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option configures a Redis connection.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	poolSize      int
	minIdleConns  int
	maxIdleTime   time.Duration
	maxActiveTime time.Duration
	retryAttempts int
	retryInterval time.Duration
	maxRetryWait  time.Duration
	readTimeout   time.Duration
	writeTimeout  time.Duration
	dialTimeout   time.Duration
}

// Defaults are tuned for cache traffic: many small, latency-sensitive
// reads. Slow commands are cut off quickly (recomputing a value is cheaper
// than a request stalled on the cache), startup retries begin fast, and a
// couple of idle connections are kept warm for bursts.
func defaultOptions() *options {
	return &options{
		logger:        slog.Default(),
		poolSize:      20,
		minIdleConns:  2,
		maxIdleTime:   5 * time.Minute,
		maxActiveTime: time.Hour,
		retryAttempts: 5,
		retryInterval: 500 * time.Millisecond,
		maxRetryWait:  10 * time.Second,
		readTimeout:   time.Second,
		writeTimeout:  time.Second,
		dialTimeout:   2 * time.Second,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger routes connection logs: retry warnings and MustOpen failures.
// Default: slog.Default() — connection trouble is loud unless silenced.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithPoolSize sets the maximum number of connections in the pool.
// Default: 20
func WithPoolSize(n int) Option {
	return func(o *options) {
		o.poolSize = n
	}
}

// WithMinIdleConns sets the minimum number of idle connections kept warm.
// Default: 2
func WithMinIdleConns(n int) Option {
	return func(o *options) {
		o.minIdleConns = n
	}
}

// WithMaxIdleTime sets how long a connection may stay idle before being closed.
// Default: 5 minutes
func WithMaxIdleTime(d time.Duration) Option {
	return func(o *options) {
		o.maxIdleTime = d
	}
}

// WithMaxActiveTime sets the maximum lifetime of a connection.
// Default: 1 hour
func WithMaxActiveTime(d time.Duration) Option {
	return func(o *options) {
		o.maxActiveTime = d
	}
}

// WithRetry configures startup retry behavior. The interval doubles after
// each failed attempt, capped at 10 seconds.
// Default: 5 attempts, 500ms initial interval.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(o *options) {
		o.retryAttempts = attempts
		o.retryInterval = interval
	}
}

// WithReadTimeout sets the timeout for read commands.
// Default: 1 second
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) {
		o.readTimeout = d
	}
}

// WithWriteTimeout sets the timeout for write commands.
// Default: 1 second
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.writeTimeout = d
	}
}

// WithDialTimeout sets the timeout for establishing new connections.
// Default: 2 seconds
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) {
		o.dialTimeout = d
	}
}

// Open creates a Redis client for cache use.
// Supports both redis:// and rediss:// (TLS) URL schemes.
//
// Example:
//
//	client, err := redisconn.Open(ctx, "redis://localhost:6379/0",
//	    redisconn.WithPoolSize(50),
//	    redisconn.WithRetry(3, time.Second),
//	)
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	return open(ctx, url, applyOptions(opts))
}

// MustOpen creates a Redis client or exits on failure, logging through the
// configured logger. Use for simple applications where startup failure is
// fatal.
//
// Example:
//
//	client := redisconn.MustOpen(ctx, os.Getenv("REDIS_URL"))
func MustOpen(ctx context.Context, url string, opts ...Option) redis.UniversalClient {
	o := applyOptions(opts)

	client, err := open(ctx, url, o)
	if err != nil {
		o.logger.Error("failed to open redis connection", "error", err)
		os.Exit(1)
	}

	return client
}

func open(ctx context.Context, url string, o *options) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}

	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	redisOpts.PoolSize = o.poolSize
	redisOpts.MinIdleConns = o.minIdleConns
	redisOpts.ConnMaxIdleTime = o.maxIdleTime
	redisOpts.ConnMaxLifetime = o.maxActiveTime
	redisOpts.ReadTimeout = o.readTimeout
	redisOpts.WriteTimeout = o.writeTimeout
	redisOpts.DialTimeout = o.dialTimeout

	return dial(ctx, redisOpts, o)
}

// dial pings a fresh client, retrying with a doubling interval until the
// attempt budget runs out. The last ping error is attached to
// ErrConnectionFailed so startup logs show why the server was unreachable.
func dial(ctx context.Context, redisOpts *redis.Options, o *options) (redis.UniversalClient, error) {
	attempts := max(o.retryAttempts, 1)
	backoff := o.retryInterval

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		client := redis.NewClient(redisOpts)

		err := client.Ping(ctx).Err()
		if err == nil {
			return client, nil
		}
		lastErr = err
		_ = client.Close()

		if attempt == attempts {
			break
		}

		o.logger.Warn("redis connection attempt failed",
			"attempt", attempt,
			"retry_in", backoff.String(),
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, o.maxRetryWait)
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}
