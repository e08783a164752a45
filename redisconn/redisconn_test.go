package redisconn

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mockCloser struct {
	err    error
	delay  time.Duration
	closed bool
}

func (m *mockCloser) Close() error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.closed = true
	return m.err
}

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty URL returns ErrEmptyConnectionURL", func(t *testing.T) {
		t.Parallel()

		client, err := Open(ctx, "")
		require.Error(t, err)
		require.Nil(t, client)
		require.ErrorIs(t, err, ErrEmptyConnectionURL)
	})

	t.Run("unsupported scheme returns ErrFailedToParseURL", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			name string
			url  string
		}{
			{
				name: "http scheme",
				url:  "http://localhost:6379",
			},
			{
				name: "no scheme",
				url:  "localhost:6379",
			},
			{
				name: "postgresql scheme",
				url:  "postgresql://localhost:6379",
			},
		}

		for _, tc := range testCases {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				client, err := Open(ctx, tc.url)
				require.Error(t, err)
				require.Nil(t, client)
				require.ErrorIs(t, err, ErrFailedToParseURL)
			})
		}
	})

	t.Run("malformed URL returns ErrFailedToParseURL", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			name string
			url  string
		}{
			{
				name: "invalid port",
				url:  "redis://localhost:notaport",
			},
			{
				name: "invalid database",
				url:  "redis://localhost:6379/notanumber",
			},
		}

		for _, tc := range testCases {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				client, err := Open(ctx, tc.url)
				require.Error(t, err)
				require.Nil(t, client)
				require.ErrorIs(t, err, ErrFailedToParseURL)
			})
		}
	})
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	t.Run("nil client returns ErrHealthcheckFailed", func(t *testing.T) {
		t.Parallel()

		check := Healthcheck(nil)
		err := check(context.Background())
		require.ErrorIs(t, err, ErrHealthcheckFailed)
	})
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	t.Run("calls Close on the client", func(t *testing.T) {
		t.Parallel()

		closer := &mockCloser{}
		err := Shutdown(closer)(context.Background())
		require.NoError(t, err)
		require.True(t, closer.closed)
	})

	t.Run("propagates Close error", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("close error")
		closer := &mockCloser{err: expectedErr}

		err := Shutdown(closer)(context.Background())
		require.ErrorIs(t, err, expectedErr)
		require.True(t, closer.closed)
	})

	t.Run("returns context error when close outlives the deadline", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		closer := &mockCloser{delay: 200 * time.Millisecond}

		start := time.Now()
		err := Shutdown(closer)(ctx)

		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Less(t, time.Since(start), 100*time.Millisecond, "must not wait out the slow close")
	})
}

func TestOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults are tuned for cache traffic", func(t *testing.T) {
		t.Parallel()

		o := defaultOptions()
		require.Equal(t, slog.Default(), o.logger)
		require.Equal(t, 20, o.poolSize)
		require.Equal(t, 2, o.minIdleConns)
		require.Equal(t, 5*time.Minute, o.maxIdleTime)
		require.Equal(t, time.Hour, o.maxActiveTime)
		require.Equal(t, 5, o.retryAttempts)
		require.Equal(t, 500*time.Millisecond, o.retryInterval)
		require.Equal(t, 10*time.Second, o.maxRetryWait)
		require.Equal(t, time.Second, o.readTimeout)
		require.Equal(t, time.Second, o.writeTimeout)
		require.Equal(t, 2*time.Second, o.dialTimeout)
	})

	t.Run("options override defaults", func(t *testing.T) {
		t.Parallel()

		log := slog.New(slog.NewTextHandler(io.Discard, nil))

		o := applyOptions([]Option{
			WithLogger(log),
			WithPoolSize(50),
			WithMinIdleConns(5),
			WithMaxIdleTime(time.Minute),
			WithMaxActiveTime(2 * time.Hour),
			WithRetry(3, time.Second),
			WithReadTimeout(2 * time.Second),
			WithWriteTimeout(2 * time.Second),
			WithDialTimeout(5 * time.Second),
		})

		require.Same(t, log, o.logger)
		require.Equal(t, 50, o.poolSize)
		require.Equal(t, 5, o.minIdleConns)
		require.Equal(t, time.Minute, o.maxIdleTime)
		require.Equal(t, 2*time.Hour, o.maxActiveTime)
		require.Equal(t, 3, o.retryAttempts)
		require.Equal(t, time.Second, o.retryInterval)
		require.Equal(t, 2*time.Second, o.readTimeout)
		require.Equal(t, 2*time.Second, o.writeTimeout)
		require.Equal(t, 5*time.Second, o.dialTimeout)
	})
}
