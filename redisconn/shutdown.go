package redisconn

import (
	"context"
	"io"
)

// Shutdown returns a hook that closes the Redis client, releasing the
// connection pool shared by Redis-backed caches. The close runs in the
// background; if the context expires first, the hook returns the context
// error while the close finishes on its own:
//
//	client := redisconn.MustOpen(ctx, url)
//	defer redisconn.Shutdown(client)(ctx)
func Shutdown(client io.Closer) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		done := make(chan error, 1)
		go func() {
			done <- client.Close()
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			return err
		}
	}
}
