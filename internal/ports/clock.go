package ports

import (
	"context"
	"time"
)

// Clock abstracts time for the polling loops so tests can run hundreds of
// ticks without waiting for them.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep blocks for d or until ctx is done, in which case it returns
	// ctx.Err(). Cancellation only stops the local observation loop; the
	// upstream resource is unaffected.
	Sleep(ctx context.Context, d time.Duration) error
}
