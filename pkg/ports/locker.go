package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for cross-process concurrency control.
// The session manager uses it so that only one emflow process drives a given desktop at a time.
type DistributedLocker interface {
	// Lock attempts to acquire a lock for the given key (e.g., the desktop version).
	// It blocks until the lock is acquired or the context is canceled.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
