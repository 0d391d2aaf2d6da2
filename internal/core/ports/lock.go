package ports

import "context"

// RunLock defines the interface for the cross-process installation lock.
//
//go:generate mockgen -source=lock.go -destination=mocks/mock_lock.go -package=mocks
type RunLock interface {
	// Acquire blocks until the lock on root is held or ctx is done.
	Acquire(ctx context.Context, root string) error

	// Release drops the lock. Safe to call when the lock is not held.
	Release() error
}
