// Package lock provides the cross-process installation lock.
//
// Multiple installer replicas can share one plugins root. The lock is a
// marker file created with O_EXCL inside the root: whoever creates it
// first proceeds, everyone else polls until the file disappears.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
	"go.trai.ch/zerr"
)

// pollInterval is how often a waiting process re-checks the marker.
const pollInterval = time.Second

var _ ports.RunLock = (*FileLock)(nil)

// FileLock implements ports.RunLock with an exclusively created marker file.
type FileLock struct {
	logger ports.Logger
	path   string
}

// NewFileLock creates a new FileLock.
func NewFileLock(logger ports.Logger) *FileLock {
	return &FileLock{logger: logger}
}

// Acquire blocks until the lock on root is held or ctx is done.
func (l *FileLock) Acquire(ctx context.Context, root string) error {
	path := domain.LockFilePath(root)

	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, domain.PrivateFilePerm) //nolint:gosec // marker lives inside the root
		if err == nil {
			_ = f.Close()
			l.path = path
			l.logger.Info(fmt.Sprintf("created lock file %s", path))
			return nil
		}
		if !errors.Is(err, os.ErrExist) {
			return zerr.With(zerr.Wrap(err, domain.ErrLockCreateFailed.Error()), "path", path)
		}

		if err := l.waitForRelease(ctx, path); err != nil {
			return err
		}
	}
}

// Release drops the lock. Safe to call when the lock is not held.
func (l *FileLock) Release() error {
	if l.path == "" {
		return nil
	}
	path := l.path
	l.path = ""

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrLockRemoveFailed.Error()), "path", path)
	}
	l.logger.Info(fmt.Sprintf("removed lock file %s", path))
	return nil
}

// waitForRelease polls until the marker disappears or ctx is done.
func (l *FileLock) waitForRelease(ctx context.Context, path string) error {
	l.logger.Info(fmt.Sprintf("waiting for lock release (file: %s)", path))

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			l.logger.Info("lock released")
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
