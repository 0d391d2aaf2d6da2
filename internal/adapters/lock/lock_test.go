package lock_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dynplug/internal/adapters/lock"
	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLock(t *testing.T) *lock.FileLock {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	return lock.NewFileLock(logger)
}

func TestAcquireCreatesMarker(t *testing.T) {
	root := t.TempDir()
	l := newLock(t)

	require.NoError(t, l.Acquire(context.Background(), root))
	assert.FileExists(t, domain.LockFilePath(root))

	require.NoError(t, l.Release())
	assert.NoFileExists(t, domain.LockFilePath(root))
}

func TestAcquireWaitsForHolder(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(domain.LockFilePath(root), nil, 0o600))

	l := newLock(t)
	acquired := make(chan error, 1)
	go func() {
		acquired <- l.Acquire(context.Background(), root)
	}()

	// the waiter must not get through while the marker exists
	select {
	case err := <-acquired:
		t.Fatalf("acquired while marker present: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, os.Remove(domain.LockFilePath(root)))

	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lock was never acquired after release")
	}

	require.NoError(t, l.Release())
}

func TestAcquireHonorsContext(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(domain.LockFilePath(root), nil, 0o600))

	l := newLock(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx, root)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReleaseWithoutAcquire(t *testing.T) {
	l := newLock(t)
	require.NoError(t, l.Release())
}

func TestReleaseToleratesMissingMarker(t *testing.T) {
	root := t.TempDir()
	l := newLock(t)

	require.NoError(t, l.Acquire(context.Background(), root))
	require.NoError(t, os.Remove(domain.LockFilePath(root)))
	require.NoError(t, l.Release())
}
