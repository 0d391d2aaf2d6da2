package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/dynplug/internal/app"
	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newMockedApp(ctrl *gomock.Controller, loader *mocks.MockManifestLoader, lock *mocks.MockRunLock, images *mocks.MockImageClient, logger *mocks.MockLogger) *app.App {
	return app.New(
		loader,
		mocks.NewMockPackageRegistry(ctrl),
		images,
		mocks.NewMockArchiveExtractor(ctrl),
		mocks.NewMockPackageInspector(ctrl),
		mocks.NewMockStateStore(ctrl),
		lock,
		mocks.NewMockWatcher(ctrl),
		logger,
	)
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// 1. Setup Mocks
	mockLoader := mocks.NewMockManifestLoader(ctrl)
	mockLock := mocks.NewMockRunLock(ctrl)
	mockImages := mocks.NewMockImageClient(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	// 2. Create Real App with Mocks
	application := newMockedApp(ctrl, mockLoader, mockLock, mockImages, mockLogger)

	// 3. Define Provider
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() {}, nil
	}

	// 4. Capture Stderr
	stderr := new(bytes.Buffer)

	// 5. Run with "version" command
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLoader := mocks.NewMockManifestLoader(ctrl)
	mockLock := mocks.NewMockRunLock(ctrl)
	mockImages := mocks.NewMockImageClient(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	// Stub Logger Error
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	application := newMockedApp(ctrl, mockLoader, mockLock, mockImages, mockLogger)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() {}, nil
	}

	// Mock Load failing to simulate execution failure
	mockLock.EXPECT().Acquire(gomock.Any(), gomock.Any()).Return(nil)
	mockLock.EXPECT().Release().Return(nil)
	mockImages.EXPECT().Cleanup().Return(nil)
	mockLoader.EXPECT().Load(domain.ManifestFileName).Return(nil, errors.New("load failed"))

	cwd, _ := os.Getwd()
	tmp := t.TempDir()
	_ = os.Chdir(tmp)
	defer func() {
		_ = os.Chdir(cwd)
	}()

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"install"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
}

// TestRun_Signal verifies that the context is canceled on signal.
func TestRun_Signal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// We need a loader that blocks until context is done.
	blockCh := make(chan struct{})

	mockLoader := mocks.NewMockManifestLoader(ctrl)
	mockLoader.EXPECT().Load(gomock.Any()).DoAndReturn(func(_ string) (*domain.Manifest, error) {
		select {
		case <-blockCh:
			return nil, context.Canceled
		case <-time.After(5 * time.Second):
			return nil, errors.New("timeout in mock")
		}
	})

	mockLock := mocks.NewMockRunLock(ctrl)
	mockLock.EXPECT().Acquire(gomock.Any(), gomock.Any()).Return(nil)
	mockLock.EXPECT().Release().Return(nil)

	mockImages := mocks.NewMockImageClient(ctrl)
	mockImages.EXPECT().Cleanup().Return(nil)

	mockLogger := mocks.NewMockLogger(ctrl)
	// Allow logging of the error when context is canceled
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	application := newMockedApp(ctrl, mockLoader, mockLock, mockImages, mockLogger)

	cwd, _ := os.Getwd()
	tmp := t.TempDir()
	_ = os.Chdir(tmp)
	defer func() {
		_ = os.Chdir(cwd)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int)

	go func() {
		errCh <- run(ctx, []string{"install"}, io.Discard, func(context.Context) (*app.Components, func(), error) {
			return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
		})
	}()

	// Wait a bit to ensure run() reaches Load()
	time.Sleep(100 * time.Millisecond)

	cancel()
	close(blockCh)

	select {
	case ret := <-errCh:
		assert.NotEqual(t, 0, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("TestRun_Signal timed out waiting for run() to return")
	}
}
