package shell_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dynplug/internal/adapters/shell"
	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newExecutor(t *testing.T) *shell.Executor {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	return shell.NewExecutor(logger)
}

func TestRunCapturesStdout(t *testing.T) {
	e := newExecutor(t)

	out, err := e.Run(context.Background(), "", "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestRunHonorsWorkingDirectory(t *testing.T) {
	e := newExecutor(t)
	dir := t.TempDir()

	out, err := e.Run(context.Background(), dir, "pwd")
	require.NoError(t, err)
	assert.Contains(t, string(out), dir)
}

func TestRunReportsExitCodeAndStderr(t *testing.T) {
	e := newExecutor(t)

	_, err := e.Run(context.Background(), "", "sh", "-c", "echo boom >&2; exit 3")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCommandFailed.Error())
}

func TestRunCancelledContext(t *testing.T) {
	e := newExecutor(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, "", "sh", "-c", "sleep 10")
	require.Error(t, err)
}

func TestLookPathMissingTool(t *testing.T) {
	e := newExecutor(t)

	_, err := e.LookPath("definitely-not-a-real-tool-xyz")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrToolNotFound.Error())
}

func TestLookPathFindsShell(t *testing.T) {
	e := newExecutor(t)

	path, err := e.LookPath("sh")
	require.NoError(t, err)
	assert.NotEmpty(t, path)
}
