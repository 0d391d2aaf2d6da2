package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dynplug/internal/adapters/fs"
)

func TestLocalInfoReadsPackageJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"my-plugin","version":"1.0.0"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yarn.lock"), []byte("# lockfile"), 0o600))

	info := fs.NewInspector().LocalInfo(dir)

	assert.NotEmpty(t, info.PackageJSONHash)
	assert.NotZero(t, info.PackageJSONMtime)
	assert.Contains(t, info.LockfileMtimes, "yarn.lock")
	assert.NotContains(t, info.LockfileMtimes, "package-lock.json")
	assert.False(t, info.NotFound)
	assert.Empty(t, info.Error)
}

func TestLocalInfoHashChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	inspector := fs.NewInspector()

	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1.0.0"}`), 0o600))
	before := inspector.LocalInfo(dir)

	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2.0.0"}`), 0o600))
	after := inspector.LocalInfo(dir)

	assert.NotEqual(t, before.PackageJSONHash, after.PackageJSONHash)
}

func TestLocalInfoDirectoryWithoutPackageJSON(t *testing.T) {
	dir := t.TempDir()

	info := fs.NewInspector().LocalInfo(dir)

	assert.NotZero(t, info.DirMtime)
	assert.Empty(t, info.PackageJSONHash)
	assert.False(t, info.NotFound)
}

func TestLocalInfoMissingPath(t *testing.T) {
	info := fs.NewInspector().LocalInfo(filepath.Join(t.TempDir(), "nope"))

	assert.True(t, info.NotFound)
}

func TestLocalInfoInvalidPackageJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{not json"), 0o600))

	info := fs.NewInspector().LocalInfo(dir)

	assert.NotEmpty(t, info.Error)
	assert.Empty(t, info.PackageJSONHash)
}

func TestLocalInfoResolvesRelativePrefix(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "plugins", "mine")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "package.json"), []byte(`{"name":"mine"}`), 0o600))

	t.Chdir(dir)

	info := fs.NewInspector().LocalInfo("./plugins/mine")

	assert.NotEmpty(t, info.PackageJSONHash)
	assert.False(t, info.NotFound)
}
