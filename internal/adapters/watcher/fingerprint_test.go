package watcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dynplug/internal/adapters/watcher"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFingerprintCache_FirstSightIsChange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dynamic-plugins.yaml")
	writeFile(t, path, "plugins: []\n")

	c := watcher.NewFingerprintCache()
	assert.True(t, c.Changed(path), "first sighting should count as a change")
}

func TestFingerprintCache_SameContentIsNoChange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dynamic-plugins.yaml")
	writeFile(t, path, "plugins: []\n")

	c := watcher.NewFingerprintCache()
	require.True(t, c.Changed(path))

	// A touch that leaves the bytes intact must not register.
	writeFile(t, path, "plugins: []\n")
	assert.False(t, c.Changed(path))
}

func TestFingerprintCache_ContentChangeDetected(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dynamic-plugins.yaml")
	writeFile(t, path, "plugins: []\n")

	c := watcher.NewFingerprintCache()
	require.True(t, c.Changed(path))

	writeFile(t, path, "plugins:\n  - package: ./dynamic-plugins/dist/foo\n")
	assert.True(t, c.Changed(path))

	// Stable again afterwards.
	assert.False(t, c.Changed(path))
}

func TestFingerprintCache_MissingFileIsChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "dynamic-plugins.yaml")
	writeFile(t, path, "plugins: []\n")

	c := watcher.NewFingerprintCache()
	require.True(t, c.Changed(path))

	require.NoError(t, os.Remove(path))
	assert.True(t, c.Changed(path), "a vanished file should count as a change")

	// Recreating the identical content counts again because the record was dropped.
	writeFile(t, path, "plugins: []\n")
	assert.True(t, c.Changed(path))
}

func TestFingerprintCache_Forget(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dynamic-plugins.yaml")
	writeFile(t, path, "plugins: []\n")

	c := watcher.NewFingerprintCache()
	require.True(t, c.Changed(path))
	require.False(t, c.Changed(path))

	c.Forget(path)
	assert.True(t, c.Changed(path), "forgotten paths should report as changed")
}

func TestFingerprintCache_IndependentPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := filepath.Join(dir, "dynamic-plugins.yaml")
	include := filepath.Join(dir, "dynamic-plugins.default.yaml")
	writeFile(t, manifest, "includes:\n  - dynamic-plugins.default.yaml\n")
	writeFile(t, include, "plugins: []\n")

	c := watcher.NewFingerprintCache()
	require.True(t, c.Changed(manifest))
	require.True(t, c.Changed(include))

	writeFile(t, include, "plugins:\n  - package: pkg\n    disabled: true\n")

	assert.False(t, c.Changed(manifest), "untouched file must stay unchanged")
	assert.True(t, c.Changed(include))
}
