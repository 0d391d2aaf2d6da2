// Package state persists installation state as sidecar files inside the
// plugins root.
package state

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StateStore = (*Store)(nil)

// Store implements ports.StateStore.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// InstalledIndex scans root and maps each recorded content hash to the
// plugin directory carrying it. Directories without a hash sidecar are
// not part of the index and therefore invisible to reconciliation.
func (s *Store) InstalledIndex(root string) (map[string]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRootScanFailed.Error()), "root", root)
	}

	index := make(map[string]string)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(root, entry.Name(), domain.ConfigHashFileName)) //nolint:gosec // paths stay under root
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrSidecarReadFailed.Error()), "plugin", entry.Name())
		}
		index[strings.TrimSpace(string(data))] = entry.Name()
	}
	return index, nil
}

// WriteConfigHash records the content hash of an installed plugin.
func (s *Store) WriteConfigHash(root, pluginDir, hash string) error {
	return s.writeSidecar(filepath.Join(root, pluginDir, domain.ConfigHashFileName), hash)
}

// ReadImageDigest reports the recorded image digest of an installed
// plugin, or "" when none has been written yet.
func (s *Store) ReadImageDigest(root, pluginDir string) (string, error) {
	path := filepath.Join(root, pluginDir, domain.ImageDigestFileName)
	data, err := os.ReadFile(path) //nolint:gosec // paths stay under root
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrSidecarReadFailed.Error()), "plugin", pluginDir)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteImageDigest records the image digest an installed plugin came from.
func (s *Store) WriteImageDigest(root, pluginDir, digest string) error {
	return s.writeSidecar(filepath.Join(root, pluginDir, domain.ImageDigestFileName), digest)
}

// RemovePluginDir deletes an installed plugin directory.
func (s *Store) RemovePluginDir(root, pluginDir string) error {
	if err := os.RemoveAll(filepath.Join(root, pluginDir)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove plugin directory"), "plugin", pluginDir)
	}
	return nil
}

func (s *Store) writeSidecar(path, value string) error {
	if err := os.WriteFile(path, []byte(value), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSidecarWriteFailed.Error()), "path", path)
	}
	return nil
}
