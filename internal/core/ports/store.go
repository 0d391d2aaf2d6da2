package ports

// StateStore defines the interface for the marker files that record
// which plugin configuration produced each installed directory.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StateStore interface {
	// InstalledIndex scans the root directory and returns a map from
	// recorded configuration hash to plugin directory name.
	InstalledIndex(root string) (map[string]string, error)

	// WriteConfigHash records the configuration hash for a plugin directory.
	WriteConfigHash(root, pluginDir, hash string) error

	// ReadImageDigest retrieves the recorded image digest for a plugin
	// directory. Returns "", nil if not recorded.
	ReadImageDigest(root, pluginDir string) (string, error)

	// WriteImageDigest records the image digest for a plugin directory.
	WriteImageDigest(root, pluginDir, digest string) error

	// RemovePluginDir deletes an installed plugin directory and its markers.
	RemovePluginDir(root, pluginDir string) error
}
