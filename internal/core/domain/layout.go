package domain

import "path/filepath"

const (
	// ManifestFileName is the name of the plugin manifest read from the working directory.
	ManifestFileName = "dynamic-plugins.yaml"

	// DefaultRootDirName is the default destination directory for installed plugins.
	DefaultRootDirName = "dynamic-plugins-root"

	// GlobalConfigFileName is the merged runtime configuration document written into the root.
	GlobalConfigFileName = "app-config.dynamic-plugins.yaml"

	// GlobalConfigRootKey is the top-level key of the merged configuration document.
	GlobalConfigRootKey = "dynamicPlugins"

	// ConfigHashFileName is the per-plugin sidecar recording the record content hash.
	ConfigHashFileName = "dynamic-plugin-config.hash"

	// ImageDigestFileName is the per-plugin sidecar recording the remote image digest.
	ImageDigestFileName = "dynamic-plugin-image.hash"

	// LockFileName is the cross-process exclusion marker created in the root.
	LockFileName = "install-dynamic-plugins.lock"

	// CatalogScratchDirName is the scratch directory for catalog index extraction.
	CatalogScratchDirName = ".catalog-index-temp"

	// DefaultIncludeFileName is the include entry substituted by the catalog index manifest.
	DefaultIncludeFileName = "dynamic-plugins.default.yaml"

	// CatalogEntitiesDirName is the catalog index directory holding entity documents.
	CatalogEntitiesDirName = "catalog-entities"

	// PluginPathsAnnotation is the image manifest annotation enumerating packaged plugin paths.
	PluginPathsAnnotation = "io.backstage.dynamic-packages"

	// InheritMarker is the reserved tag requesting version inheritance from an earlier layer.
	InheritMarker = "{{inherit}}"

	// OCIPrefix marks a container-registry package reference.
	OCIPrefix = "oci://"

	// LocalPrefix marks a local filesystem package reference.
	LocalPrefix = "./"

	// ArchiveSuffix marks an opaque tarball package reference.
	ArchiveSuffix = ".tgz"

	// DefaultMaxEntrySize is the default per-entry size ceiling for archive extraction.
	DefaultMaxEntrySize = 20000000

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// GlobalConfigPath returns the merged configuration document path for a root.
func GlobalConfigPath(root string) string {
	return filepath.Join(root, GlobalConfigFileName)
}

// LockFilePath returns the exclusion marker path for a root.
func LockFilePath(root string) string {
	return filepath.Join(root, LockFileName)
}

// CatalogScratchPath returns the catalog index scratch directory for a root.
func CatalogScratchPath(root string) string {
	return filepath.Join(root, CatalogScratchDirName)
}

// ConfigHashPath returns the content-hash sidecar path for an installed plugin directory.
func ConfigHashPath(pluginDir string) string {
	return filepath.Join(pluginDir, ConfigHashFileName)
}

// ImageDigestPath returns the image-digest sidecar path for an installed plugin directory.
func ImageDigestPath(pluginDir string) string {
	return filepath.Join(pluginDir, ImageDigestFileName)
}
