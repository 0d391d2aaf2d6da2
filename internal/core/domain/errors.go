package domain

import "go.trai.ch/zerr"

var (
	// ErrPackageNotString is returned when a plugin entry's package field is not a string.
	ErrPackageNotString = zerr.New("plugin package must be a string")

	// ErrManifestReadFailed is returned when the manifest file cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest file")

	// ErrManifestParseFailed is returned when the manifest file cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse manifest file")

	// ErrManifestNotMapping is returned when a manifest document is not a YAML mapping.
	ErrManifestNotMapping = zerr.New("manifest content must be a YAML object")

	// ErrIncludesNotStringList is returned when the includes field is not a list of strings.
	ErrIncludesNotStringList = zerr.New("includes must be a list of strings")

	// ErrPluginsNotList is returned when the plugins field is not a list of objects.
	ErrPluginsNotList = zerr.New("plugins must be a list of objects")

	// ErrMalformedContainerRef is returned when a container reference does not match
	// the oci://<registry>:<tag> or oci://<registry>@<algo>:<digest> grammar.
	ErrMalformedContainerRef = zerr.New("container reference is not in the expected format")

	// ErrNoPluginsInImage is returned when sub-path auto-detection finds no packaged plugins.
	ErrNoPluginsInImage = zerr.New("no plugins found in image")

	// ErrAmbiguousPluginPath is returned when sub-path auto-detection finds more than one
	// packaged plugin and the reference names none.
	ErrAmbiguousPluginPath = zerr.New("multiple plugins found in image, an explicit plugin path is required")

	// ErrDuplicatePlugin is returned when two entries in one manifest layer resolve to the same identity.
	ErrDuplicatePlugin = zerr.New("duplicate plugin configuration")

	// ErrNothingToInherit is returned when an inherit reference finds no earlier record to inherit from.
	ErrNothingToInherit = zerr.New("no existing plugin configuration found to inherit from")

	// ErrAmbiguousInherit is returned when an inherit reference without a plugin path matches
	// more than one earlier record from the same image.
	ErrAmbiguousInherit = zerr.New("multiple plugins from this image are configured, an explicit plugin path is required to inherit")

	// ErrInvalidPullPolicy is returned when a pullPolicy value is neither IfNotPresent nor Always.
	ErrInvalidPullPolicy = zerr.New("invalid pull policy, expected 'IfNotPresent' or 'Always'")

	// ErrMissingVersion is returned when a container plugin reaches installation without a resolved version.
	ErrMissingVersion = zerr.New("container plugin has no resolved version")

	// ErrMissingIntegrity is returned when a remote registry package declares no integrity string.
	ErrMissingIntegrity = zerr.New("package integrity is missing")

	// ErrIntegrityNotString is returned when the integrity field is not a string.
	ErrIntegrityNotString = zerr.New("package integrity must be a string")

	// ErrMalformedIntegrity is returned when an integrity string is not <algorithm>-<base64 digest>.
	ErrMalformedIntegrity = zerr.New("integrity is not in the expected <algorithm>-<digest> format")

	// ErrUnsupportedIntegrityAlgorithm is returned for integrity algorithms outside sha256/sha384/sha512.
	ErrUnsupportedIntegrityAlgorithm = zerr.New("unsupported integrity algorithm")

	// ErrIntegrityDigestNotBase64 is returned when an integrity digest is not valid base64.
	ErrIntegrityDigestNotBase64 = zerr.New("integrity digest is not valid base64")

	// ErrIntegrityMismatch is returned when a fetched archive does not match its declared integrity.
	ErrIntegrityMismatch = zerr.New("integrity digest mismatch")

	// ErrConfigValueConflict is returned when two plugins define the same configuration key
	// with different values.
	ErrConfigValueConflict = zerr.New("config key defined differently for two plugins")

	// ErrRecordHashFailed is returned when a record cannot be canonically encoded for hashing.
	ErrRecordHashFailed = zerr.New("failed to compute record hash")

	// ErrEntryTooLarge is returned when an archive entry exceeds the size ceiling.
	ErrEntryTooLarge = zerr.New("archive entry exceeds size limit")

	// ErrLinkEscapesRoot is returned when a link entry's resolved target leaves the destination root.
	ErrLinkEscapesRoot = zerr.New("link target escapes destination root")

	// ErrEntryEscapesRoot is returned when an archive entry's cleaned path leaves the destination root.
	ErrEntryEscapesRoot = zerr.New("archive entry escapes destination root")

	// ErrUnsupportedEntryType is returned for archive entries that are not regular files,
	// directories, or links.
	ErrUnsupportedEntryType = zerr.New("unsupported archive entry type")

	// ErrMissingPackagePrefix is returned when a registry archive entry lies outside the
	// package wrapper directory.
	ErrMissingPackagePrefix = zerr.New("archive entry outside the package directory")

	// ErrArchiveReadFailed is returned when an archive cannot be opened or read.
	ErrArchiveReadFailed = zerr.New("failed to read archive")

	// ErrExtractWriteFailed is returned when an extracted entry cannot be written.
	ErrExtractWriteFailed = zerr.New("failed to write extracted entry")

	// ErrToolNotFound is returned when a required executable is not on PATH.
	ErrToolNotFound = zerr.New("executable not found in PATH")

	// ErrCommandFailed is returned when an external command exits with an error.
	ErrCommandFailed = zerr.New("command execution failed")

	// ErrImageCopyFailed is returned when copying an image to local storage fails.
	ErrImageCopyFailed = zerr.New("failed to copy image")

	// ErrImageInspectFailed is returned when inspecting an image fails.
	ErrImageInspectFailed = zerr.New("failed to inspect image")

	// ErrImageManifestParseFailed is returned when an image manifest cannot be decoded.
	ErrImageManifestParseFailed = zerr.New("failed to parse image manifest")

	// ErrNoLayersInImage is returned when an image manifest lists no layers.
	ErrNoLayersInImage = zerr.New("image has no layers")

	// ErrPackFailed is returned when packing a registry package into an archive fails.
	ErrPackFailed = zerr.New("failed to pack package")

	// ErrRootScanFailed is returned when the destination root cannot be scanned for installed plugins.
	ErrRootScanFailed = zerr.New("failed to scan plugins root")

	// ErrSidecarReadFailed is returned when a sidecar file cannot be read.
	ErrSidecarReadFailed = zerr.New("failed to read sidecar file")

	// ErrSidecarWriteFailed is returned when a sidecar file cannot be written.
	ErrSidecarWriteFailed = zerr.New("failed to write sidecar file")

	// ErrLockCreateFailed is returned when the exclusion marker cannot be created.
	ErrLockCreateFailed = zerr.New("failed to create lock file")

	// ErrLockRemoveFailed is returned when the exclusion marker cannot be removed.
	ErrLockRemoveFailed = zerr.New("failed to remove lock file")

	// ErrCatalogDefaultNotFound is returned when the catalog index image carries no
	// default plugins manifest.
	ErrCatalogDefaultNotFound = zerr.New("default plugins manifest not found in catalog index")

	// ErrGlobalConfigWriteFailed is returned when the merged configuration document cannot be written.
	ErrGlobalConfigWriteFailed = zerr.New("failed to write merged configuration document")

	// ErrInstallationFailed is returned when the installation run fails.
	ErrInstallationFailed = zerr.New("installation failed")

	// ErrWatchFailed is returned when the manifest watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch manifest")
)
