package ports

// ArchiveExtractor defines the interface for unpacking plugin archives.
//
// All profiles enforce a per-entry size ceiling and reject links that
// would resolve outside the destination.
//
//go:generate mockgen -source=archive.go -destination=mocks/mock_archive.go -package=mocks
type ArchiveExtractor interface {
	// ExtractPackage unpacks an NPM package tarball into dest. Every
	// regular file must live under the package/ wrapper directory,
	// which is stripped. Unexpected entry types fail the extraction.
	ExtractPackage(archive, dest string) error

	// ExtractPrefixed unpacks only the entries of archive whose names
	// start with prefix into destRoot, keeping their full paths.
	// Entries with links escaping the prefix are skipped with a warning.
	ExtractPrefixed(archive, prefix, destRoot string) error

	// ExtractLayer unpacks an image layer tarball into dest, skipping
	// oversized entries and escaping links with a warning.
	ExtractLayer(archive, dest string) error
}
