package ports

import "go.trai.ch/dynplug/internal/core/domain"

// ManifestLoader defines the interface for loading plugin manifests and
// writing the merged configuration document.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ManifestLoader interface {
	// Load reads and parses the manifest at the given path.
	// Returns nil, nil when the file is missing or empty.
	Load(path string) (*domain.Manifest, error)

	// LoadPlugins reads an included manifest file and returns only its
	// plugin entries. The includes of included files are not followed.
	// A missing include file yields nil, nil.
	LoadPlugins(path string) ([]domain.Record, error)

	// WriteGlobalConfig writes the merged configuration document to
	// path. A nil config writes an empty document.
	WriteGlobalConfig(path string, config map[string]any) error
}
