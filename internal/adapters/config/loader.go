// Package config loads plugin manifests and writes the merged
// configuration document.
package config

import (
	"fmt"
	"os"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ManifestLoader = (*Loader)(nil)

// Loader implements ports.ManifestLoader on top of YAML files.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads and parses the manifest at path. A missing or empty file
// yields nil, nil so the caller can treat it as "nothing to install".
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	doc, err := l.readDocument(path)
	if err != nil || doc == nil {
		return nil, err
	}

	manifest := &domain.Manifest{}

	if raw, ok := doc["includes"]; ok {
		manifest.Includes, err = decodeIncludes(raw, path)
		if err != nil {
			return nil, err
		}
	}

	if raw, ok := doc["plugins"]; ok {
		manifest.Plugins, err = decodePlugins(raw, path)
		if err != nil {
			return nil, err
		}
	}

	return manifest, nil
}

// LoadPlugins reads an included manifest file and returns its plugin
// entries. Includes declared by included files are not followed. A
// missing file is skipped with a warning.
func (l *Loader) LoadPlugins(path string) ([]domain.Record, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		l.logger.Warn(fmt.Sprintf("file %s does not exist, skipping including dynamic packages from %s", path, path))
		return nil, nil
	}

	doc, err := l.readDocument(path)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, zerr.With(domain.ErrManifestNotMapping, "file", path)
	}

	// Included files must declare a plugins list, unlike the main
	// manifest where it is optional.
	raw, ok := doc["plugins"]
	if !ok {
		return nil, zerr.With(domain.ErrPluginsNotList, "file", path)
	}
	return decodePlugins(raw, path)
}

// WriteGlobalConfig writes the merged configuration document to path.
// A nil config writes an empty document.
func (l *Loader) WriteGlobalConfig(path string, config map[string]any) error {
	var data []byte
	if config != nil {
		var err error
		data, err = yaml.Marshal(config)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrGlobalConfigWriteFailed.Error()), "path", path)
		}
	}

	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGlobalConfigWriteFailed.Error()), "path", path)
	}
	return nil
}

// readDocument reads path into a YAML mapping. Missing files and empty
// documents yield nil, nil.
func (l *Loader) readDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // manifest paths come from the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "file", path)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "file", path)
	}
	if raw == nil {
		return nil, nil
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, zerr.With(domain.ErrManifestNotMapping, "file", path)
	}
	return doc, nil
}

func decodeIncludes(raw any, path string) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, zerr.With(domain.ErrIncludesNotStringList, "file", path)
	}

	includes := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, zerr.With(domain.ErrIncludesNotStringList, "file", path)
		}
		includes = append(includes, s)
	}
	return includes, nil
}

func decodePlugins(raw any, path string) ([]domain.Record, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, zerr.With(domain.ErrPluginsNotList, "file", path)
	}

	plugins := make([]domain.Record, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, zerr.With(domain.ErrPluginsNotList, "file", path)
		}
		plugins = append(plugins, domain.Record(entry))
	}
	return plugins, nil
}
