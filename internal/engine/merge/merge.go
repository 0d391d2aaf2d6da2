// Package merge folds layered plugin manifests into a single plugin
// set keyed by version-independent identity.
//
// Included manifests form the base layer, the main manifest the
// override layer. A plugin appearing in a higher layer overrides the
// lower one field by field; two entries with the same identity in the
// same layer are a configuration error. Container references may
// inherit version and plugin path from the layer below through the
// inherit marker, or have their plugin path auto-detected from the
// image manifest.
package merge

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
	"go.trai.ch/dynplug/internal/engine/normalize"
	"go.trai.ch/zerr"
)

// Layer is one manifest's worth of plugin entries.
type Layer struct {
	// Source is the manifest file the entries came from, used in
	// diagnostics.
	Source string

	// Plugins holds the entries in declaration order.
	Plugins []domain.Record

	// Level orders layers: include files are level 0, the main
	// manifest level 1. Entries colliding within one level conflict.
	Level int
}

// Merger folds manifest layers into a plugin set.
type Merger struct {
	images ports.ImageClient
	logger ports.Logger
}

// New creates a Merger. The image client is only consulted for
// container references that omit their plugin path.
func New(images ports.ImageClient, logger ports.Logger) *Merger {
	return &Merger{
		images: images,
		logger: logger,
	}
}

// Merge applies the layers in order and returns the resulting set.
func (m *Merger) Merge(ctx context.Context, layers []Layer) (domain.PluginSet, error) {
	set := domain.PluginSet{}
	for _, layer := range layers {
		for _, rec := range layer.Plugins {
			if err := m.Apply(ctx, set, rec, layer.Source, layer.Level); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// Apply merges a single plugin entry into the set.
func (m *Merger) Apply(ctx context.Context, set domain.PluginSet, rec domain.Record, source string, level int) error {
	raw, ok := rec[domain.FieldPackage]
	pkg, isString := raw.(string)
	if !ok || !isString {
		return zerr.With(domain.ErrPackageNotString, "file", source)
	}

	if rec.Kind() == domain.SourceContainer {
		return m.applyContainer(ctx, set, rec, pkg, source, level)
	}
	return m.applyRegistry(set, rec, pkg, source, level)
}

// applyRegistry merges an entry whose package is handled by npm:
// registry names, aliases, git URLs, local directories and tarballs.
func (m *Merger) applyRegistry(set domain.PluginSet, rec domain.Record, pkg, source string, level int) error {
	key := normalize.NPMKey(pkg)

	existing, ok := set[key]
	if !ok {
		m.logger.Info(fmt.Sprintf("adding new plugin configuration for %s", key))
		rec.SetLayer(level)
		set[key] = rec
		return nil
	}

	m.logger.Info(fmt.Sprintf("overriding plugin configuration %s", key))
	if prev, has := existing.Layer(); has && prev == level {
		return zerr.With(zerr.With(domain.ErrDuplicatePlugin, "package", pkg), "file", source)
	}
	existing.SetLayer(level)

	for k, v := range rec {
		existing[k] = v
	}
	return nil
}

// applyContainer merges an oci:// entry, resolving inheritance and
// auto-detecting the plugin path when the reference names none.
func (m *Merger) applyContainer(ctx context.Context, set domain.PluginSet, rec domain.Record, pkg, source string, level int) error {
	ref, err := normalize.ParseOCI(pkg)
	if err != nil {
		return zerr.With(err, "file", source)
	}

	switch {
	case ref.Inherit && ref.Path == "":
		if err := m.resolveInherited(set, &ref); err != nil {
			return err
		}
		rec.SetPackage(ref.String())

	case ref.Path == "":
		if err := m.autoDetectPath(ctx, &ref); err != nil {
			return err
		}
		rec.SetPackage(pkg + "!" + ref.Path)
	}

	key := ref.Key()
	existing, ok := set[key]
	if !ok {
		if ref.Inherit {
			return zerr.With(zerr.With(domain.ErrNothingToInherit, "package", pkg), "file", source)
		}
		m.logger.Info(fmt.Sprintf("adding new plugin configuration for version %s of %s", ref.Version, key))
		rec.SetLayer(level)
		rec.SetVersion(ref.Version)
		set[key] = rec
		return nil
	}

	m.logger.Info(fmt.Sprintf("overriding plugin configuration %s", key))
	if prev, has := existing.Layer(); has && prev == level {
		return zerr.With(zerr.With(domain.ErrDuplicatePlugin, "package", pkg), "file", source)
	}
	existing.SetLayer(level)

	if !ref.Inherit {
		existing.SetPackage(rec.Package())
		if v, _ := existing.Version(); v != ref.Version {
			m.logger.Info(fmt.Sprintf("overriding version for %s from %s to %s", key, v, ref.Version))
		}
		existing.SetVersion(ref.Version)
	}

	for k, v := range rec {
		if k == domain.FieldPackage || k == domain.FieldVersion {
			continue
		}
		existing[k] = v
	}
	return nil
}

// resolveInherited fills in version and path for an inherit reference
// that names no plugin path, matching on the image alone. Exactly one
// plugin from the same image must already be in the set.
func (m *Merger) resolveInherited(set domain.PluginSet, ref *normalize.OCIRef) error {
	prefix := ref.Registry + ":!"

	var matches []string
	for key := range set {
		if strings.HasPrefix(key, prefix) {
			matches = append(matches, key)
		}
	}
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return zerr.With(domain.ErrNothingToInherit, "image", ref.Registry)
	case 1:
	default:
		candidates := make([]string, 0, len(matches))
		for _, key := range matches {
			version, _ := set[key].Version()
			candidates = append(candidates, fmt.Sprintf("%s:%s!%s", ref.Registry, version, strings.TrimPrefix(key, prefix)))
		}
		return zerr.With(zerr.With(domain.ErrAmbiguousInherit, "image", ref.Registry), "candidates", strings.Join(candidates, ", "))
	}

	key := matches[0]
	version, _ := set[key].Version()
	ref.Version = version
	ref.Path = strings.TrimPrefix(key, prefix)
	m.logger.Info(fmt.Sprintf("inheriting version %s and plugin path %s for %s", ref.Version, ref.Path, key))
	return nil
}

// autoDetectPath resolves the plugin path from the image's dynamic
// packages annotation. Exactly one packaged plugin must be present.
func (m *Merger) autoDetectPath(ctx context.Context, ref *normalize.OCIRef) error {
	image := ref.ImageRef()
	m.logger.Info(fmt.Sprintf("no plugin path specified for %s, auto-detecting from image manifest", image))

	paths, err := m.images.PluginPaths(ctx, image)
	if err != nil {
		return zerr.With(err, "image", image)
	}

	switch len(paths) {
	case 0:
		return zerr.With(domain.ErrNoPluginsInImage, "image", image)
	case 1:
	default:
		return zerr.With(zerr.With(domain.ErrAmbiguousPluginPath, "image", image), "candidates", strings.Join(paths, ", "))
	}

	ref.Path = paths[0]
	m.logger.Info(fmt.Sprintf("auto-resolved %s to plugin path %s", image, ref.Path))
	return nil
}
