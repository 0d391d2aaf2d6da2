// Package domain holds the core types of the dynamic plugins installer.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Well-known record fields. A record is an open map: any field not listed
// here is preserved through merging and participates in the content hash.
const (
	// FieldPackage is the package reference string. Required on every entry.
	FieldPackage = "package"

	// FieldIntegrity is the <algorithm>-<base64 digest> integrity declaration.
	FieldIntegrity = "integrity"

	// FieldPluginConfig is the free-form runtime configuration fragment.
	FieldPluginConfig = "pluginConfig"

	// FieldDisabled switches a plugin off without removing its entry.
	FieldDisabled = "disabled"

	// FieldPullPolicy controls re-fetching of already installed artifacts.
	FieldPullPolicy = "pullPolicy"

	// FieldForceDownload forces re-installation regardless of pull policy.
	FieldForceDownload = "forceDownload"

	// FieldVersion is the resolved version, tag, or digest of a container
	// reference. Maintained by the merge step, excluded from hashing.
	FieldVersion = "version"

	// FieldLayer is the last manifest layer that wrote the record.
	// Maintained by the merge step and included in hashing, so an entry
	// moving between layers is re-installed.
	FieldLayer = "_layer"

	// FieldLocalInfo carries local package change-detection facts into the
	// hash for ./-prefixed sources. Never read back after hashing.
	FieldLocalInfo = "_localPackage"
)

// PullPolicy governs whether an already installed artifact is re-fetched.
type PullPolicy string

const (
	// PullIfNotPresent skips installation when the record hash is already installed.
	PullIfNotPresent PullPolicy = "IfNotPresent"

	// PullAlways re-installs, subject to remote digest comparison for container sources.
	PullAlways PullPolicy = "Always"
)

// SourceKind classifies a package reference by where its artifact comes from.
type SourceKind int

const (
	// SourceRegistry is a package-registry reference (name, alias, VCS locator, or tarball).
	SourceRegistry SourceKind = iota

	// SourceContainer is an oci:// container-registry reference.
	SourceContainer

	// SourceLocal is a ./-prefixed local filesystem reference.
	SourceLocal
)

// KindOf classifies a package reference string.
func KindOf(ref string) SourceKind {
	switch {
	case strings.HasPrefix(ref, OCIPrefix):
		return SourceContainer
	case strings.HasPrefix(ref, LocalPrefix):
		return SourceLocal
	default:
		return SourceRegistry
	}
}

// Record is one plugin's configuration: the manifest entry plus the
// bookkeeping fields maintained by the merge step. Unknown fields are kept
// verbatim so that manifest authors can attach arbitrary configuration
// without the installer dropping it.
type Record map[string]any

// Package returns the package reference string, or "" if absent or not a string.
func (r Record) Package() string {
	s, _ := r[FieldPackage].(string)
	return s
}

// SetPackage replaces the package reference string.
func (r Record) SetPackage(ref string) {
	r[FieldPackage] = ref
}

// Kind classifies the record's package reference.
func (r Record) Kind() SourceKind {
	return KindOf(r.Package())
}

// Version returns the resolved version and whether one is set.
func (r Record) Version() (string, bool) {
	s, ok := r[FieldVersion].(string)
	return s, ok
}

// SetVersion records the resolved version.
func (r Record) SetVersion(v string) {
	r[FieldVersion] = v
}

// Layer returns the last manifest layer that wrote the record and whether one is set.
func (r Record) Layer() (int, bool) {
	switch v := r[FieldLayer].(type) {
	case int:
		return v, true
	default:
		return 0, false
	}
}

// SetLayer records the writing manifest layer.
func (r Record) SetLayer(layer int) {
	r[FieldLayer] = layer
}

// Disabled reports whether the plugin is switched off.
func (r Record) Disabled() bool {
	b, _ := r[FieldDisabled].(bool)
	return b
}

// ForceDownload reports whether re-installation is forced.
func (r Record) ForceDownload() bool {
	b, _ := r[FieldForceDownload].(bool)
	return b
}

// PullPolicy returns the record's pull policy, falling back to def when the
// field is absent. An unrecognized value is an error.
func (r Record) PullPolicy(def PullPolicy) (PullPolicy, error) {
	v, ok := r[FieldPullPolicy]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", zerr.With(ErrInvalidPullPolicy, "package", r.Package())
	}
	switch PullPolicy(s) {
	case PullIfNotPresent, PullAlways:
		return PullPolicy(s), nil
	default:
		err := zerr.With(ErrInvalidPullPolicy, "package", r.Package())
		return "", zerr.With(err, "pullPolicy", s)
	}
}

// Integrity returns the integrity declaration and whether one is present.
// A present but non-string value reports ErrIntegrityNotString.
func (r Record) Integrity() (string, bool, error) {
	v, ok := r[FieldIntegrity]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, zerr.With(ErrIntegrityNotString, "package", r.Package())
	}
	return s, true, nil
}

// PluginConfig returns the runtime configuration fragment, or nil when absent
// or not a mapping.
func (r Record) PluginConfig() map[string]any {
	m, _ := r[FieldPluginConfig].(map[string]any)
	return m
}

// Clone returns a deep copy of the record. Nested maps and slices are
// copied; scalar values are shared.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = deepCopy(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = deepCopy(e)
		}
		return s
	default:
		return v
	}
}

// PluginSet is the identity-keyed merge accumulator threaded through the
// manifest layers.
type PluginSet map[string]Record
