package normalize

import (
	"regexp"
	"strings"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/zerr"
)

// Container references carry exactly one of a tag or a digest, and
// optionally a !<path> selecting one plugin out of the image.
var ociPattern = regexp.MustCompile(
	`^(oci://[^\s:@]+)` + // registry and image
		`(?::([^\s!@:]+)` + // tag
		`|@((?:sha256|sha512|blake3):[^\s!@:]+))` + // or digest
		`(?:!([^\s]+))?$`, // optional plugin path
)

// OCIRef is a parsed container package reference.
type OCIRef struct {
	// Registry is the oci://<registry>/<image> part, version stripped.
	Registry string

	// Version is the tag, or the <algorithm>:<digest> pair.
	Version string

	// Inherit reports whether the tag is the inherit marker. A digest
	// reference is never an inherit reference.
	Inherit bool

	// Path is the plugin path after the ! separator, empty when the
	// reference names none.
	Path string
}

// ParseOCI parses and validates a container package reference.
func ParseOCI(pkg string) (OCIRef, error) {
	m := ociPattern.FindStringSubmatch(pkg)
	if m == nil {
		return OCIRef{}, zerr.With(domain.ErrMalformedContainerRef, "package", pkg)
	}

	registry, tag, digest, path := m[1], m[2], m[3], m[4]
	version := tag
	if version == "" {
		version = digest
	}

	return OCIRef{
		Registry: registry,
		Version:  version,
		Inherit:  tag == domain.InheritMarker,
		Path:     path,
	}, nil
}

// Key returns the version-independent identity of the reference. The
// plugin path must be resolved before a key can identify a plugin, so
// references without one first go through inheritance or auto-detection.
func (r OCIRef) Key() string {
	return r.Registry + ":!" + r.Path
}

// String reassembles the package reference from its parts.
func (r OCIRef) String() string {
	s := r.Registry + ":" + r.Version
	if r.Path != "" {
		s += "!" + r.Path
	}
	return s
}

// ImageRef returns the image reference without the plugin path, in the
// form a registry client accepts. Digest versions always contain a
// colon, tags never do.
func (r OCIRef) ImageRef() string {
	if strings.Contains(r.Version, ":") {
		return r.Registry + "@" + r.Version
	}
	return r.Registry + ":" + r.Version
}
