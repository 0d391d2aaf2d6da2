package ports

import "context"

// ImageClient defines the interface for reading OCI images from a
// container registry.
//
// ref is the full image reference including the oci:// scheme,
// e.g. "oci://quay.io/org/image:tag".
//
//go:generate mockgen -source=image.go -destination=mocks/mock_image.go -package=mocks
type ImageClient interface {
	// Tarball fetches the image and returns the local path of its first
	// layer tarball. Fetches are cached per client, so repeated calls
	// for the same ref hit the registry once.
	Tarball(ctx context.Context, ref string) (string, error)

	// Layers fetches the image and returns the local paths of all its
	// layer tarballs in manifest order.
	Layers(ctx context.Context, ref string) ([]string, error)

	// Digest reports the current manifest digest of the image in the
	// registry, without the algorithm prefix.
	Digest(ctx context.Context, ref string) (string, error)

	// PluginPaths reads the dynamic packages annotation of the image
	// manifest and returns the plugin paths it declares.
	PluginPaths(ctx context.Context, ref string) ([]string, error)

	// Cleanup removes the scratch space used for fetched images.
	Cleanup() error
}
