package ports

import "context"

// PackageRegistry defines the interface for fetching package archives
// from an NPM-compatible registry or the local filesystem.
//
//go:generate mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type PackageRegistry interface {
	// Pack downloads the package identified by spec into destDir and
	// returns the absolute path of the produced tarball. spec is
	// anything `npm pack` accepts, including an absolute local path.
	Pack(ctx context.Context, destDir, spec string) (string, error)
}
