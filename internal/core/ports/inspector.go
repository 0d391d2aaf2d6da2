package ports

import "go.trai.ch/dynplug/internal/core/domain"

// PackageInspector defines the interface for fingerprinting local
// plugin packages.
//
//go:generate mockgen -source=inspector.go -destination=mocks/mock_inspector.go -package=mocks
type PackageInspector interface {
	// LocalInfo fingerprints the local package at path. Collection
	// problems are recorded inside the returned value rather than
	// returned, so a broken package still changes the fingerprint.
	LocalInfo(path string) domain.LocalPackageInfo
}
