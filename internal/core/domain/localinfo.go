package domain

// LocalPackageInfo captures the change-detection facts of a local package
// directory. It is folded into the record hash for ./-prefixed sources so
// that local edits trigger re-installation without a version bump.
//
// Exactly one of the three shapes is populated: manifest facts when a
// package.json exists, the directory mtime when the directory exists without
// one, or the NotFound/Error markers when the path cannot be inspected.
// Error carries the failure text on purpose: a broken source hashes
// differently from a healthy one and re-installs once fixed.
type LocalPackageInfo struct {
	// PackageJSONHash is the content digest of package.json.
	PackageJSONHash string `json:"packageJsonHash,omitempty"`

	// PackageJSONMtime is the modification time of package.json (unix nanoseconds).
	PackageJSONMtime int64 `json:"packageJsonMtime,omitempty"`

	// LockfileMtimes maps lockfile names (package-lock.json, yarn.lock) to
	// modification times (unix nanoseconds) for the lockfiles present in
	// the directory.
	LockfileMtimes map[string]int64 `json:"lockfileMtimes,omitempty"`

	// DirMtime is the directory modification time (unix nanoseconds),
	// used only when no package.json exists. Coarse on purpose: any touch
	// re-installs.
	DirMtime int64 `json:"dirMtime,omitempty"`

	// NotFound marks a package path that does not exist.
	NotFound bool `json:"notFound,omitempty"`

	// Error carries the text of a failed inspection.
	Error string `json:"error,omitempty"`
}
