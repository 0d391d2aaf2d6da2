// Package fs inspects local package sources on the filesystem.
package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
)

var _ ports.PackageInspector = (*Inspector)(nil)

// Inspector implements ports.PackageInspector.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// lockFiles are the lockfile names whose modification times feed into
// local change detection.
var lockFiles = []string{"package-lock.json", "yarn.lock"}

// LocalInfo collects the change-detection facts of the package at path.
// Inspection problems are recorded in the returned value instead of
// failing the run, so a broken source still hashes deterministically.
func (i *Inspector) LocalInfo(path string) domain.LocalPackageInfo {
	abs := path
	if strings.HasPrefix(path, domain.LocalPrefix) {
		cwd, err := os.Getwd()
		if err != nil {
			return domain.LocalPackageInfo{Error: err.Error()}
		}
		abs = filepath.Join(cwd, strings.TrimPrefix(path, domain.LocalPrefix))
	}

	packageJSON := filepath.Join(abs, "package.json")
	stat, err := os.Stat(packageJSON)
	if err != nil {
		if !os.IsNotExist(err) {
			return domain.LocalPackageInfo{Error: err.Error()}
		}

		// No package.json: fall back to the directory itself.
		dirStat, dirErr := os.Stat(abs)
		if dirErr != nil {
			if os.IsNotExist(dirErr) {
				return domain.LocalPackageInfo{NotFound: true}
			}
			return domain.LocalPackageInfo{Error: dirErr.Error()}
		}
		if !dirStat.IsDir() {
			return domain.LocalPackageInfo{NotFound: true}
		}
		return domain.LocalPackageInfo{DirMtime: dirStat.ModTime().UnixNano()}
	}

	data, err := os.ReadFile(packageJSON) //nolint:gosec // path derives from the manifest entry
	if err != nil {
		return domain.LocalPackageInfo{Error: err.Error()}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.LocalPackageInfo{Error: err.Error()}
	}

	info := domain.LocalPackageInfo{
		PackageJSONHash:  fmt.Sprintf("%016x", xxhash.Sum64(data)),
		PackageJSONMtime: stat.ModTime().UnixNano(),
	}

	for _, name := range lockFiles {
		lockStat, err := os.Stat(filepath.Join(abs, name))
		if err != nil {
			continue
		}
		if info.LockfileMtimes == nil {
			info.LockfileMtimes = make(map[string]int64)
		}
		info.LockfileMtimes[name] = lockStat.ModTime().UnixNano()
	}

	return info
}
