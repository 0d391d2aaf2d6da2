package watcher

import (
	"os"
	"sync"
	"unique"

	"github.com/cespare/xxhash/v2"
)

// FingerprintCache remembers a content fingerprint per watched file so
// that events which do not change the bytes (metadata touches, editors
// rewriting identical content) can be dropped before they trigger a
// reconciliation run.
type FingerprintCache struct {
	mu   sync.Mutex
	sums map[unique.Handle[string]]uint64
}

// NewFingerprintCache creates an empty fingerprint cache.
func NewFingerprintCache() *FingerprintCache {
	return &FingerprintCache{
		sums: make(map[unique.Handle[string]]uint64),
	}
}

// Changed reports whether the file content differs from the last recorded
// fingerprint and records the new one. A file that cannot be read counts
// as changed and loses its record, so its next successful read is a
// change as well.
func (c *FingerprintCache) Changed(path string) bool {
	handle := unique.Make(path)

	data, err := os.ReadFile(path) //nolint:gosec // watched paths come from the manifest
	if err != nil {
		c.mu.Lock()
		delete(c.sums, handle)
		c.mu.Unlock()
		return true
	}

	sum := xxhash.Sum64(data)

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, seen := c.sums[handle]
	c.sums[handle] = sum
	return !seen || prev != sum
}

// Forget drops the fingerprint record for path.
func (c *FingerprintCache) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sums, unique.Make(path))
}
