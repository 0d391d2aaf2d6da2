// Package oci reads container images through the skopeo command line.
package oci

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
	"go.trai.ch/zerr"
)

const dockerPrefix = "docker://"

// Client implements ports.ImageClient on top of skopeo.
//
// Fetched images land in a per-client scratch directory, one subdirectory
// per reference, so repeated reads of the same reference during a run hit
// the registry once. Cleanup removes the whole scratch space.
type Client struct {
	executor ports.Executor
	logger   ports.Logger

	mu      sync.Mutex
	scratch string
	fetched map[string]string
}

// NewClient creates a new Client.
func NewClient(executor ports.Executor, logger ports.Logger) *Client {
	return &Client{
		executor: executor,
		logger:   logger,
		fetched:  make(map[string]string),
	}
}

type imageManifest struct {
	Layers      []imageLayer      `json:"layers"`
	Annotations map[string]string `json:"annotations"`
}

type imageLayer struct {
	Digest string `json:"digest"`
}

// Tarball fetches ref and returns the local path of its first layer.
func (c *Client) Tarball(ctx context.Context, ref string) (string, error) {
	dir, err := c.fetch(ctx, ref)
	if err != nil {
		return "", err
	}

	manifest, err := readManifest(dir, ref)
	if err != nil {
		return "", err
	}
	if len(manifest.Layers) == 0 {
		return "", zerr.With(domain.ErrNoLayersInImage, "image", ref)
	}

	name, err := layerFileName(manifest.Layers[0].Digest, ref)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// Layers fetches ref and returns the local paths of all its layers in
// manifest order. Layers whose file is missing from the copied image are
// skipped with a warning.
func (c *Client) Layers(ctx context.Context, ref string) ([]string, error) {
	dir, err := c.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	manifest, err := readManifest(dir, ref)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, layer := range manifest.Layers {
		if layer.Digest == "" {
			continue
		}
		name, err := layerFileName(layer.Digest, ref)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			c.logger.Warn(fmt.Sprintf("layer file %s not found in image %s", name, ref))
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Digest reports the manifest digest of ref in the registry, without the
// algorithm prefix.
func (c *Client) Digest(ctx context.Context, ref string) (string, error) {
	out, err := c.skopeo(ctx, "inspect", dockerURL(ref))
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrImageInspectFailed.Error()), "image", ref)
	}

	var inspect struct {
		Digest string `json:"Digest"`
	}
	if err := json.Unmarshal(out, &inspect); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrImageInspectFailed.Error()), "image", ref)
	}

	_, digest, ok := strings.Cut(inspect.Digest, ":")
	if !ok {
		err := zerr.With(domain.ErrImageInspectFailed, "image", ref)
		return "", zerr.With(err, "digest", inspect.Digest)
	}
	return digest, nil
}

// PluginPaths reads the dynamic packages annotation of the image manifest
// and returns the plugin paths it declares. Images without the annotation
// yield an empty list.
func (c *Client) PluginPaths(ctx context.Context, ref string) ([]string, error) {
	out, err := c.skopeo(ctx, "inspect", "--raw", dockerURL(ref))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrImageInspectFailed.Error()), "image", ref)
	}

	var manifest imageManifest
	if err := json.Unmarshal(out, &manifest); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrImageManifestParseFailed.Error()), "image", ref)
	}

	encoded := manifest.Annotations[domain.PluginPathsAnnotation]
	if encoded == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrImageManifestParseFailed.Error()), "image", ref)
	}

	// The annotation holds a JSON array of objects keyed by plugin path.
	var entries []any
	if err := json.Unmarshal(decoded, &entries); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrImageManifestParseFailed.Error()), "image", ref)
	}

	var paths []string
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		for path := range obj {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Cleanup removes the scratch space used for fetched images.
func (c *Client) Cleanup() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scratch == "" {
		return nil
	}
	scratch := c.scratch
	c.scratch = ""
	c.fetched = make(map[string]string)

	if err := os.RemoveAll(scratch); err != nil {
		return zerr.Wrap(err, "failed to remove image scratch directory")
	}
	return nil
}

// fetch copies ref into the scratch directory and returns the local copy,
// reusing an earlier copy when present.
func (c *Client) fetch(ctx context.Context, ref string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dir, ok := c.fetched[ref]; ok {
		return dir, nil
	}

	if c.scratch == "" {
		scratch, err := os.MkdirTemp("", "dynamic-plugins-oci-")
		if err != nil {
			return "", zerr.Wrap(err, "failed to create image scratch directory")
		}
		c.scratch = scratch
	}

	c.logger.Info(fmt.Sprintf("copying image %s to local filesystem", ref))

	sum := sha256.Sum256([]byte(ref))
	dir := filepath.Join(c.scratch, hex.EncodeToString(sum[:]))

	if _, err := c.skopeo(ctx, "copy", dockerURL(ref), "dir:"+dir); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrImageCopyFailed.Error()), "image", ref)
	}

	c.fetched[ref] = dir
	return dir, nil
}

// skopeo resolves the skopeo executable and runs it with args.
func (c *Client) skopeo(ctx context.Context, args ...string) ([]byte, error) {
	path, err := c.executor.LookPath("skopeo")
	if err != nil {
		return nil, err
	}
	return c.executor.Run(ctx, "", path, args...)
}

func readManifest(dir, ref string) (*imageManifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json")) //nolint:gosec // path is under our scratch directory
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrImageManifestParseFailed.Error()), "image", ref)
	}

	var manifest imageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrImageManifestParseFailed.Error()), "image", ref)
	}
	return &manifest, nil
}

// layerFileName extracts the file name part of a layer digest. In a
// dir-format image copy each layer is stored under the digest hex.
func layerFileName(digest, ref string) (string, error) {
	_, name, ok := strings.Cut(digest, ":")
	if !ok {
		err := zerr.With(domain.ErrImageManifestParseFailed, "image", ref)
		return "", zerr.With(err, "digest", digest)
	}
	return name, nil
}

// dockerURL rewrites a package reference into the transport skopeo expects.
func dockerURL(ref string) string {
	if strings.HasPrefix(ref, domain.OCIPrefix) {
		return dockerPrefix + strings.TrimPrefix(ref, domain.OCIPrefix)
	}
	if !strings.HasPrefix(ref, dockerPrefix) {
		return dockerPrefix + ref
	}
	return ref
}
