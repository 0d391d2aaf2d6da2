package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
	"go.trai.ch/dynplug/internal/engine/normalize"
	"go.trai.ch/zerr"
)

// installContainer fetches a container image and extracts the record's
// plugin sub-path into the root. The remote digest is recorded next to
// the extracted files for future Always-policy comparisons.
func (r *Reconciler) installContainer(
	ctx context.Context,
	span ports.Span,
	rec domain.Record,
	index map[string]string,
	opts Options,
) (string, error) {
	pkg := rec.Package()

	if _, ok := rec.Version(); !ok {
		return "", zerr.With(domain.ErrMissingVersion, "package", pkg)
	}

	ref, err := normalize.ParseOCI(pkg)
	if err != nil {
		return "", err
	}
	if ref.Path == "" {
		// The merge step resolves every sub-path before reconciliation.
		return "", zerr.With(domain.ErrMalformedContainerRef, "package", pkg)
	}

	tarball, err := r.images.Tarball(ctx, ref.ImageRef())
	if err != nil {
		return "", err
	}

	target := filepath.Join(opts.Root, ref.Path)
	if _, err := os.Stat(target); err == nil {
		_, _ = fmt.Fprintf(span, "removing previous plugin directory %s\n", target)
		if err := r.store.RemovePluginDir(opts.Root, ref.Path); err != nil {
			return "", err
		}
	}

	_, _ = fmt.Fprintf(span, "extracting plugin %s\n", ref.Path)
	if err := r.extractor.ExtractPrefixed(tarball, ref.Path, opts.Root); err != nil {
		return "", err
	}

	digest, err := r.images.Digest(ctx, ref.ImageRef())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(target, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrSidecarWriteFailed.Error()), "path", target)
	}
	if err := r.store.WriteImageDigest(opts.Root, ref.Path, digest); err != nil {
		return "", err
	}

	// Repeated overwrites can leave several tracked hashes pointing at
	// this directory; retire them all so the fresh install survives
	// garbage collection.
	for hash, dir := range index {
		if dir == ref.Path {
			delete(index, hash)
		}
	}

	return ref.Path, nil
}

// remoteDigest reports the current manifest digest of the image behind a
// container package reference.
func (r *Reconciler) remoteDigest(ctx context.Context, pkg string) (string, error) {
	ref, err := normalize.ParseOCI(pkg)
	if err != nil {
		return "", err
	}
	return r.images.Digest(ctx, ref.ImageRef())
}
