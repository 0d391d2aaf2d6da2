package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
	"go.trai.ch/zerr"
)

// installRegistry fetches a registry or local package through `npm pack`
// and extracts the resulting tarball into the root. The plugin directory
// is named after the tarball, so a version bump lands in a new directory.
func (r *Reconciler) installRegistry(
	ctx context.Context,
	span ports.Span,
	rec domain.Record,
	opts Options,
) (string, error) {
	pkg := rec.Package()
	spec := pkg
	local := rec.Kind() == domain.SourceLocal

	if local {
		cwd, err := os.Getwd()
		if err != nil {
			return "", zerr.Wrap(err, "failed to resolve working directory")
		}
		spec = filepath.Join(cwd, strings.TrimPrefix(pkg, domain.LocalPrefix))
	}

	// Malformed integrity declarations are rejected before anything is
	// fetched. Local packages carry no integrity.
	verify := !local && !opts.SkipIntegrity
	var integrity string
	if verify {
		value, present, err := rec.Integrity()
		if err != nil {
			return "", err
		}
		if !present {
			return "", zerr.With(domain.ErrMissingIntegrity, "package", pkg)
		}
		if err := ValidateIntegrity(value); err != nil {
			return "", zerr.With(err, "package", pkg)
		}
		integrity = value
	}

	scratch, err := os.MkdirTemp("", "dynplug-pack-*")
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrPackFailed.Error())
	}
	defer os.RemoveAll(scratch) //nolint:errcheck // scratch space

	_, _ = fmt.Fprintf(span, "grabbing package archive through `npm pack`\n")
	archive, err := r.registry.Pack(ctx, scratch, spec)
	if err != nil {
		return "", err
	}

	if verify {
		_, _ = fmt.Fprintf(span, "verifying package integrity\n")
		if err := VerifyArchive(integrity, archive); err != nil {
			return "", zerr.With(err, "package", pkg)
		}
	}

	pluginDir := strings.TrimSuffix(filepath.Base(archive), domain.ArchiveSuffix)
	target := filepath.Join(opts.Root, pluginDir)
	if _, err := os.Stat(target); err == nil {
		_, _ = fmt.Fprintf(span, "removing previous plugin directory %s\n", target)
		if err := r.store.RemovePluginDir(opts.Root, pluginDir); err != nil {
			return "", err
		}
	}

	_, _ = fmt.Fprintf(span, "extracting package archive %s\n", filepath.Base(archive))
	if err := r.extractor.ExtractPackage(archive, target); err != nil {
		return "", err
	}

	return pluginDir, nil
}
