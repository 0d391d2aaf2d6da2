// Package catalog extracts the companion catalog index image: the
// default-plugins manifest it carries, substituted into the include
// list, and the catalog entity documents copied aside for the app.
package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
	"go.trai.ch/zerr"
)

// entitiesPreferred and entitiesLegacy are the directory names a catalog
// index publishes its entity documents under. The legacy name is still
// produced by older index images.
const (
	entitiesPreferred = "extensions"
	entitiesLegacy    = "marketplace"
)

// Extractor pulls a catalog index image apart into the scratch directory
// of a plugins root.
type Extractor struct {
	images    ports.ImageClient
	extractor ports.ArchiveExtractor
	tracer    ports.Tracer
	logger    ports.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(
	images ports.ImageClient,
	extractor ports.ArchiveExtractor,
	tracer ports.Tracer,
	logger ports.Logger,
) *Extractor {
	return &Extractor{
		images:    images,
		extractor: extractor,
		tracer:    tracer,
		logger:    logger,
	}
}

// Extract copies the index image, unpacks every layer into the scratch
// directory under root and copies the entity documents into entitiesDir.
// It returns the path of the extracted default-plugins manifest.
//
// The scratch directory is left in place for the caller to substitute
// include paths against; end-of-run cleanup removes it.
func (e *Extractor) Extract(ctx context.Context, image, root, entitiesDir string) (string, error) {
	ctx, span := e.tracer.Start(ctx, "Extracting catalog index")
	defer span.End()

	manifest, err := e.extract(ctx, span, image, root, entitiesDir)
	if err != nil {
		span.RecordError(err)
		return "", zerr.With(err, "image", image)
	}
	return manifest, nil
}

func (e *Extractor) extract(
	ctx context.Context,
	span ports.Span,
	image, root, entitiesDir string,
) (string, error) {
	e.logger.Info(fmt.Sprintf("extracting catalog index from %s", image))

	scratch := domain.CatalogScratchPath(root)
	if err := os.MkdirAll(scratch, domain.DirPerm); err != nil {
		return "", zerr.Wrap(err, domain.ErrExtractWriteFailed.Error())
	}

	layers, err := e.images.Layers(ctx, image)
	if err != nil {
		return "", err
	}
	for _, layer := range layers {
		_, _ = fmt.Fprintf(span, "extracting layer %s\n", filepath.Base(layer))
		if err := e.extractor.ExtractLayer(layer, scratch); err != nil {
			return "", err
		}
	}

	manifest, err := locateDefaultManifest(scratch)
	if err != nil {
		return "", err
	}
	_, _ = fmt.Fprintf(span, "found default plugins manifest %s\n", manifest)

	if err := e.copyEntities(span, scratch, image, entitiesDir); err != nil {
		return "", err
	}
	return manifest, nil
}

// locateDefaultManifest finds the default-plugins manifest in the scratch
// tree. The top level is the documented location; a walk covers index
// images that nest it.
func locateDefaultManifest(scratch string) (string, error) {
	direct := filepath.Join(scratch, domain.DefaultIncludeFileName)
	if _, err := os.Stat(direct); err == nil {
		return direct, nil
	}

	var found string
	err := filepath.WalkDir(scratch, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == domain.DefaultIncludeFileName {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrCatalogDefaultNotFound.Error())
	}
	if found == "" {
		return "", domain.ErrCatalogDefaultNotFound
	}
	return found, nil
}

// copyEntities mirrors the entity documents of the index into
// entitiesDir, replacing whatever an earlier run left there. An index
// without entity documents is tolerated.
func (e *Extractor) copyEntities(span ports.Span, scratch, image, entitiesDir string) error {
	src := filepath.Join(scratch, domain.CatalogEntitiesDirName, entitiesPreferred)
	if !isDir(src) {
		legacy := filepath.Join(scratch, domain.CatalogEntitiesDirName, entitiesLegacy)
		if isDir(legacy) {
			e.logger.Info(fmt.Sprintf(
				"catalog index %s uses the legacy %s/%s directory",
				image, domain.CatalogEntitiesDirName, entitiesLegacy))
		}
		src = legacy
	}
	if !isDir(src) {
		e.logger.Warn(fmt.Sprintf(
			"catalog index %s has neither %s/%s nor %s/%s, no entity documents extracted",
			image,
			domain.CatalogEntitiesDirName, entitiesPreferred,
			domain.CatalogEntitiesDirName, entitiesLegacy))
		return nil
	}

	if err := os.MkdirAll(entitiesDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrExtractWriteFailed.Error())
	}
	dest := filepath.Join(entitiesDir, domain.CatalogEntitiesDirName)
	if err := os.RemoveAll(dest); err != nil {
		return zerr.Wrap(err, domain.ErrExtractWriteFailed.Error())
	}

	_, _ = fmt.Fprintf(span, "copying entity documents to %s\n", dest)
	if err := os.CopyFS(dest, os.DirFS(src)); err != nil {
		return zerr.Wrap(err, domain.ErrExtractWriteFailed.Error())
	}
	e.logger.Info(fmt.Sprintf("extracted catalog entity documents to %s", dest))
	return nil
}

// DefaultEntitiesDir returns the entity document destination used when
// none is configured.
func DefaultEntitiesDir() string {
	return filepath.Join(os.TempDir(), "extensions")
}

// RemoveScratch deletes the scratch directory of a root. Removal is best
// effort; a missing directory is not an error.
func RemoveScratch(root string) {
	_ = os.RemoveAll(domain.CatalogScratchPath(root))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
