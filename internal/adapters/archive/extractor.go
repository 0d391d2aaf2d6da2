// Package archive implements hardened tar extraction for plugin artifacts.
//
// Three extraction profiles exist, one per artifact shape: registry
// tarballs rooted at package/, container layers filtered to a plugin
// sub-path, and catalog index layers taken whole. All three enforce the
// same per-entry size ceiling and refuse entries or link targets that
// leave the destination.
package archive

import (
	"archive/tar"
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
	"go.trai.ch/zerr"
)

// packagePrefix is the directory all registry tarball entries live under.
const packagePrefix = "package/"

// Extractor implements ports.ArchiveExtractor.
type Extractor struct {
	logger       ports.Logger
	maxEntrySize int64
}

// NewExtractor creates a new Extractor. maxEntrySize bounds the size of a
// single archive entry; values <= 0 fall back to the default ceiling.
func NewExtractor(logger ports.Logger, maxEntrySize int64) *Extractor {
	if maxEntrySize <= 0 {
		maxEntrySize = domain.DefaultMaxEntrySize
	}
	return &Extractor{logger: logger, maxEntrySize: maxEntrySize}
}

// ExtractPackage extracts a registry tarball into dest, stripping the
// package/ prefix every entry must carry. Directory entries are skipped,
// entry types other than regular files and links are refused.
func (e *Extractor) ExtractPackage(archive, dest string) error {
	if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractWriteFailed.Error()), "path", dest)
	}

	return e.walk(archive, func(hdr *tar.Header, r io.Reader) error {
		switch hdr.Typeflag {
		case tar.TypeReg:
			if !strings.HasPrefix(hdr.Name, packagePrefix) {
				return zerr.With(domain.ErrMissingPackagePrefix, "entry", hdr.Name)
			}
			if hdr.Size > e.maxEntrySize {
				return zerr.With(domain.ErrEntryTooLarge, "entry", hdr.Name)
			}
			name := strings.TrimPrefix(hdr.Name, packagePrefix)
			if !within(dest, name) {
				return zerr.With(domain.ErrEntryEscapesRoot, "entry", hdr.Name)
			}
			return e.writeFile(filepath.Join(dest, name), hdr, r)

		case tar.TypeDir:
			e.logger.Info(fmt.Sprintf("skipping directory entry %s", hdr.Name))
			return nil

		case tar.TypeLink, tar.TypeSymlink:
			if !strings.HasPrefix(hdr.Linkname, packagePrefix) {
				err := zerr.With(domain.ErrLinkEscapesRoot, "entry", hdr.Name)
				return zerr.With(err, "target", hdr.Linkname)
			}
			name := strings.TrimPrefix(hdr.Name, packagePrefix)
			linkname := strings.TrimPrefix(hdr.Linkname, packagePrefix)
			if !within(dest, name) {
				return zerr.With(domain.ErrEntryEscapesRoot, "entry", hdr.Name)
			}
			if !within(dest, linkname) {
				err := zerr.With(domain.ErrLinkEscapesRoot, "entry", hdr.Name)
				return zerr.With(err, "target", hdr.Linkname)
			}
			return e.writeLink(dest, name, linkname, hdr.Typeflag)

		default:
			err := zerr.With(domain.ErrUnsupportedEntryType, "entry", hdr.Name)
			return zerr.With(err, "type", typeName(hdr.Typeflag))
		}
	})
}

// ExtractPrefixed extracts the entries of a container layer that live
// under prefix into destRoot, keeping their full paths. Entries outside
// prefix are ignored, links leaving prefix are skipped with a warning.
func (e *Extractor) ExtractPrefixed(archive, prefix, destRoot string) error {
	if err := os.MkdirAll(destRoot, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractWriteFailed.Error()), "path", destRoot)
	}

	return e.walk(archive, func(hdr *tar.Header, r io.Reader) error {
		if !strings.HasPrefix(hdr.Name, prefix) {
			return nil
		}
		if hdr.Size > e.maxEntrySize {
			return zerr.With(domain.ErrEntryTooLarge, "entry", hdr.Name)
		}
		if hdr.Typeflag == tar.TypeLink || hdr.Typeflag == tar.TypeSymlink {
			if !within(prefix, hdr.Linkname) {
				e.logger.Warn(fmt.Sprintf(
					"skipping file containing link outside of the archive: %s -> %s", hdr.Name, hdr.Linkname))
				return nil
			}
		}
		return e.place(destRoot, hdr, r)
	})
}

// ExtractLayer extracts a catalog index layer into dest. Oversized
// entries and escaping links are skipped with a warning rather than
// failing the whole index.
func (e *Extractor) ExtractLayer(archive, dest string) error {
	if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractWriteFailed.Error()), "path", dest)
	}

	return e.walk(archive, func(hdr *tar.Header, r io.Reader) error {
		if hdr.Size > e.maxEntrySize {
			e.logger.Warn(fmt.Sprintf("skipping large file %s in catalog index", hdr.Name))
			return nil
		}
		if hdr.Typeflag == tar.TypeLink || hdr.Typeflag == tar.TypeSymlink {
			if !within(dest, hdr.Linkname) {
				e.logger.Warn(fmt.Sprintf("skipping link outside archive: %s", hdr.Name))
				return nil
			}
		}
		return e.place(dest, hdr, r)
	})
}

// walk iterates the entries of a possibly compressed tarball.
func (e *Extractor) walk(archive string, fn func(hdr *tar.Header, r io.Reader) error) error {
	f, err := os.Open(archive) //nolint:gosec // archives come from our own scratch space
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "archive", archive)
	}
	defer f.Close() //nolint:errcheck // read-only file

	r, err := decompress(f)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "archive", archive)
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "archive", archive)
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}

// place writes one entry under root, keeping its full path.
func (e *Extractor) place(root string, hdr *tar.Header, r io.Reader) error {
	if !within(root, hdr.Name) {
		return zerr.With(domain.ErrEntryEscapesRoot, "entry", hdr.Name)
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		path := filepath.Join(root, hdr.Name)
		if err := os.MkdirAll(path, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrExtractWriteFailed.Error()), "entry", hdr.Name)
		}
		return nil

	case tar.TypeReg:
		return e.writeFile(filepath.Join(root, hdr.Name), hdr, r)

	case tar.TypeLink, tar.TypeSymlink:
		return e.writeLink(root, hdr.Name, hdr.Linkname, hdr.Typeflag)

	default:
		e.logger.Warn(fmt.Sprintf("skipping %s entry %s", typeName(hdr.Typeflag), hdr.Name))
		return nil
	}
}

func (e *Extractor) writeFile(path string, hdr *tar.Header, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractWriteFailed.Error()), "entry", hdr.Name)
	}

	mode := hdr.FileInfo().Mode().Perm()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode) //nolint:gosec // path containment checked by callers
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractWriteFailed.Error()), "entry", hdr.Name)
	}

	_, err = io.Copy(f, r) //nolint:gosec // entry size is checked against the ceiling by callers
	closeErr := f.Close()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractWriteFailed.Error()), "entry", hdr.Name)
	}
	if closeErr != nil {
		return zerr.With(zerr.Wrap(closeErr, domain.ErrExtractWriteFailed.Error()), "entry", hdr.Name)
	}
	return nil
}

func (e *Extractor) writeLink(root, name, linkname string, typ byte) error {
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractWriteFailed.Error()), "entry", name)
	}

	// Replace whatever a previous extraction left behind.
	_ = os.Remove(path)

	var err error
	if typ == tar.TypeLink {
		err = os.Link(filepath.Join(root, linkname), path)
	} else {
		err = os.Symlink(linkname, path)
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractWriteFailed.Error()), "entry", name)
	}
	return nil
}

// decompress detects the compression of f by magic bytes. Plain tar,
// gzip and bzip2 are supported.
func decompress(f *os.File) (io.Reader, error) {
	br := bufio.NewReader(f)

	magic, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if len(magic) >= 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		return gzip.NewReader(br)
	}
	if len(magic) >= 3 && magic[0] == 'B' && magic[1] == 'Z' && magic[2] == 'h' {
		return bzip2.NewReader(br), nil
	}
	return br, nil
}

// within reports whether rel stays inside root after path cleaning.
// Absolute paths never do.
func within(root, rel string) bool {
	if filepath.IsAbs(rel) {
		return false
	}
	target := filepath.Join(root, rel)
	return target == root || strings.HasPrefix(target, root+string(filepath.Separator))
}

func typeName(flag byte) string {
	switch flag {
	case tar.TypeChar:
		return "character device"
	case tar.TypeBlock:
		return "block device"
	case tar.TypeFifo:
		return "FIFO"
	default:
		return "unknown"
	}
}
