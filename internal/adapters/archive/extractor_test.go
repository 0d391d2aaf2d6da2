package archive_test

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dynplug/internal/adapters/archive"
	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type entry struct {
	name     string
	content  string
	typeflag byte
	linkname string
}

func makeTar(t *testing.T, compressed bool, entries []entry) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "archive.tgz")
	f, err := os.Create(path)
	require.NoError(t, err)

	var w io.Writer = f
	var gzw *gzip.Writer
	if compressed {
		gzw = gzip.NewWriter(f)
		w = gzw
	}
	tw := tar.NewWriter(w)

	for _, e := range entries {
		typ := e.typeflag
		if typ == 0 {
			typ = tar.TypeReg
		}
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     0o644,
			Typeflag: typ,
			Linkname: e.linkname,
			Size:     int64(len(e.content)),
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if typ == tar.TypeReg {
			_, err := tw.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}

	require.NoError(t, tw.Close())
	if gzw != nil {
		require.NoError(t, gzw.Close())
	}
	require.NoError(t, f.Close())
	return path
}

func newExtractor(t *testing.T, maxEntrySize int64) *archive.Extractor {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return archive.NewExtractor(logger, maxEntrySize)
}

func TestExtractPackageStripsPrefix(t *testing.T) {
	e := newExtractor(t, 0)
	dest := filepath.Join(t.TempDir(), "plugin")

	tarball := makeTar(t, true, []entry{
		{name: "package/package.json", content: `{"name":"plugin"}`},
		{name: "package/dist/index.js", content: "module.exports = {}"},
	})

	require.NoError(t, e.ExtractPackage(tarball, dest))

	data, err := os.ReadFile(filepath.Join(dest, "package.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"plugin"}`, string(data))
	assert.FileExists(t, filepath.Join(dest, "dist", "index.js"))
}

func TestExtractPackagePlainTar(t *testing.T) {
	e := newExtractor(t, 0)
	dest := filepath.Join(t.TempDir(), "plugin")

	tarball := makeTar(t, false, []entry{
		{name: "package/index.js", content: "ok"},
	})

	require.NoError(t, e.ExtractPackage(tarball, dest))
	assert.FileExists(t, filepath.Join(dest, "index.js"))
}

func TestExtractPackageRejectsForeignEntry(t *testing.T) {
	e := newExtractor(t, 0)
	dest := filepath.Join(t.TempDir(), "plugin")

	tarball := makeTar(t, true, []entry{
		{name: "other/file.js", content: "nope"},
	})

	err := e.ExtractPackage(tarball, dest)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrMissingPackagePrefix.Error())
}

func TestExtractPackageRejectsOversizedEntry(t *testing.T) {
	e := newExtractor(t, 8)
	dest := filepath.Join(t.TempDir(), "plugin")

	tarball := makeTar(t, true, []entry{
		{name: "package/big.js", content: "this is more than eight bytes"},
	})

	err := e.ExtractPackage(tarball, dest)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrEntryTooLarge.Error())
}

func TestExtractPackageSkipsDirectoryEntries(t *testing.T) {
	e := newExtractor(t, 0)
	dest := filepath.Join(t.TempDir(), "plugin")

	tarball := makeTar(t, true, []entry{
		{name: "package/dist/", typeflag: tar.TypeDir},
		{name: "package/dist/index.js", content: "ok"},
	})

	require.NoError(t, e.ExtractPackage(tarball, dest))
	assert.FileExists(t, filepath.Join(dest, "dist", "index.js"))
}

func TestExtractPackageRejectsDeviceEntry(t *testing.T) {
	e := newExtractor(t, 0)
	dest := filepath.Join(t.TempDir(), "plugin")

	tarball := makeTar(t, true, []entry{
		{name: "package/dev", typeflag: tar.TypeChar},
	})

	err := e.ExtractPackage(tarball, dest)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnsupportedEntryType.Error())
}

func TestExtractPackageRejectsLinkWithoutPrefix(t *testing.T) {
	e := newExtractor(t, 0)
	dest := filepath.Join(t.TempDir(), "plugin")

	tarball := makeTar(t, true, []entry{
		{name: "package/alias", typeflag: tar.TypeSymlink, linkname: "/etc/passwd"},
	})

	err := e.ExtractPackage(tarball, dest)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrLinkEscapesRoot.Error())
}

func TestExtractPackageRejectsEscapingLinkTarget(t *testing.T) {
	e := newExtractor(t, 0)
	dest := filepath.Join(t.TempDir(), "plugin")

	tarball := makeTar(t, true, []entry{
		{name: "package/alias", typeflag: tar.TypeSymlink, linkname: "package/../../outside"},
	})

	err := e.ExtractPackage(tarball, dest)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrLinkEscapesRoot.Error())
}

func TestExtractPackageCreatesInternalSymlink(t *testing.T) {
	e := newExtractor(t, 0)
	dest := filepath.Join(t.TempDir(), "plugin")

	tarball := makeTar(t, true, []entry{
		{name: "package/real.txt", content: "data"},
		{name: "package/alias.txt", typeflag: tar.TypeSymlink, linkname: "package/real.txt"},
	})

	require.NoError(t, e.ExtractPackage(tarball, dest))

	target, err := os.Readlink(filepath.Join(dest, "alias.txt"))
	require.NoError(t, err)
	assert.Equal(t, "real.txt", target)
}

func TestExtractPrefixedFiltersBySubPath(t *testing.T) {
	e := newExtractor(t, 0)
	destRoot := t.TempDir()

	tarball := makeTar(t, true, []entry{
		{name: "my-plugin/package.json", content: `{"name":"mine"}`},
		{name: "other-plugin/package.json", content: `{"name":"other"}`},
	})

	require.NoError(t, e.ExtractPrefixed(tarball, "my-plugin", destRoot))

	assert.FileExists(t, filepath.Join(destRoot, "my-plugin", "package.json"))
	assert.NoFileExists(t, filepath.Join(destRoot, "other-plugin", "package.json"))
}

func TestExtractPrefixedSkipsEscapingLink(t *testing.T) {
	e := newExtractor(t, 0)
	destRoot := t.TempDir()

	tarball := makeTar(t, true, []entry{
		{name: "my-plugin/ok.txt", content: "fine"},
		{name: "my-plugin/escape", typeflag: tar.TypeSymlink, linkname: "../../outside"},
	})

	require.NoError(t, e.ExtractPrefixed(tarball, "my-plugin", destRoot))

	assert.FileExists(t, filepath.Join(destRoot, "my-plugin", "ok.txt"))
	_, err := os.Lstat(filepath.Join(destRoot, "my-plugin", "escape"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractPrefixedSkipsAbsoluteLinkTarget(t *testing.T) {
	e := newExtractor(t, 0)
	destRoot := t.TempDir()

	tarball := makeTar(t, true, []entry{
		{name: "my-plugin/passwd", typeflag: tar.TypeSymlink, linkname: "/etc/passwd"},
	})

	require.NoError(t, e.ExtractPrefixed(tarball, "my-plugin", destRoot))

	_, err := os.Lstat(filepath.Join(destRoot, "my-plugin", "passwd"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractPrefixedRejectsOversizedEntry(t *testing.T) {
	e := newExtractor(t, 4)
	destRoot := t.TempDir()

	tarball := makeTar(t, true, []entry{
		{name: "my-plugin/big.bin", content: "way too large"},
	})

	err := e.ExtractPrefixed(tarball, "my-plugin", destRoot)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrEntryTooLarge.Error())
}

func TestExtractLayerTakesEverything(t *testing.T) {
	e := newExtractor(t, 0)
	dest := t.TempDir()

	tarball := makeTar(t, true, []entry{
		{name: "dynamic-plugins.default.yaml", content: "plugins: []"},
		{name: "catalog-entities/", typeflag: tar.TypeDir},
		{name: "catalog-entities/extensions/entity.yaml", content: "kind: Plugin"},
	})

	require.NoError(t, e.ExtractLayer(tarball, dest))

	assert.FileExists(t, filepath.Join(dest, "dynamic-plugins.default.yaml"))
	assert.FileExists(t, filepath.Join(dest, "catalog-entities", "extensions", "entity.yaml"))
}

func TestExtractLayerSkipsOversizedEntries(t *testing.T) {
	e := newExtractor(t, 8)
	dest := t.TempDir()

	tarball := makeTar(t, true, []entry{
		{name: "huge.bin", content: "far more than eight bytes"},
		{name: "small.txt", content: "tiny"},
	})

	require.NoError(t, e.ExtractLayer(tarball, dest))

	assert.NoFileExists(t, filepath.Join(dest, "huge.bin"))
	assert.FileExists(t, filepath.Join(dest, "small.txt"))
}

func TestExtractLayerRejectsEscapingName(t *testing.T) {
	e := newExtractor(t, 0)
	dest := t.TempDir()

	tarball := makeTar(t, true, []entry{
		{name: "../evil.txt", content: "nope"},
	})

	err := e.ExtractLayer(tarball, dest)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrEntryEscapesRoot.Error())
}
