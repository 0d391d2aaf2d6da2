package install_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/engine/install"
	"go.uber.org/mock/gomock"
)

func TestReconciler_ContainerMissingVersionFails(t *testing.T) {
	r, m := setupReconcilerTest(t)
	root := t.TempDir()

	// A container record without a resolved version never reaches the
	// image client.
	rec := domain.Record{"package": "oci://quay.io/org/image:v1.0.0!backstage-plugin-foo"}

	m.store.EXPECT().InstalledIndex(root).Return(map[string]string{}, nil)

	err := r.Run(context.Background(), domain.PluginSet{"k": rec}, install.Options{Root: root})
	require.ErrorContains(t, err, domain.ErrMissingVersion.Error())
	require.ErrorContains(t, err, domain.ErrInstallationFailed.Error())
}

func TestReconciler_ContainerWithoutPathFails(t *testing.T) {
	r, m := setupReconcilerTest(t)
	root := t.TempDir()

	rec := domain.Record{
		"package": "oci://quay.io/org/image:v1.0.0",
		"version": "v1.0.0",
	}

	m.store.EXPECT().InstalledIndex(root).Return(map[string]string{}, nil)

	err := r.Run(context.Background(), domain.PluginSet{"k": rec}, install.Options{Root: root})
	require.ErrorContains(t, err, domain.ErrMalformedContainerRef.Error())
}

func TestReconciler_InvalidPullPolicyFails(t *testing.T) {
	r, m := setupReconcilerTest(t)
	root := t.TempDir()

	rec := domain.Record{
		"package":    "@backstage/plugin-search@1.3.0",
		"integrity":  "sha256-aGVsbG8=",
		"pullPolicy": "Sometimes",
	}

	m.store.EXPECT().InstalledIndex(root).Return(map[string]string{}, nil)

	err := r.Run(context.Background(), domain.PluginSet{"k": rec}, install.Options{Root: root})
	require.ErrorContains(t, err, domain.ErrInvalidPullPolicy.Error())
}

func TestReconciler_IntegrityRejectedBeforeFetch(t *testing.T) {
	tests := []struct {
		name      string
		integrity any
		want      error
	}{
		{
			name: "missing declaration",
			want: domain.ErrMissingIntegrity,
		},
		{
			name:      "single part",
			integrity: "sha256",
			want:      domain.ErrMalformedIntegrity,
		},
		{
			name:      "too many parts",
			integrity: "sha256-abc-def",
			want:      domain.ErrMalformedIntegrity,
		},
		{
			name:      "unknown algorithm",
			integrity: "md5-aGVsbG8=",
			want:      domain.ErrUnsupportedIntegrityAlgorithm,
		},
		{
			name:      "digest not base64",
			integrity: "sha256-%%%",
			want:      domain.ErrIntegrityDigestNotBase64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := setupReconcilerTest(t)
			root := t.TempDir()

			rec := domain.Record{"package": "@backstage/plugin-search@1.3.0"}
			if tt.integrity != nil {
				rec["integrity"] = tt.integrity
			}

			// Pack is never expected: the declaration fails first.
			m.store.EXPECT().InstalledIndex(root).Return(map[string]string{}, nil)

			err := r.Run(context.Background(), domain.PluginSet{"k": rec}, install.Options{Root: root})
			require.ErrorContains(t, err, tt.want.Error())
			require.ErrorContains(t, err, domain.ErrInstallationFailed.Error())
		})
	}
}

func TestReconciler_IntegrityMismatchAbortsBeforeExtraction(t *testing.T) {
	r, m := setupReconcilerTest(t)
	root := t.TempDir()

	rec := domain.Record{
		"package":   "@backstage/plugin-search@1.3.0",
		"integrity": integrityFor([]byte("expected bytes")),
	}

	m.store.EXPECT().InstalledIndex(root).Return(map[string]string{}, nil)
	m.registry.EXPECT().Pack(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(packInto(t, "backstage-plugin-search-1.3.0.tgz", []byte("tampered bytes")))
	// The tampered archive never reaches the extractor.

	err := r.Run(context.Background(), domain.PluginSet{"k": rec}, install.Options{Root: root})
	require.ErrorContains(t, err, domain.ErrIntegrityMismatch.Error())
}

func TestReconciler_FirstFailureAbortsRun(t *testing.T) {
	r, m := setupReconcilerTest(t)
	root := t.TempDir()

	bad := domain.Record{"package": "@backstage/plugin-bad@1.0.0"}
	good := domain.Record{
		"package":   "@backstage/plugin-good@1.0.0",
		"integrity": "sha256-aGVsbG8=",
	}

	// A stale entry stays untouched: collection only runs after every
	// record reconciled and the document was written.
	m.store.EXPECT().InstalledIndex(root).Return(
		map[string]string{"stale": "backstage-plugin-old"}, nil)

	set := domain.PluginSet{"aa": bad, "zz": good}
	err := r.Run(context.Background(), set, install.Options{Root: root})
	require.ErrorContains(t, err, domain.ErrMissingIntegrity.Error())
	require.ErrorContains(t, err, "@backstage/plugin-bad@1.0.0")
}

func TestReconciler_IndexReadFailureAborts(t *testing.T) {
	r, m := setupReconcilerTest(t)
	root := t.TempDir()

	m.store.EXPECT().InstalledIndex(root).Return(nil, errors.New("unreadable sidecar"))

	err := r.Run(context.Background(), domain.PluginSet{}, install.Options{Root: root})
	require.ErrorContains(t, err, "unreadable sidecar")
}

func TestReconciler_ConfigWriteFailureSkipsCollection(t *testing.T) {
	r, m := setupReconcilerTest(t)
	root := t.TempDir()

	m.store.EXPECT().InstalledIndex(root).Return(
		map[string]string{"stale": "backstage-plugin-old"}, nil)
	m.loader.EXPECT().WriteGlobalConfig(gomock.Any(), gomock.Any()).
		Return(errors.New("no space left on device"))
	// The stale directory survives a failed document write.

	err := r.Run(context.Background(), domain.PluginSet{}, install.Options{Root: root})
	require.ErrorContains(t, err, "no space left on device")
}

func TestReconciler_PackFailurePropagates(t *testing.T) {
	r, m := setupReconcilerTest(t)
	root := t.TempDir()

	rec := domain.Record{
		"package":   "@backstage/plugin-search@1.3.0",
		"integrity": "sha256-aGVsbG8=",
	}

	m.store.EXPECT().InstalledIndex(root).Return(map[string]string{}, nil)
	m.registry.EXPECT().Pack(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("npm pack exited with status 1"))

	err := r.Run(context.Background(), domain.PluginSet{"k": rec}, install.Options{Root: root})
	require.ErrorContains(t, err, "npm pack exited with status 1")
	require.ErrorContains(t, err, domain.ErrInstallationFailed.Error())
}

func TestReconciler_ContainerTarballFailurePropagates(t *testing.T) {
	r, m := setupReconcilerTest(t)
	root := t.TempDir()

	rec := domain.Record{
		"package": "oci://quay.io/org/image:v1.0.0!backstage-plugin-foo",
		"version": "v1.0.0",
	}

	m.store.EXPECT().InstalledIndex(root).Return(map[string]string{}, nil)
	m.images.EXPECT().Tarball(gomock.Any(), gomock.Any()).
		Return("", errors.New("skopeo copy failed"))

	err := r.Run(context.Background(), domain.PluginSet{"k": rec}, install.Options{Root: root})
	require.ErrorContains(t, err, "skopeo copy failed")
	require.ErrorContains(t, err, domain.ErrInstallationFailed.Error())
}

func TestReconciler_SidecarWriteFailureAborts(t *testing.T) {
	r, m := setupReconcilerTest(t)
	root := t.TempDir()

	archive := []byte("tarball bytes")
	rec := domain.Record{
		"package":   "@backstage/plugin-search@1.3.0",
		"integrity": integrityFor(archive),
	}

	m.store.EXPECT().InstalledIndex(root).Return(map[string]string{}, nil)
	m.registry.EXPECT().Pack(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(packInto(t, "backstage-plugin-search-1.3.0.tgz", archive))
	m.extractor.EXPECT().ExtractPackage(gomock.Any(), gomock.Any()).Return(nil)
	m.store.EXPECT().WriteConfigHash(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("read-only file system"))
	// No document write after a failed record.

	err := r.Run(context.Background(), domain.PluginSet{"k": rec}, install.Options{Root: root})
	require.ErrorContains(t, err, "read-only file system")
	require.ErrorContains(t, err, domain.ErrInstallationFailed.Error())
}

func TestReconciler_ExtractFailurePropagates(t *testing.T) {
	r, m := setupReconcilerTest(t)
	root := t.TempDir()

	archive := []byte("tarball bytes")
	rec := domain.Record{
		"package":   "@backstage/plugin-search@1.3.0",
		"integrity": integrityFor(archive),
	}

	m.store.EXPECT().InstalledIndex(root).Return(map[string]string{}, nil)
	m.registry.EXPECT().Pack(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(packInto(t, "backstage-plugin-search-1.3.0.tgz", archive))
	m.extractor.EXPECT().ExtractPackage(gomock.Any(), gomock.Any()).
		Return(errors.New("entry size exceeds limit"))

	err := r.Run(context.Background(), domain.PluginSet{"k": rec}, install.Options{Root: root})
	require.ErrorContains(t, err, "entry size exceeds limit")
}
