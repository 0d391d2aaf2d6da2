package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dynplug/internal/core/domain"
)

func TestRecordHashDeterministic(t *testing.T) {
	r := domain.Record{
		"package":   "@scope/plugin@1.0.0",
		"integrity": "sha512-abc",
		"disabled":  false,
	}

	first, err := domain.RecordHash(r)
	require.NoError(t, err)
	second, err := domain.RecordHash(r)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestRecordHashOrderIndependent(t *testing.T) {
	a := domain.Record{}
	a["package"] = "plugin"
	a["integrity"] = "sha256-abc"
	a["disabled"] = true

	b := domain.Record{}
	b["disabled"] = true
	b["integrity"] = "sha256-abc"
	b["package"] = "plugin"

	hashA, err := domain.RecordHash(a)
	require.NoError(t, err)
	hashB, err := domain.RecordHash(b)
	require.NoError(t, err)

	assert.Equal(t, hashA, hashB)
}

func TestRecordHashIgnoresPluginConfigAndVersion(t *testing.T) {
	base := domain.Record{"package": "oci://reg/img:v1!plugin"}
	baseHash, err := domain.RecordHash(base)
	require.NoError(t, err)

	withConfig := base.Clone()
	withConfig["pluginConfig"] = map[string]any{"key": "value"}
	withConfig.SetVersion("v1")

	hash, err := domain.RecordHash(withConfig)
	require.NoError(t, err)
	assert.Equal(t, baseHash, hash, "pluginConfig and version must not affect the hash")
}

func TestRecordHashTracksOtherFields(t *testing.T) {
	base := domain.Record{"package": "plugin", "integrity": "sha256-abc"}
	baseHash, err := domain.RecordHash(base)
	require.NoError(t, err)

	changed := base.Clone()
	changed["integrity"] = "sha256-def"
	changedHash, err := domain.RecordHash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, baseHash, changedHash)

	extra := base.Clone()
	extra["customField"] = "anything"
	extraHash, err := domain.RecordHash(extra)
	require.NoError(t, err)
	assert.NotEqual(t, baseHash, extraHash, "unknown fields must participate in the hash")
}

func TestRecordHashTracksLayer(t *testing.T) {
	r := domain.Record{"package": "plugin"}
	r.SetLayer(0)
	layer0, err := domain.RecordHash(r)
	require.NoError(t, err)

	r.SetLayer(1)
	layer1, err := domain.RecordHash(r)
	require.NoError(t, err)

	assert.NotEqual(t, layer0, layer1, "an entry moving between layers re-installs")
}

func TestRecordHashTracksLocalInfo(t *testing.T) {
	r := domain.Record{"package": "./plugins/local"}
	plain, err := domain.RecordHash(r)
	require.NoError(t, err)

	withInfo := r.Clone()
	withInfo[domain.FieldLocalInfo] = domain.LocalPackageInfo{
		PackageJSONHash:  "0011223344556677",
		PackageJSONMtime: 1700000000,
	}
	infoHash, err := domain.RecordHash(withInfo)
	require.NoError(t, err)
	assert.NotEqual(t, plain, infoHash)

	touched := r.Clone()
	touched[domain.FieldLocalInfo] = domain.LocalPackageInfo{
		PackageJSONHash:  "0011223344556677",
		PackageJSONMtime: 1700000001,
	}
	touchedHash, err := domain.RecordHash(touched)
	require.NoError(t, err)
	assert.NotEqual(t, infoHash, touchedHash, "an mtime change must change the hash")
}
