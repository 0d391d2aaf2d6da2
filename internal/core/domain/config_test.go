package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dynplug/internal/core/domain"
)

func TestNewGlobalConfig(t *testing.T) {
	cfg := domain.NewGlobalConfig()

	root, ok := cfg["dynamicPlugins"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "dynamic-plugins-root", root["rootDirectory"])
}

func TestMergeConfigDisjointKeys(t *testing.T) {
	dst := domain.NewGlobalConfig()

	merged, err := domain.MergeConfig(map[string]any{
		"catalog": map[string]any{"providers": map[string]any{"github": true}},
	}, dst)
	require.NoError(t, err)

	merged, err = domain.MergeConfig(map[string]any{
		"catalog": map[string]any{"locations": []any{"a", "b"}},
	}, merged)
	require.NoError(t, err)

	catalog := merged["catalog"].(map[string]any)
	assert.Equal(t, map[string]any{"github": true}, catalog["providers"])
	assert.Equal(t, []any{"a", "b"}, catalog["locations"])
}

func TestMergeConfigEqualValuesCoexist(t *testing.T) {
	dst := map[string]any{"proxy": map[string]any{"target": "https://example.com"}}

	_, err := domain.MergeConfig(map[string]any{
		"proxy": map[string]any{"target": "https://example.com"},
	}, dst)
	assert.NoError(t, err)
}

func TestMergeConfigConflictingValues(t *testing.T) {
	dst := map[string]any{"proxy": map[string]any{"target": "https://one.example.com"}}

	_, err := domain.MergeConfig(map[string]any{
		"proxy": map[string]any{"target": "https://two.example.com"},
	}, dst)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigValueConflict.Error())
}

func TestMergeConfigConflictNamesFullKeyPath(t *testing.T) {
	dst := map[string]any{
		"catalog": map[string]any{"providers": map[string]any{"github": true}},
	}

	_, err := domain.MergeConfig(map[string]any{
		"catalog": map[string]any{"providers": map[string]any{"github": false}},
	}, dst)
	require.Error(t, err)

	var meta interface{ Metadata() map[string]any }
	require.ErrorAs(t, err, &meta)
	assert.Equal(t, "catalog.providers.github", meta.Metadata()["key"])
}

func TestMergeConfigMappingOverScalar(t *testing.T) {
	dst := map[string]any{"proxy": "simple"}

	_, err := domain.MergeConfig(map[string]any{
		"proxy": map[string]any{"target": "https://example.com"},
	}, dst)
	assert.ErrorContains(t, err, domain.ErrConfigValueConflict.Error())
}

func TestMergeConfigNilFragment(t *testing.T) {
	dst := domain.NewGlobalConfig()

	merged, err := domain.MergeConfig(nil, dst)
	require.NoError(t, err)
	assert.Equal(t, dst, merged)
}
