package domain

import (
	"reflect"

	"go.trai.ch/zerr"
)

// NewGlobalConfig returns the seed of the aggregated configuration
// document that every installation run writes next to the installed
// plugins. Plugin-specific pluginConfig fragments are merged into it.
func NewGlobalConfig() map[string]any {
	return map[string]any{
		GlobalConfigRootKey: map[string]any{
			"rootDirectory": DefaultRootDirName,
		},
	}
}

// MergeConfig merges a plugin's pluginConfig fragment into the global
// configuration document. Nested mappings are merged key by key. Two
// plugins may contribute the same key only when the values are equal,
// otherwise the merge fails. The destination is modified in place and
// returned.
func MergeConfig(fragment, dst map[string]any) (map[string]any, error) {
	if fragment == nil {
		return dst, nil
	}
	if err := mergeInto(fragment, dst, ""); err != nil {
		return nil, err
	}
	return dst, nil
}

func mergeInto(src, dst map[string]any, prefix string) error {
	for key, value := range src {
		if nested, ok := value.(map[string]any); ok {
			node, exists := dst[key]
			if !exists {
				node = map[string]any{}
				dst[key] = node
			}
			target, ok := node.(map[string]any)
			if !ok {
				return zerr.With(ErrConfigValueConflict, "key", prefix+key)
			}
			if err := mergeInto(nested, target, prefix+key+"."); err != nil {
				return err
			}
			continue
		}

		if existing, exists := dst[key]; exists && !reflect.DeepEqual(existing, value) {
			return zerr.With(ErrConfigValueConflict, "key", prefix+key)
		}
		dst[key] = value
	}
	return nil
}
