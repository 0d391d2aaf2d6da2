package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"go.trai.ch/zerr"
)

// RecordHash computes the content hash driving skip/reinstall decisions.
//
// The hash is sha256 over the canonical JSON encoding of the record with the
// pluginConfig fragment and the resolved version removed: configuration-only
// edits must not re-install an artifact, and a version change is already
// reflected in the package reference itself. encoding/json emits map keys in
// sorted order, so the hash is independent of field insertion order.
func RecordHash(r Record) (string, error) {
	h := r.Clone()
	delete(h, FieldPluginConfig)
	delete(h, FieldVersion)

	data, err := json.Marshal(map[string]any(h))
	if err != nil {
		err = zerr.Wrap(err, ErrRecordHashFailed.Error())
		return "", zerr.With(err, "package", r.Package())
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
