package install

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"hash"
	"io"
	"os"
	"strings"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/zerr"
)

// integrityHashes maps the recognized integrity algorithms to their
// hash constructors.
var integrityHashes = map[string]func() hash.Hash{
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// splitIntegrity validates the <algorithm>-<base64 digest> shape of an
// integrity declaration and returns its parts.
func splitIntegrity(integrity string) (algorithm, digest string, err error) {
	parts := strings.Split(integrity, "-")
	if len(parts) != 2 {
		return "", "", zerr.With(domain.ErrMalformedIntegrity, "integrity", integrity)
	}

	algorithm, digest = parts[0], parts[1]
	if _, ok := integrityHashes[algorithm]; !ok {
		return "", "", zerr.With(domain.ErrUnsupportedIntegrityAlgorithm, "algorithm", algorithm)
	}
	if _, err := base64.StdEncoding.DecodeString(digest); err != nil {
		return "", "", zerr.With(domain.ErrIntegrityDigestNotBase64, "digest", digest)
	}
	return algorithm, digest, nil
}

// ValidateIntegrity checks an integrity declaration without touching any
// artifact, so malformed declarations fail before fetching begins.
func ValidateIntegrity(integrity string) error {
	_, _, err := splitIntegrity(integrity)
	return err
}

// VerifyArchive streams the archive through the declared hash algorithm
// and compares the computed digest against the declared one.
func VerifyArchive(integrity, archive string) error {
	algorithm, declared, err := splitIntegrity(integrity)
	if err != nil {
		return err
	}

	f, err := os.Open(archive) //nolint:gosec // the archive lives in our own scratch space
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "archive", archive)
	}
	defer f.Close() //nolint:errcheck // read-only file

	h := integrityHashes[algorithm]()
	if _, err := io.Copy(h, f); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveReadFailed.Error()), "archive", archive)
	}

	computed := base64.StdEncoding.EncodeToString(h.Sum(nil))
	if computed != declared {
		err := zerr.With(domain.ErrIntegrityMismatch, "declared", declared)
		return zerr.With(err, "computed", computed)
	}
	return nil
}
