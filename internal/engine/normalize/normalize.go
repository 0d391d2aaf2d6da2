// Package normalize derives version-independent identities from plugin
// package references.
//
// Two grammars are supported: registry references as accepted by
// `npm pack` (names, aliases, git URLs, local directories, tarballs)
// and container references of the form oci://<registry>:<tag>!<path>.
// The identity of a reference never changes when only its version,
// tag, digest or git ref changes, which is what lets a layered
// configuration override versions without duplicating plugins.
package normalize
