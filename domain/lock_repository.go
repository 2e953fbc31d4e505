package domain

import "errors"

// Well-known files of an audited project directory.
const (
	ManifestFileName = "package.json"
	LockfileName     = "package-lock.json"
)

var (
	// ErrManifestMissing reports a project directory without a manifest.
	ErrManifestMissing = errors.New("no package manifest found")

	// ErrLockfileMissing reports a project directory without lockfile state.
	ErrLockfileMissing = errors.New("no lockfile found")

	// ErrLockfileOutOfSync reports a lockfile that does not cover every
	// dependency the manifest declares.
	ErrLockfileOutOfSync = errors.New("lockfile out of sync with manifest")
)

// LockRepository loads and persists the manifest and lockfile state of a
// project directory.
type LockRepository interface {
	// LoadManifest reads the project manifest, returning ErrManifestMissing
	// when the directory has none.
	LoadManifest(dir string) (*Manifest, error)

	// LoadTree reads the persisted dependency tree, returning
	// ErrLockfileMissing when the directory has none.
	LoadTree(dir string) (*Node, error)

	// SaveTree writes the dependency tree back in its persisted form.
	SaveTree(dir string, root *Node) error

	// Verify checks the tree against the manifest, returning
	// ErrLockfileOutOfSync when a declared dependency is absent from it.
	Verify(manifest *Manifest, root *Node) error
}
