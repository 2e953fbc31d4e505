package lockfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/auditfix/domain"
)

const lockfileVersion = 1

// lockFile mirrors the on-disk package-lock.json layout.
type lockFile struct {
	Name            string                       `json:"name"`
	Version         string                       `json:"version"`
	LockfileVersion int                          `json:"lockfileVersion"`
	Requires        bool                         `json:"requires,omitempty"`
	Dependencies    map[string]*domain.TreeEntry `json:"dependencies,omitempty"`
}

// Repository reads and writes the manifest and lockfile of a project
// directory.
type Repository struct{}

// NewRepository creates a filesystem-backed lock repository.
func NewRepository() *Repository {
	return &Repository{}
}

var _ domain.LockRepository = (*Repository)(nil)

// LoadManifest parses the package.json of dir.
func (*Repository) LoadManifest(dir string) (*domain.Manifest, error) {
	path := filepath.Join(dir, domain.ManifestFileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no %s in %q: %w", domain.ManifestFileName, dir, domain.ErrManifestMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest domain.Manifest
	if unmarshalErr := json.Unmarshal(data, &manifest); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", domain.ManifestFileName, unmarshalErr)
	}

	return &manifest, nil
}

// LoadTree parses the package-lock.json of dir into a dependency tree rooted
// at the project itself.
func (*Repository) LoadTree(dir string) (*domain.Node, error) {
	path := filepath.Join(dir, domain.LockfileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no %s in %q: %w", domain.LockfileName, dir, domain.ErrLockfileMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}

	var lock lockFile
	if unmarshalErr := json.Unmarshal(data, &lock); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", domain.LockfileName, unmarshalErr)
	}

	root := &domain.Node{Name: lock.Name, Version: lock.Version}
	for name, entry := range lock.Dependencies {
		root.AddChild(domain.NodeFromEntry(name, entry))
	}

	return root, nil
}

// SaveTree writes the tree back as the package-lock.json of dir.
func (*Repository) SaveTree(dir string, root *domain.Node) error {
	lock := lockFile{
		Name:            root.Name,
		Version:         root.Version,
		LockfileVersion: lockfileVersion,
		Requires:        true,
		Dependencies:    root.Entries(),
	}

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode lockfile: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, domain.LockfileName)
	if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil { //nolint:gosec // lockfile is world-readable
		return fmt.Errorf("failed to write %s: %w", domain.LockfileName, writeErr)
	}

	return nil
}

// Verify checks the tree against the manifest. A dependency named in the
// manifest but absent from the tree makes the lockfile out of sync; a locked
// version outside its required range is only worth a warning, npm itself
// tolerates those.
func (*Repository) Verify(manifest *domain.Manifest, root *domain.Node) error {
	required := manifest.Requires(false)

	names := make([]string, 0, len(required))
	for name := range required {
		names = append(names, name)
	}
	sort.Strings(names)

	var missing []string
	for _, name := range names {
		child := root.Child(name)
		if child == nil {
			missing = append(missing, name)
			continue
		}
		checkRange(name, child.Version, required[name])
	}

	if len(missing) > 0 {
		return fmt.Errorf(
			"lockfile is missing %s: %w",
			strings.Join(missing, ", "), domain.ErrLockfileOutOfSync,
		)
	}

	return nil
}

// checkRange warns when a locked version falls outside the manifest range.
// Ranges that are not semver constraints (tags, git URLs) are skipped.
func checkRange(name, version, wanted string) {
	constraint, err := semver.NewConstraint(wanted)
	if err != nil {
		return
	}

	locked, err := semver.NewVersion(version)
	if err != nil {
		return
	}

	if !constraint.Check(locked) {
		logger.Warnf("Locked %s@%s does not satisfy the required range %q", name, version, wanted)
	}
}
