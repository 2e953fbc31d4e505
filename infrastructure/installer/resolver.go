package installer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	gosemver "golang.org/x/mod/semver"

	"github.com/rios0rios0/auditfix/domain"
	"github.com/rios0rios0/auditfix/infrastructure/registry"
)

// MetadataSource provides registry metadata for resolution.
type MetadataSource interface {
	Packument(ctx context.Context, name string) (*registry.Packument, error)
}

// Resolver turns version specs into locked tree nodes using registry
// metadata. Visited name@version pairs are memoized so dependency cycles
// terminate and shared dependencies are counted once.
type Resolver struct {
	meta  MetadataSource
	seen  map[string]bool
	count int
}

// NewResolver creates a resolver backed by the given metadata source.
func NewResolver(meta MetadataSource) *Resolver {
	return &Resolver{meta: meta, seen: make(map[string]bool)}
}

// Resolved reports how many distinct nodes this resolver locked so far.
func (r *Resolver) Resolved() int {
	return r.count
}

// Resolve locks name at the version matching spec and descends into the
// dependencies of the chosen version.
func (r *Resolver) Resolve(ctx context.Context, name, spec string) (*domain.Node, error) {
	pack, err := r.meta.Packument(ctx, name)
	if err != nil {
		return nil, err
	}

	version, err := pickVersion(pack, spec)
	if err != nil {
		return nil, err
	}
	manifest := pack.Versions[version]

	node := &domain.Node{
		Name:      name,
		Version:   version,
		Resolved:  manifest.Dist.Tarball,
		Integrity: manifest.Dist.Integrity,
	}
	if node.Integrity == "" {
		node.Integrity = manifest.Dist.Shasum
	}

	key := name + "@" + version
	if r.seen[key] {
		return node, nil
	}
	r.seen[key] = true
	r.count++

	deps := make([]string, 0, len(manifest.Dependencies))
	for dep := range manifest.Dependencies {
		deps = append(deps, dep)
	}
	sort.Strings(deps)

	for _, dep := range deps {
		child, resolveErr := r.Resolve(ctx, dep, manifest.Dependencies[dep])
		if resolveErr != nil {
			return nil, fmt.Errorf("failed to resolve %s of %s: %w", dep, key, resolveErr)
		}
		node.AddChild(child)
	}

	return node, nil
}

// Refresh re-resolves every node a patch pass invalidated, walking the tree
// for children left without a resolved URL.
func (r *Resolver) Refresh(ctx context.Context, root *domain.Node) error {
	visited := make(map[*domain.Node]bool)

	var walk func(node *domain.Node) error
	walk = func(node *domain.Node) error {
		if visited[node] {
			return nil
		}
		visited[node] = true

		for _, child := range node.Requires {
			if child.Resolved == "" {
				fresh, err := r.Resolve(ctx, child.Name, child.Version)
				if err != nil {
					return fmt.Errorf("failed to refresh %s@%s: %w", child.Name, child.Version, err)
				}
				*child = *fresh
				continue
			}
			if err := walk(child); err != nil {
				return err
			}
		}

		return nil
	}

	return walk(root)
}

// pickVersion selects the version of pack matching spec: an exact published
// version first, then a dist-tag, then the highest published version
// satisfying the spec as a semver range.
func pickVersion(pack *registry.Packument, spec string) (string, error) {
	if _, ok := pack.Versions[spec]; ok {
		return spec, nil
	}

	tag := spec
	if tag == "" {
		tag = "latest"
	}
	if version, ok := pack.DistTags[tag]; ok {
		if _, published := pack.Versions[version]; published {
			return version, nil
		}
	}

	constraint, err := semver.NewConstraint(spec)
	if err != nil {
		return "", fmt.Errorf("no version of %s matches %q", pack.Name, spec)
	}

	versions := make([]string, 0, len(pack.Versions))
	for version := range pack.Versions {
		versions = append(versions, version)
	}
	sortVersionsDescending(versions)

	for _, version := range versions {
		candidate, parseErr := semver.NewVersion(version)
		if parseErr != nil {
			continue
		}
		if constraint.Check(candidate) {
			return version, nil
		}
	}

	return "", fmt.Errorf("no version of %s matches %q", pack.Name, spec)
}

// sortVersionsDescending sorts version strings in descending order (newest first)
func sortVersionsDescending(versions []string) {
	sort.Slice(versions, func(i, j int) bool {
		v1 := normalizeVersion(versions[i])
		v2 := normalizeVersion(versions[j])

		// Use semver comparison if both are valid semver
		if gosemver.IsValid(v1) && gosemver.IsValid(v2) {
			return gosemver.Compare(v1, v2) > 0
		}

		// Fall back to string comparison
		return versions[i] > versions[j]
	})
}

// normalizeVersion ensures version has 'v' prefix for semver compatibility
func normalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
