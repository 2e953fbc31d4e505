package domain

import (
	"errors"
	"fmt"
	"strings"
)

// PathSeparator joins the segments of a deep dependency path.
const PathSeparator = ">"

var (
	errEmptyPath = errors.New("dependency path is empty")

	// ErrPathSkew reports a deep path that does not match the loaded tree,
	// meaning the report and the lockfile disagree about its shape.
	ErrPathSkew = errors.New("dependency path not found in tree")
)

// DeepPath addresses one node in the dependency tree by the chain of child
// names leading to it. Every segment names a child of the previous node; the
// final segment additionally carries the target version, name@version.
type DeepPath []string

// ParseDeepPath splits a ">"-joined path string into its segments.
func ParseDeepPath(raw string) DeepPath {
	return DeepPath(strings.Split(raw, PathSeparator))
}

// Terminal returns the parsed final segment of the path.
func (p DeepPath) Terminal() Specifier {
	if len(p) == 0 {
		return Specifier{}
	}
	return ParseSpecifier(p[len(p)-1])
}

// String renders the path back into its ">"-joined form.
func (p DeepPath) String() string {
	return strings.Join(p, PathSeparator)
}

// PatchTree rewrites the node addressed by path so that the next install run
// re-resolves it at the requested version: the version field is replaced by
// the target and the resolution metadata and subtree are removed.
//
// All segments are resolved before anything is mutated, so a path that does
// not match the tree returns ErrPathSkew and leaves the tree untouched.
func PatchTree(root *Node, path DeepPath) error {
	if len(path) == 0 {
		return errEmptyPath
	}
	current := root
	for _, segment := range path[:len(path)-1] {
		next := current.Child(segment)
		if next == nil {
			return fmt.Errorf("segment %q of path %q: %w", segment, path.String(), ErrPathSkew)
		}
		current = next
	}

	spec := path.Terminal()
	target := current.Child(spec.Name)
	if target == nil {
		return fmt.Errorf("module %q of path %q: %w", spec.Name, path.String(), ErrPathSkew)
	}

	target.Version = spec.Spec
	target.Resolved = ""
	target.Integrity = ""
	target.From = ""
	target.Requires = nil
	return nil
}
