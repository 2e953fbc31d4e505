package domain

import "sort"

// Node is one resolved package in the dependency tree. The tree is loaded
// from persisted lockfile state, mutated in place during a remediation run,
// and written back once the run completes.
//
// Requires holds the node's direct dependencies as resolved child nodes,
// unique by name and kept sorted so that lockfile writes are deterministic.
// The same package name may appear again at a different depth; lookups are
// only ever scoped to a single node's children.
type Node struct {
	Name      string
	Version   string
	Resolved  string // tarball URL; empty after patching until re-resolved
	Integrity string // content hash; empty after patching until re-resolved
	From      string // provenance recorded by the resolver, cleared by patching
	Requires  []*Node
}

// Child returns the direct dependency with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, child := range n.Requires {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// AddChild inserts a direct dependency, replacing any existing child with
// the same name and keeping the children sorted by name.
func (n *Node) AddChild(child *Node) {
	for i, existing := range n.Requires {
		if existing.Name == child.Name {
			n.Requires[i] = child
			return
		}
	}
	n.Requires = append(n.Requires, child)
	sort.Slice(n.Requires, func(i, j int) bool {
		return n.Requires[i].Name < n.Requires[j].Name
	})
}

// Count returns the number of distinct packages reachable from n, not
// counting n itself. Shared nodes are counted once.
func (n *Node) Count() int {
	seen := make(map[*Node]bool)
	var walk func(node *Node)
	walk = func(node *Node) {
		for _, child := range node.Requires {
			if seen[child] {
				continue
			}
			seen[child] = true
			walk(child)
		}
	}
	walk(n)
	return len(seen)
}

// TreeEntry is the wire form of a Node subtree, as it appears both in a
// version 1 lockfile and in the audit payload sent to the registry.
type TreeEntry struct {
	Version      string                `json:"version"`
	Resolved     string                `json:"resolved,omitempty"`
	Integrity    string                `json:"integrity,omitempty"`
	From         string                `json:"from,omitempty"`
	Dependencies map[string]*TreeEntry `json:"dependencies,omitempty"`
}

// Entries converts the node's children into their wire form.
func (n *Node) Entries() map[string]*TreeEntry {
	if len(n.Requires) == 0 {
		return nil
	}
	entries := make(map[string]*TreeEntry, len(n.Requires))
	for _, child := range n.Requires {
		entries[child.Name] = &TreeEntry{
			Version:      child.Version,
			Resolved:     child.Resolved,
			Integrity:    child.Integrity,
			From:         child.From,
			Dependencies: child.Entries(),
		}
	}
	return entries
}

// NodeFromEntry rebuilds a Node subtree from its wire form.
func NodeFromEntry(name string, entry *TreeEntry) *Node {
	node := &Node{
		Name:      name,
		Version:   entry.Version,
		Resolved:  entry.Resolved,
		Integrity: entry.Integrity,
		From:      entry.From,
	}
	for childName, childEntry := range entry.Dependencies {
		node.AddChild(NodeFromEntry(childName, childEntry))
	}
	return node
}
