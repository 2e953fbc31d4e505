package domain

import (
	"sort"
	"strings"
)

// StringSet is a set of strings with sorted, deterministic enumeration.
type StringSet map[string]struct{}

// NewStringSet builds a set from the given values.
func NewStringSet(values ...string) StringSet {
	set := make(StringSet, len(values))
	for _, value := range values {
		set.Add(value)
	}
	return set
}

// Add inserts a value into the set.
func (s StringSet) Add(value string) {
	s[value] = struct{}{}
}

// Has reports whether the set contains the value.
func (s StringSet) Has(value string) bool {
	_, ok := s[value]
	return ok
}

// Len returns the number of values in the set.
func (s StringSet) Len() int {
	return len(s)
}

// Values returns the set's contents sorted ascending.
func (s StringSet) Values() []string {
	values := make([]string, 0, len(s))
	for value := range s {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

// Plan partitions the report's remediation actions into the work a fix run
// performs. Install holds top-level name@version specifiers, Update holds
// ">"-joined deep dependency paths, Major holds specifiers whose fix crosses
// a semver-major boundary, and Review holds actions with no automatic fix.
type Plan struct {
	Install StringSet
	Update  StringSet
	Major   StringSet
	Review  []Action
}

// NewPlan returns an empty plan with all sets initialized.
func NewPlan() Plan {
	return Plan{
		Install: NewStringSet(),
		Update:  NewStringSet(),
		Major:   NewStringSet(),
	}
}

// HasAutomaticFixes reports whether the plan carries work an unforced fix
// run can apply.
func (p Plan) HasAutomaticFixes() bool {
	return p.Install.Len() > 0 || p.Update.Len() > 0
}

// InstallArgs flattens the plan into the name@version arguments handed to
// the install run: every install entry, every single-segment update entry,
// and, when force is set, every breaking-change entry.
func (p Plan) InstallArgs(force bool) []string {
	args := NewStringSet()
	for _, spec := range p.Install.Values() {
		args.Add(spec)
	}
	for _, entry := range p.Update.Values() {
		if !strings.Contains(entry, PathSeparator) {
			args.Add(entry)
		}
	}
	if force {
		for _, spec := range p.Major.Values() {
			args.Add(spec)
		}
	}
	return args.Values()
}

// DeepPaths returns every update entry as a parsed dependency path.
func (p Plan) DeepPaths() []DeepPath {
	entries := p.Update.Values()
	paths := make([]DeepPath, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, ParseDeepPath(entry))
	}
	return paths
}
