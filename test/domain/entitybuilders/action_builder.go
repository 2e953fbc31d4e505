package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/auditfix/domain"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ActionBuilder helps create test remediation actions with a fluent interface.
type ActionBuilder struct {
	*testkit.BaseBuilder
	action   string
	module   string
	target   string
	isMajor  bool
	resolves []domain.Resolution
}

// NewActionBuilder creates a new action builder with sensible defaults.
func NewActionBuilder() *ActionBuilder {
	return &ActionBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		action:      domain.ActionUpdate,
		module:      "lodash",
		target:      "4.17.21",
		resolves:    []domain.Resolution{{ID: 1065, Path: "lodash"}},
	}
}

// WithAction sets the action kind.
func (b *ActionBuilder) WithAction(action string) *ActionBuilder {
	b.action = action
	return b
}

// WithModule sets the module the action remediates.
func (b *ActionBuilder) WithModule(module string) *ActionBuilder {
	b.module = module
	return b
}

// WithTarget sets the target version.
func (b *ActionBuilder) WithTarget(target string) *ActionBuilder {
	b.target = target
	return b
}

// WithMajor marks the action as crossing a semver-major boundary.
func (b *ActionBuilder) WithMajor(isMajor bool) *ActionBuilder {
	b.isMajor = isMajor
	return b
}

// WithPaths replaces the resolved vulnerable paths, one resolution per path.
func (b *ActionBuilder) WithPaths(paths ...string) *ActionBuilder {
	resolves := make([]domain.Resolution, 0, len(paths))
	for i, path := range paths {
		resolves = append(resolves, domain.Resolution{ID: 1000 + i, Path: path})
	}
	b.resolves = resolves
	return b
}

// WithResolves replaces the resolutions wholesale.
func (b *ActionBuilder) WithResolves(resolves ...domain.Resolution) *ActionBuilder {
	b.resolves = resolves
	return b
}

// Build creates the action (satisfies testkit.Builder interface).
func (b *ActionBuilder) Build() interface{} {
	return b.BuildAction()
}

// BuildAction creates the action with a concrete return type.
func (b *ActionBuilder) BuildAction() domain.Action {
	return domain.Action{
		Action:   b.action,
		Module:   b.module,
		Target:   b.target,
		IsMajor:  b.isMajor,
		Resolves: b.resolves,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ActionBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.action = domain.ActionUpdate
	b.module = "lodash"
	b.target = "4.17.21"
	b.isMajor = false
	b.resolves = []domain.Resolution{{ID: 1065, Path: "lodash"}}
	return b
}

// Clone creates a deep copy of the ActionBuilder.
func (b *ActionBuilder) Clone() testkit.Builder {
	resolves := make([]domain.Resolution, len(b.resolves))
	copy(resolves, b.resolves)
	return &ActionBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		action:      b.action,
		module:      b.module,
		target:      b.target,
		isMajor:     b.isMajor,
		resolves:    resolves,
	}
}
