package application

import (
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/auditfix/domain"
)

// Classifier sorts the remediation actions of an audit report into an
// executable plan: top-level installs, deep update paths, breaking changes
// and actions that need a human decision.
type Classifier struct {
	rootName string
}

// NewClassifier creates a classifier for the project with the given name.
// The report writes dependency paths from the project's point of view, so
// the root name is needed to line them up with the tree's children.
func NewClassifier(rootName string) *Classifier {
	return &Classifier{rootName: rootName}
}

// Classify partitions the actions into the plan's sets. Breaking changes
// win over their action kind, update actions contribute one entry per
// vulnerable path they resolve, and unknown action kinds land in the review
// set alongside explicit review actions.
func (c *Classifier) Classify(actions []domain.Action) domain.Plan {
	plan := domain.NewPlan()
	reviewed := domain.NewStringSet()

	for _, action := range actions {
		spec := action.Specifier().String()

		switch {
		case action.IsMajor:
			plan.Major.Add(spec)
		case action.Action == domain.ActionInstall:
			plan.Install.Add(spec)
		case action.Action == domain.ActionUpdate:
			for _, resolution := range action.Resolves {
				entry, ok := c.updateEntry(action, resolution.Path)
				if !ok {
					logger.Warnf(
						"Skipping vulnerable path %q: module %q is not part of it",
						resolution.Path, action.Module,
					)
					continue
				}
				plan.Update.Add(entry)
			}
		default:
			if reviewed.Has(spec) {
				continue
			}
			reviewed.Add(spec)
			plan.Review = append(plan.Review, action)
		}
	}

	return plan
}

// updateEntry rewrites one vulnerable dependency path into the update entry
// that re-resolves its module: the path is cut right before the module and
// the module pinned at the action's target version is appended.
func (c *Classifier) updateEntry(action domain.Action, path string) (string, bool) {
	segments := strings.Split(path, domain.PathSeparator)

	// Drop the leading root segment so the remainder addresses the tree.
	if len(segments) > 1 && segments[0] == c.rootName {
		segments = segments[1:]
	}

	idx := -1
	for i, segment := range segments {
		if segment == action.Module {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", false
	}

	entry := make([]string, 0, idx+1)
	entry = append(entry, segments[:idx]...)
	entry = append(entry, action.Specifier().String())
	return strings.Join(entry, domain.PathSeparator), true
}
