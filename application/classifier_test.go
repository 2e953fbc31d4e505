package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/auditfix/application"
	"github.com/rios0rios0/auditfix/domain"
	"github.com/rios0rios0/auditfix/test/domain/entitybuilders"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("should put install actions into the install set", func(t *testing.T) {
		t.Parallel()

		// given
		actions := []domain.Action{
			entitybuilders.NewActionBuilder().
				WithAction(domain.ActionInstall).
				WithModule("axios").
				WithTarget("0.21.4").
				BuildAction(),
		}

		// when
		plan := application.NewClassifier("my-app").Classify(actions)

		// then
		assert.Equal(t, []string{"axios@0.21.4"}, plan.Install.Values())
		assert.Zero(t, plan.Update.Len())
		assert.Zero(t, plan.Major.Len())
		assert.Empty(t, plan.Review)
	})

	t.Run("should collapse identical install actions into one entry", func(t *testing.T) {
		t.Parallel()

		// given
		builder := entitybuilders.NewActionBuilder().
			WithAction(domain.ActionInstall).
			WithModule("axios").
			WithTarget("0.21.4")
		actions := []domain.Action{
			builder.BuildAction(),
			builder.BuildAction(),
		}

		// when
		plan := application.NewClassifier("my-app").Classify(actions)

		// then
		assert.Equal(t, []string{"axios@0.21.4"}, plan.Install.Values())
	})

	t.Run("should cut an update path right before its module", func(t *testing.T) {
		t.Parallel()

		// given
		actions := []domain.Action{
			entitybuilders.NewActionBuilder().
				WithModule("c").
				WithTarget("2.0.0").
				WithPaths("a>b>c>d").
				BuildAction(),
		}

		// when
		plan := application.NewClassifier("my-app").Classify(actions)

		// then
		assert.Equal(t, []string{"a>b>c@2.0.0"}, plan.Update.Values())
	})

	t.Run("should drop the leading root segment from a path", func(t *testing.T) {
		t.Parallel()

		// given
		actions := []domain.Action{
			entitybuilders.NewActionBuilder().
				WithModule("lodash").
				WithTarget("4.17.21").
				WithPaths("my-app>lodash").
				BuildAction(),
		}

		// when
		plan := application.NewClassifier("my-app").Classify(actions)

		// then
		assert.Equal(t, []string{"lodash@4.17.21"}, plan.Update.Values())
	})

	t.Run("should add one entry per resolved path", func(t *testing.T) {
		t.Parallel()

		// given
		actions := []domain.Action{
			entitybuilders.NewActionBuilder().
				WithModule("minimist").
				WithTarget("1.2.6").
				WithPaths("mkdirp>minimist", "optimist>minimist").
				BuildAction(),
		}

		// when
		plan := application.NewClassifier("my-app").Classify(actions)

		// then
		assert.Equal(t, []string{
			"mkdirp>minimist@1.2.6",
			"optimist>minimist@1.2.6",
		}, plan.Update.Values())
	})

	t.Run("should deduplicate identical update entries", func(t *testing.T) {
		t.Parallel()

		// given
		builder := entitybuilders.NewActionBuilder().
			WithModule("lodash").
			WithTarget("4.17.21").
			WithPaths("lodash")
		actions := []domain.Action{
			builder.BuildAction(),
			builder.BuildAction(),
		}

		// when
		plan := application.NewClassifier("my-app").Classify(actions)

		// then
		assert.Equal(t, 1, plan.Update.Len())
	})

	t.Run("should favor the breaking-change set over the action kind", func(t *testing.T) {
		t.Parallel()

		// given
		actions := []domain.Action{
			entitybuilders.NewActionBuilder().
				WithAction(domain.ActionInstall).
				WithModule("webpack").
				WithTarget("5.76.0").
				WithMajor(true).
				BuildAction(),
			entitybuilders.NewActionBuilder().
				WithAction(domain.ActionUpdate).
				WithModule("tar").
				WithTarget("5.0.0").
				WithMajor(true).
				WithPaths("node-gyp>tar").
				BuildAction(),
		}

		// when
		plan := application.NewClassifier("my-app").Classify(actions)

		// then
		assert.Equal(t, []string{"tar@5.0.0", "webpack@5.76.0"}, plan.Major.Values())
		assert.Zero(t, plan.Install.Len())
		assert.Zero(t, plan.Update.Len())
	})

	t.Run("should collect review actions without duplicates", func(t *testing.T) {
		t.Parallel()

		// given
		builder := entitybuilders.NewActionBuilder().
			WithAction(domain.ActionReview).
			WithModule("event-stream").
			WithTarget("3.3.4")
		actions := []domain.Action{
			builder.BuildAction(),
			builder.BuildAction(),
		}

		// when
		plan := application.NewClassifier("my-app").Classify(actions)

		// then
		require.Len(t, plan.Review, 1)
		assert.Equal(t, "event-stream", plan.Review[0].Module)
	})

	t.Run("should send unknown action kinds to review", func(t *testing.T) {
		t.Parallel()

		// given
		actions := []domain.Action{
			entitybuilders.NewActionBuilder().
				WithAction("quarantine").
				WithModule("left-pad").
				WithTarget("1.3.0").
				BuildAction(),
		}

		// when
		plan := application.NewClassifier("my-app").Classify(actions)

		// then
		require.Len(t, plan.Review, 1)
		assert.Equal(t, "quarantine", plan.Review[0].Action)
	})

	t.Run("should skip a path that does not contain the module", func(t *testing.T) {
		t.Parallel()

		// given
		actions := []domain.Action{
			entitybuilders.NewActionBuilder().
				WithModule("lodash").
				WithTarget("4.17.21").
				WithPaths("a>b>c").
				BuildAction(),
		}

		// when
		plan := application.NewClassifier("my-app").Classify(actions)

		// then
		assert.Zero(t, plan.Update.Len())
		assert.Empty(t, plan.Review)
	})

	t.Run("should classify a mixed report into all four sets", func(t *testing.T) {
		t.Parallel()

		// given
		actions := []domain.Action{
			entitybuilders.NewActionBuilder().
				WithAction(domain.ActionInstall).
				WithModule("axios").
				WithTarget("0.21.4").
				BuildAction(),
			entitybuilders.NewActionBuilder().
				WithModule("lodash").
				WithTarget("4.17.21").
				WithPaths("my-app>lodash").
				BuildAction(),
			entitybuilders.NewActionBuilder().
				WithAction(domain.ActionInstall).
				WithModule("webpack").
				WithTarget("5.76.0").
				WithMajor(true).
				BuildAction(),
			entitybuilders.NewActionBuilder().
				WithAction(domain.ActionReview).
				WithModule("event-stream").
				WithTarget("3.3.4").
				BuildAction(),
		}

		// when
		plan := application.NewClassifier("my-app").Classify(actions)

		// then
		assert.Equal(t, []string{"axios@0.21.4"}, plan.Install.Values())
		assert.Equal(t, []string{"lodash@4.17.21"}, plan.Update.Values())
		assert.Equal(t, []string{"webpack@5.76.0"}, plan.Major.Values())
		require.Len(t, plan.Review, 1)
		assert.True(t, plan.HasAutomaticFixes())
	})
}
