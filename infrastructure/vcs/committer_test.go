package vcs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/auditfix/domain"
	"github.com/rios0rios0/auditfix/infrastructure/vcs"
)

// --- helpers ---

const sampleChangelog = `# Changelog

## [Unreleased]

## [1.0.0] - 2026-01-01

### Added

- initial release
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

// initRepo creates a git repository with one commit so HEAD exists.
func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	writeFile(t, dir, "README.md", "# project\n")
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add("README.md")
	require.NoError(t, err)
	_, err = worktree.Commit("chore: initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir, repo
}

// --- tests ---

func TestCommitter_UpdateChangelog(t *testing.T) {
	t.Parallel()

	t.Run("should insert entries into the Security subsection", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, domain.ChangelogFileName, sampleChangelog)
		committer := vcs.NewCommitter()
		entries := []string{"- updated `lodash` to `4.17.21` to remediate known vulnerabilities"}

		// when
		changed, err := committer.UpdateChangelog(dir, entries)

		// then
		require.NoError(t, err)
		assert.True(t, changed)
		data, err := os.ReadFile(filepath.Join(dir, domain.ChangelogFileName))
		require.NoError(t, err)
		assert.Contains(t, string(data), "### Security")
		assert.Contains(t, string(data), entries[0])
	})

	t.Run("should leave a project without a changelog alone", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		committer := vcs.NewCommitter()

		// when
		changed, err := committer.UpdateChangelog(dir, []string{"- entry"})

		// then
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("should report no change without an Unreleased section", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, dir, domain.ChangelogFileName, "# Changelog\n\n## [1.0.0] - 2026-01-01\n")
		committer := vcs.NewCommitter()

		// when
		changed, err := committer.UpdateChangelog(dir, []string{"- entry"})

		// then
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestCommitter_CommitFix(t *testing.T) {
	t.Parallel()

	t.Run("should commit the paths on a new branch", func(t *testing.T) {
		t.Parallel()

		// given
		dir, repo := initRepo(t)
		writeFile(t, dir, domain.LockfileName, `{"name": "my-app"}`)
		writeFile(t, dir, domain.ChangelogFileName, sampleChangelog)
		committer := vcs.NewCommitter()

		// when
		err := committer.CommitFix(
			dir,
			"chore/fix-vulnerabilities",
			"fix(deps): remediate known vulnerabilities",
			[]string{domain.LockfileName, domain.ChangelogFileName},
		)

		// then
		require.NoError(t, err)

		head, err := repo.Head()
		require.NoError(t, err)
		assert.Equal(t, "chore/fix-vulnerabilities", head.Name().Short())

		commit, err := repo.CommitObject(head.Hash())
		require.NoError(t, err)
		assert.Equal(t, "fix(deps): remediate known vulnerabilities", commit.Message)
		assert.Equal(t, "auditfix[bot]", commit.Author.Name)
		assert.Equal(t, "auditfix[bot]@users.noreply.github.com", commit.Author.Email)

		tree, err := commit.Tree()
		require.NoError(t, err)
		_, err = tree.File(domain.LockfileName)
		require.NoError(t, err)
		_, err = tree.File(domain.ChangelogFileName)
		require.NoError(t, err)
	})

	t.Run("should reuse an existing branch", func(t *testing.T) {
		t.Parallel()

		// given
		dir, repo := initRepo(t)
		writeFile(t, dir, domain.LockfileName, `{"name": "my-app", "version": "1"}`)
		committer := vcs.NewCommitter()
		require.NoError(t, committer.CommitFix(
			dir, "chore/fix-vulnerabilities", "first fix", []string{domain.LockfileName},
		))
		first, err := repo.Reference(plumbing.NewBranchReferenceName("chore/fix-vulnerabilities"), true)
		require.NoError(t, err)
		writeFile(t, dir, domain.LockfileName, `{"name": "my-app", "version": "2"}`)

		// when
		err = committer.CommitFix(
			dir, "chore/fix-vulnerabilities", "second fix", []string{domain.LockfileName},
		)

		// then
		require.NoError(t, err)
		second, err := repo.Reference(plumbing.NewBranchReferenceName("chore/fix-vulnerabilities"), true)
		require.NoError(t, err)
		assert.NotEqual(t, first.Hash(), second.Hash())

		commit, err := repo.CommitObject(second.Hash())
		require.NoError(t, err)
		assert.Equal(t, "second fix", commit.Message)
		require.Equal(t, 1, commit.NumParents())
		parent, err := commit.Parent(0)
		require.NoError(t, err)
		assert.Equal(t, first.Hash(), parent.Hash)
	})

	t.Run("should fail outside a git repository", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		committer := vcs.NewCommitter()

		// when
		err := committer.CommitFix(dir, "chore/fix-vulnerabilities", "message", nil)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open repository")
	})
}
