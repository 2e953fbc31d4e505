package vcs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/auditfix/domain"
)

const (
	botName  = "auditfix[bot]"
	botEmail = "auditfix[bot]@users.noreply.github.com"
)

// Committer records remediation results in the project: it amends the
// changelog on disk and commits the touched files on a dedicated branch.
type Committer struct{}

// NewCommitter creates a filesystem and git backed recorder.
func NewCommitter() *Committer {
	return &Committer{}
}

var _ domain.Recorder = (*Committer)(nil)

// UpdateChangelog inserts the entries into the Security subsection of the
// changelog of dir. A project without a changelog is left alone.
func (*Committer) UpdateChangelog(dir string, entries []string) (bool, error) {
	path := filepath.Join(dir, domain.ChangelogFileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debugf("No %s in %q, leaving it alone", domain.ChangelogFileName, dir)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read changelog: %w", err)
	}

	content := string(data)
	updated := domain.InsertChangelogEntry(content, domain.ChangelogSectionSecurity, entries)
	if updated == content {
		return false, nil
	}

	if writeErr := os.WriteFile(path, []byte(updated), 0o644); writeErr != nil { //nolint:gosec // changelog is world-readable
		return false, fmt.Errorf("failed to write changelog: %w", writeErr)
	}

	return true, nil
}

// CommitFix commits the given paths on branch, creating the branch off the
// current HEAD when it does not exist yet. Worktree changes survive the
// checkout.
func (*Committer) CommitFix(dir, branch, message string, paths []string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open repository in %q: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to resolve worktree: %w", err)
	}

	branchRef := plumbing.NewBranchReferenceName(branch)
	_, refErr := repo.Reference(branchRef, true)

	checkout := &git.CheckoutOptions{
		Branch: branchRef,
		Create: refErr != nil,
		Keep:   true,
	}
	if checkoutErr := worktree.Checkout(checkout); checkoutErr != nil {
		return fmt.Errorf("failed to switch to branch %q: %w", branch, checkoutErr)
	}

	for _, path := range paths {
		if _, addErr := worktree.Add(path); addErr != nil {
			return fmt.Errorf("failed to stage %q: %w", path, addErr)
		}
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  botName,
			Email: botEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit fix: %w", err)
	}

	logger.Debugf("Committed %s on %s", hash, branch)

	return nil
}
