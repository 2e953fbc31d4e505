package domain

// ChangelogFileName is the changelog kept next to the manifest.
const ChangelogFileName = "CHANGELOG.md"

// Recorder persists the outcome of a fix run in the project workspace,
// keeping the changelog and version control history in step with the
// rewritten lockfile.
type Recorder interface {
	// UpdateChangelog inserts the entries into the project changelog,
	// reporting whether the file was modified. A project without a
	// changelog is left alone.
	UpdateChangelog(dir string, entries []string) (bool, error)

	// CommitFix commits the given paths on a dedicated branch.
	CommitFix(dir, branch, message string, paths []string) error
}
