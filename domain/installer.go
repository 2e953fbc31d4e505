package domain

import "context"

// InstallOptions carries the optional settings recognized by an install run.
type InstallOptions struct {
	// DeepPaths are the dependency paths to patch into the loaded tree
	// before resolution, so only the addressed nodes are re-resolved.
	DeepPaths []DeepPath

	// Registry is the package metadata endpoint used for resolution.
	Registry string

	// Token authenticates metadata requests, when required.
	Token string
}

// InstallRequest describes one install run over a project directory.
type InstallRequest struct {
	Dir     string
	DryRun  bool
	Args    []string
	Options InstallOptions
}

// InstallResult summarizes what an install run changed.
type InstallResult struct {
	// Updated counts the packages that were resolved during the run.
	Updated int

	// Changed reports whether the persisted tree differs from the loaded one.
	Changed bool

	// Packages lists the name@version specifiers installed at the top level.
	Packages []string
}

// Installer performs a restricted install run: it re-resolves exactly the
// packages named by the request and persists the resulting tree.
type Installer interface {
	Run(ctx context.Context) (*InstallResult, error)
}

// InstallerFactory builds an Installer for one install request.
type InstallerFactory func(req InstallRequest) Installer
