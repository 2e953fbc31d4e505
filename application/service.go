package application

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/auditfix/config"
	"github.com/rios0rios0/auditfix/domain"
)

// Branch and message used when committing an applied fix.
const (
	fixBranch        = "chore/fix-vulnerabilities"
	fixCommitMessage = "fix(deps): remediate known vulnerabilities"
)

// AuditService orchestrates the full remediation flow:
// load project state -> request report -> classify -> reinstall -> record.
type AuditService struct {
	locks        domain.LockRepository
	newReports   domain.ReportServiceFactory
	newInstaller domain.InstallerFactory
	recorder     domain.Recorder
}

// NewAuditService creates a new service with the given collaborators.
func NewAuditService(
	locks domain.LockRepository,
	newReports domain.ReportServiceFactory,
	newInstaller domain.InstallerFactory,
	recorder domain.Recorder,
) *AuditService {
	return &AuditService{
		locks:        locks,
		newReports:   newReports,
		newInstaller: newInstaller,
		recorder:     recorder,
	}
}

// AuditOptions holds runtime options for a single audit.
type AuditOptions struct {
	Dir        string
	Global     bool
	Production bool   // Leave development dependencies out of the payload
	Registry   string // If set, overrides the configured registry (CLI override)
	Verbose    bool
}

// AuditOutcome carries everything an audit produced.
type AuditOutcome struct {
	Manifest *domain.Manifest
	Tree     *domain.Node
	Report   *domain.Report
	Plan     domain.Plan
}

// Audit loads the project's manifest and dependency tree, requests a
// vulnerability report for them and classifies the suggested actions into
// an executable plan.
func (s *AuditService) Audit(
	ctx context.Context,
	cfg *config.Config,
	opts AuditOptions,
) (*AuditOutcome, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if opts.Global {
		return nil, domain.ErrGlobalAudit
	}

	manifest, err := s.locks.LoadManifest(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	tree, err := s.locks.LoadTree(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load lockfile: %w", err)
	}
	if err := s.locks.Verify(manifest, tree); err != nil {
		return nil, err
	}

	registryURL := resolveRegistry(cfg, opts.Registry)
	logger.Infof("Auditing %s@%s against %s", manifest.Name, manifest.Version, registryURL)

	payload := &domain.AuditPayload{
		Name:         manifest.Name,
		Version:      manifest.Version,
		Requires:     manifest.Requires(opts.Production),
		Dependencies: tree.Entries(),
	}

	report, err := s.newReports(registryURL, cfg.Registry.Token).RequestReport(ctx, payload)
	if err != nil {
		return nil, err
	}

	logger.Infof(
		"Found %d vulnerabilities in %d scanned packages",
		report.Metadata.Vulnerabilities.Total(), tree.Count(),
	)

	plan := NewClassifier(manifest.Name).Classify(report.Actions)
	return &AuditOutcome{Manifest: manifest, Tree: tree, Report: report, Plan: plan}, nil
}

// FixOptions holds runtime options for a single fix run.
type FixOptions struct {
	AuditOptions
	DryRun    bool
	Force     bool // Apply updates that cross a semver-major boundary
	Commit    bool
	Changelog bool
}

// FixOutcome carries everything a fix run produced.
type FixOutcome struct {
	Audit  *AuditOutcome
	Result *domain.InstallResult // nil when no automatic fixes ran
	Branch string                // set when the fix was committed
}

// Fix audits the project, applies every automatic remediation the report
// offers and records the result in the changelog and version control.
func (s *AuditService) Fix(
	ctx context.Context,
	cfg *config.Config,
	opts FixOptions,
) (*FixOutcome, error) {
	audit, err := s.Audit(ctx, cfg, opts.AuditOptions)
	if err != nil {
		return nil, err
	}

	outcome := &FixOutcome{Audit: audit}
	plan := audit.Plan

	if plan.Major.Len() > 0 && !opts.Force {
		logger.Warnf(
			"%d update(s) cross a semver-major boundary and were skipped: %s",
			plan.Major.Len(), strings.Join(plan.Major.Values(), ", "),
		)
		logger.Warn("Run `auditfix fix --force` to apply breaking changes")
	}
	for _, action := range plan.Review {
		logger.Warnf("No automatic fix for %s@%s, review it manually", action.Module, action.Target)
	}

	args := plan.InstallArgs(opts.Force)
	paths := plan.DeepPaths()
	if len(args) == 0 && len(paths) == 0 {
		logger.Info("No automatic fixes available")
		return outcome, nil
	}

	if opts.Force && plan.Major.Len() > 0 {
		logger.Infof("Forcing %d breaking change(s)", plan.Major.Len())
	}

	installer := s.newInstaller(domain.InstallRequest{
		Dir:    opts.Dir,
		DryRun: opts.DryRun,
		Args:   args,
		Options: domain.InstallOptions{
			DeepPaths: paths,
			Registry:  resolveRegistry(cfg, opts.Registry),
			Token:     cfg.Registry.Token,
		},
	})

	result, err := installer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("install run failed: %w", err)
	}
	outcome.Result = result
	logger.Infof("Re-resolved %d package(s)", result.Updated)

	if opts.DryRun || !result.Changed {
		return outcome, nil
	}

	committed := []string{domain.LockfileName}
	if opts.Changelog {
		changed, changelogErr := s.recorder.UpdateChangelog(opts.Dir, changelogEntries(plan, opts.Force))
		if changelogErr != nil {
			logger.Errorf("Failed to update changelog: %v", changelogErr)
		} else if changed {
			committed = append(committed, domain.ChangelogFileName)
		}
	}

	if opts.Commit {
		if commitErr := s.recorder.CommitFix(opts.Dir, fixBranch, fixCommitMessage, committed); commitErr != nil {
			return nil, fmt.Errorf("failed to commit fix: %w", commitErr)
		}
		outcome.Branch = fixBranch
		logger.Infof("Committed fix on branch %q", fixBranch)
	}

	return outcome, nil
}

// resolveRegistry applies the CLI override on top of the configured registry.
func resolveRegistry(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.Registry.URL
}

// changelogEntries renders one bullet per package the fix pinned.
func changelogEntries(plan domain.Plan, force bool) []string {
	specs := domain.NewStringSet()
	for _, spec := range plan.Install.Values() {
		specs.Add(spec)
	}
	for _, entry := range plan.Update.Values() {
		specs.Add(domain.ParseDeepPath(entry).Terminal().String())
	}
	if force {
		for _, spec := range plan.Major.Values() {
			specs.Add(spec)
		}
	}

	entries := make([]string, 0, specs.Len())
	for _, spec := range specs.Values() {
		parsed := domain.ParseSpecifier(spec)
		entries = append(entries, fmt.Sprintf(
			"- updated `%s` to `%s` to remediate known vulnerabilities",
			parsed.Name, parsed.Spec,
		))
	}
	return entries
}
