package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/auditfix/application"
	"github.com/rios0rios0/auditfix/config"
)

var (
	force       bool
	commit      bool
	noChangelog bool
)

var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Audit the project and apply the suggested remediations",
	Long: `Audit the dependency tree of a project and apply every automatic
remediation the report offers: top-level installs for direct dependencies
and targeted deep updates for transitive ones.

Updates crossing a semver-major boundary are skipped unless --force is set.
Actions without an automatic fix are listed for manual review.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().BoolVar(&force, "force", false,
		"Apply updates that cross a semver-major boundary")
	fixCmd.Flags().BoolVar(&commit, "commit", false,
		"Commit the fix on a dedicated branch")
	fixCmd.Flags().BoolVar(&noChangelog, "no-changelog", false,
		"Skip the changelog update")
	rootCmd.AddCommand(fixCmd)
}

func runFix(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}

	service := injectAuditService()
	outcome, err := service.Fix(ctx, cfg, fixOptions(cfg, args))
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(buildFixView(outcome))
	}
	printFix(outcome)
	return nil
}

// fixOptions assembles the fix options from flags and configuration. Flags
// win over the configured defaults.
func fixOptions(cfg *config.Config, args []string) application.FixOptions {
	return application.FixOptions{
		AuditOptions: auditOptions(cfg, args),
		DryRun:       dryRun,
		Force:        force,
		Commit:       commit || cfg.Fix.Commit,
		Changelog:    !noChangelog && cfg.Fix.Changelog,
	}
}

// fixView is the machine-readable shape of a fix run.
type fixView struct {
	reportView
	Updated  int      `json:"updated"`
	Changed  bool     `json:"changed"`
	Packages []string `json:"installed,omitempty"`
	Branch   string   `json:"branch,omitempty"`
}

func buildFixView(outcome *application.FixOutcome) fixView {
	view := fixView{reportView: buildReportView(outcome.Audit)}
	if outcome.Result != nil {
		view.Updated = outcome.Result.Updated
		view.Changed = outcome.Result.Changed
		view.Packages = outcome.Result.Packages
	}
	view.Branch = outcome.Branch
	return view
}

// printFix renders the human-readable summary of a fix run.
func printFix(outcome *application.FixOutcome) {
	if outcome.Result == nil {
		fmt.Println("✅ Nothing to fix automatically")
		return
	}

	fmt.Printf("🔧 Re-resolved %d package(s)\n", outcome.Result.Updated)
	for _, pkg := range outcome.Result.Packages {
		fmt.Printf("   └─ %s\n", pkg)
	}

	switch {
	case !outcome.Result.Changed:
		fmt.Println("✅ Lockfile already up to date")
	case dryRun:
		fmt.Println("💡 Dry run, lockfile not written")
	case outcome.Branch != "":
		fmt.Printf("✅ Fix committed on branch %q\n", outcome.Branch)
	default:
		fmt.Println("✅ Lockfile updated")
	}
}
