package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/auditfix/application"
	"github.com/rios0rios0/auditfix/config"
	"github.com/rios0rios0/auditfix/domain"
)

var reportCmd = &cobra.Command{
	Use:   "report [path]",
	Short: "Audit the project and print the vulnerability report",
	Long: `Audit the dependency tree of a project against the registry security
endpoint and print the classified remediation plan.

The command exits non-zero when vulnerabilities at or above the audit level
are found, so it can gate CI pipelines.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}

	level, err := severityThreshold(cfg)
	if err != nil {
		return err
	}

	service := injectAuditService()
	outcome, err := service.Audit(ctx, cfg, auditOptions(cfg, args))
	if err != nil {
		return err
	}

	if jsonOutput {
		if printErr := printJSON(buildReportView(outcome)); printErr != nil {
			return printErr
		}
	} else {
		printReport(outcome)
	}

	if flagged := outcome.Report.Metadata.Vulnerabilities.AtOrAbove(level); flagged > 0 {
		return fmt.Errorf("found %d vulnerability(ies) of severity %s or higher", flagged, level)
	}
	return nil
}

// auditOptions assembles the audit options from the global flags and the
// configuration. The project directory defaults to the working directory.
func auditOptions(cfg *config.Config, args []string) application.AuditOptions {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	return application.AuditOptions{
		Dir:        dir,
		Global:     global,
		Production: production || cfg.Audit.Production,
		Registry:   registryURL,
		Verbose:    verbose,
	}
}

// severityThreshold picks the failure threshold: the --audit-level flag wins
// over the configured audit.level.
func severityThreshold(cfg *config.Config) (domain.Severity, error) {
	name := cfg.Audit.Level
	if auditLevel != "" {
		name = auditLevel
	}
	level, err := domain.ParseSeverity(name)
	if err != nil {
		return 0, fmt.Errorf("audit-level: %w", err)
	}
	return level, nil
}

// reportView is the machine-readable shape of an audit outcome.
type reportView struct {
	Name            string                     `json:"name"`
	Version         string                     `json:"version"`
	Packages        int                        `json:"packages"`
	Vulnerabilities domain.Totals              `json:"vulnerabilities"`
	Install         []string                   `json:"install"`
	Update          []string                   `json:"update"`
	Major           []string                   `json:"major"`
	Review          []domain.Action            `json:"review"`
	Advisories      map[string]domain.Advisory `json:"advisories,omitempty"`
}

func buildReportView(outcome *application.AuditOutcome) reportView {
	return reportView{
		Name:            outcome.Manifest.Name,
		Version:         outcome.Manifest.Version,
		Packages:        outcome.Tree.Count(),
		Vulnerabilities: outcome.Report.Metadata.Vulnerabilities,
		Install:         outcome.Plan.Install.Values(),
		Update:          outcome.Plan.Update.Values(),
		Major:           outcome.Plan.Major.Values(),
		Review:          outcome.Plan.Review,
		Advisories:      outcome.Report.Advisories,
	}
}

func printJSON(view interface{}) error {
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printReport renders the human-readable summary of an audit outcome.
func printReport(outcome *application.AuditOutcome) {
	fmt.Printf("🔍 Audited %d packages of %s@%s\n",
		outcome.Tree.Count(), outcome.Manifest.Name, outcome.Manifest.Version)
	fmt.Println()

	totals := outcome.Report.Metadata.Vulnerabilities
	if totals.Total() == 0 {
		fmt.Println("✅ No known vulnerabilities found")
		return
	}

	fmt.Printf("Found %d vulnerabilities (%d info, %d low, %d moderate, %d high, %d critical)\n",
		totals.Total(), totals.Info, totals.Low, totals.Moderate, totals.High, totals.Critical)
	fmt.Println()

	printSet("📦", "Install", outcome.Plan.Install.Values())
	printSet("🔧", "Update", outcome.Plan.Update.Values())
	printSet("💥", "Major (requires --force)", outcome.Plan.Major.Values())

	if len(outcome.Plan.Review) > 0 {
		fmt.Println("⚠️  Review manually")
		for _, action := range outcome.Plan.Review {
			fmt.Printf("   └─ %s@%s\n", action.Module, action.Target)
		}
		fmt.Println()
	}
}

func printSet(icon, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Printf("%s %s\n", icon, label)
	for _, value := range values {
		fmt.Printf("   └─ %s\n", value)
	}
	fmt.Println()
}
