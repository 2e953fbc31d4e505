package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath  string
	registryURL string
	production  bool
	dryRun      bool
	verbose     bool
	jsonOutput  bool
	global      bool
	auditLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "auditfix [path]",
	Short: "Audit npm dependency trees and remediate known vulnerabilities",
	Long: `A CLI tool that audits the dependency tree of an npm project against the
security endpoint of a registry and applies the remediations the report
suggests, touching only the affected packages.

The engine works on the lockfile alone:
- Reads package.json and package-lock.json
- Requests a vulnerability report for the exact locked tree
- Classifies suggested actions into installs, updates and manual reviews
- Re-resolves only the vulnerable paths and writes the lockfile back

Called without a subcommand it runs the report, so "auditfix ." and
"auditfix report ." are the same thing.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runReport,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&registryURL, "registry", "",
		"Registry base URL (overrides the configured one)")
	rootCmd.PersistentFlags().BoolVar(&production, "production", false,
		"Leave development dependencies out of the audit")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false,
		"Show what would be done without making changes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print machine-readable JSON instead of text")
	rootCmd.PersistentFlags().BoolVarP(&global, "global", "g", false,
		"Audit globally installed packages (not supported)")
	rootCmd.PersistentFlags().StringVar(&auditLevel, "audit-level", "",
		"Lowest severity that fails the report (info, low, moderate, high, critical)")
}
