package cmd //nolint:testpackage // tests unexported functions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/auditfix/application"
	"github.com/rios0rios0/auditfix/config"
	"github.com/rios0rios0/auditfix/domain"
)

// --- helpers ---

const projectManifest = `{
  "name": "my-app",
  "version": "1.0.0",
  "dependencies": {
    "lodash": "^4.17.0"
  }
}`

const projectLockfile = `{
  "name": "my-app",
  "version": "1.0.0",
  "lockfileVersion": 1,
  "dependencies": {
    "lodash": {
      "version": "4.17.15",
      "resolved": "https://registry.npmjs.org/lodash/-/lodash-4.17.15.tgz",
      "integrity": "sha512-lodash"
    }
  }
}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

// projectFixture lays out a minimal audited project plus a pinned
// configuration file, so config discovery cannot pick up a stray one.
func projectFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, domain.ManifestFileName, projectManifest)
	writeFile(t, dir, domain.LockfileName, projectLockfile)
	writeFile(t, dir, "auditfix.yaml", "audit:\n  level: low\n")
	return dir
}

// auditServer serves a report carrying the given totals from the audit
// endpoint.
func auditServer(t *testing.T, totals domain.Totals) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		report := domain.Report{Metadata: domain.Metadata{Vulnerabilities: totals}}
		assert.NoError(t, json.NewEncoder(w).Encode(report))
	}))
	t.Cleanup(server.Close)
	return server
}

// resetFlags restores the package-level flag state between tests.
func resetFlags() {
	configPath = ""
	registryURL = ""
	production = false
	dryRun = false
	verbose = false
	jsonOutput = false
	global = false
	auditLevel = ""
	force = false
	commit = false
	noChangelog = false
}

func buildOutcome() *application.AuditOutcome {
	tree := &domain.Node{Name: "my-app", Version: "1.0.0"}
	tree.AddChild(&domain.Node{Name: "lodash", Version: "4.17.15"})
	tree.AddChild(&domain.Node{Name: "mkdirp", Version: "0.5.1"})

	plan := domain.NewPlan()
	plan.Install.Add("axios@0.21.4")
	plan.Update.Add("mkdirp>minimist@1.2.6")
	plan.Major.Add("webpack@5.76.0")
	plan.Review = append(plan.Review, domain.Action{
		Action: "review", Module: "tar", Target: "4.4.19",
	})

	return &application.AuditOutcome{
		Manifest: &domain.Manifest{Name: "my-app", Version: "1.0.0"},
		Tree:     tree,
		Report: &domain.Report{
			Advisories: map[string]domain.Advisory{
				"1065": {ID: 1065, ModuleName: "minimist", Severity: "high"},
			},
			Metadata: domain.Metadata{
				Vulnerabilities: domain.Totals{Low: 1, High: 2},
			},
		},
		Plan: plan,
	}
}

// --- tests ---

// NOTE: cannot use t.Parallel() while mutating package-level flag state.
//
//nolint:tparallel,paralleltest // see note above
func TestAuditOptions(t *testing.T) {
	t.Run("should default the directory to the working directory", func(t *testing.T) {
		// given
		resetFlags()
		t.Cleanup(resetFlags)
		cfg := config.Default()

		// when
		opts := auditOptions(cfg, nil)

		// then
		assert.Equal(t, ".", opts.Dir)
		assert.False(t, opts.Production)
	})

	t.Run("should take the directory from the first argument", func(t *testing.T) {
		// given
		resetFlags()
		t.Cleanup(resetFlags)
		cfg := config.Default()

		// when
		opts := auditOptions(cfg, []string{"/srv/my-app"})

		// then
		assert.Equal(t, "/srv/my-app", opts.Dir)
	})

	t.Run("should honor the configured production default", func(t *testing.T) {
		// given
		resetFlags()
		t.Cleanup(resetFlags)
		cfg := config.Default()
		cfg.Audit.Production = true

		// when
		opts := auditOptions(cfg, nil)

		// then
		assert.True(t, opts.Production)
	})

	t.Run("should carry the registry override and verbosity", func(t *testing.T) {
		// given
		resetFlags()
		t.Cleanup(resetFlags)
		registryURL = "https://npm.corp.example.com"
		verbose = true
		cfg := config.Default()

		// when
		opts := auditOptions(cfg, nil)

		// then
		assert.Equal(t, "https://npm.corp.example.com", opts.Registry)
		assert.True(t, opts.Verbose)
	})
}

// NOTE: cannot use t.Parallel() while mutating package-level flag state.
//
//nolint:tparallel,paralleltest // see note above
func TestSeverityThreshold(t *testing.T) {
	t.Run("should fall back to the configured level", func(t *testing.T) {
		// given
		resetFlags()
		t.Cleanup(resetFlags)
		cfg := config.Default()
		cfg.Audit.Level = "high"

		// when
		level, err := severityThreshold(cfg)

		// then
		require.NoError(t, err)
		assert.Equal(t, domain.SeverityHigh, level)
	})

	t.Run("should prefer the audit-level flag", func(t *testing.T) {
		// given
		resetFlags()
		t.Cleanup(resetFlags)
		auditLevel = "critical"
		cfg := config.Default()

		// when
		level, err := severityThreshold(cfg)

		// then
		require.NoError(t, err)
		assert.Equal(t, domain.SeverityCritical, level)
	})

	t.Run("should fail on an unknown level", func(t *testing.T) {
		// given
		resetFlags()
		t.Cleanup(resetFlags)
		auditLevel = "severe"
		cfg := config.Default()

		// when
		_, err := severityThreshold(cfg)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "severe")
	})
}

// NOTE: cannot use t.Parallel() while mutating package-level flag state.
//
//nolint:tparallel,paralleltest // see note above
func TestRunReport(t *testing.T) {
	t.Run("should fail when vulnerabilities reach the audit level", func(t *testing.T) {
		// given
		resetFlags()
		t.Cleanup(resetFlags)
		dir := projectFixture(t)
		server := auditServer(t, domain.Totals{Moderate: 1})
		configPath = filepath.Join(dir, "auditfix.yaml")
		registryURL = server.URL

		// when
		err := runReport(nil, []string{dir})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "found 1 vulnerability(ies) of severity low or higher")
	})

	t.Run("should succeed when the report is clean", func(t *testing.T) {
		// given
		resetFlags()
		t.Cleanup(resetFlags)
		dir := projectFixture(t)
		server := auditServer(t, domain.Totals{})
		configPath = filepath.Join(dir, "auditfix.yaml")
		registryURL = server.URL

		// when
		err := runReport(nil, []string{dir})

		// then
		require.NoError(t, err)
	})
}

// NOTE: cannot use t.Parallel() while mutating package-level flag state.
//
//nolint:tparallel,paralleltest // see note above
func TestFixOptions(t *testing.T) {
	t.Run("should merge flags with the configured defaults", func(t *testing.T) {
		// given
		resetFlags()
		t.Cleanup(resetFlags)
		dryRun = true
		force = true
		cfg := config.Default()
		cfg.Fix.Commit = true

		// when
		opts := fixOptions(cfg, nil)

		// then
		assert.True(t, opts.DryRun)
		assert.True(t, opts.Force)
		assert.True(t, opts.Commit)
		assert.True(t, opts.Changelog)
	})

	t.Run("should let no-changelog win over the configuration", func(t *testing.T) {
		// given
		resetFlags()
		t.Cleanup(resetFlags)
		noChangelog = true
		cfg := config.Default()

		// when
		opts := fixOptions(cfg, nil)

		// then
		assert.False(t, opts.Changelog)
	})
}

func TestBuildReportView(t *testing.T) {
	t.Parallel()

	t.Run("should flatten the outcome for JSON output", func(t *testing.T) {
		t.Parallel()

		// given
		outcome := buildOutcome()

		// when
		view := buildReportView(outcome)

		// then
		assert.Equal(t, "my-app", view.Name)
		assert.Equal(t, "1.0.0", view.Version)
		assert.Equal(t, 2, view.Packages)
		assert.Equal(t, 3, view.Vulnerabilities.Total())
		assert.Equal(t, []string{"axios@0.21.4"}, view.Install)
		assert.Equal(t, []string{"mkdirp>minimist@1.2.6"}, view.Update)
		assert.Equal(t, []string{"webpack@5.76.0"}, view.Major)
		require.Len(t, view.Review, 1)
		assert.Equal(t, "tar", view.Review[0].Module)
		assert.Contains(t, view.Advisories, "1065")
	})
}

func TestBuildFixView(t *testing.T) {
	t.Parallel()

	t.Run("should carry the install result and branch", func(t *testing.T) {
		t.Parallel()

		// given
		outcome := &application.FixOutcome{
			Audit: buildOutcome(),
			Result: &domain.InstallResult{
				Updated:  3,
				Changed:  true,
				Packages: []string{"axios@0.21.4"},
			},
			Branch: "chore/fix-vulnerabilities",
		}

		// when
		view := buildFixView(outcome)

		// then
		assert.Equal(t, 3, view.Updated)
		assert.True(t, view.Changed)
		assert.Equal(t, []string{"axios@0.21.4"}, view.Packages)
		assert.Equal(t, "chore/fix-vulnerabilities", view.Branch)
	})

	t.Run("should stay zero-valued without an install result", func(t *testing.T) {
		t.Parallel()

		// given
		outcome := &application.FixOutcome{Audit: buildOutcome()}

		// when
		view := buildFixView(outcome)

		// then
		assert.Zero(t, view.Updated)
		assert.False(t, view.Changed)
		assert.Empty(t, view.Packages)
		assert.Empty(t, view.Branch)
	})
}
