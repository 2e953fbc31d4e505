// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations — no mock frameworks.
package testdoubles

import (
	"context"

	"github.com/rios0rios0/auditfix/domain"
)

// ---------------------------------------------------------------------------
// SpyLockRepository
// ---------------------------------------------------------------------------

// SpyLockRepository implements domain.LockRepository as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyLockRepository struct {
	// --- LoadManifest ---
	Manifest    *domain.Manifest
	ManifestErr error
	// spy: directories requested
	ManifestDirs []string

	// --- LoadTree ---
	Tree    *domain.Node
	TreeErr error
	// spy: directories requested
	TreeDirs []string

	// --- SaveTree ---
	SaveErr error
	// spy: trees received
	SavedDirs  []string
	SavedTrees []*domain.Node

	// --- Verify ---
	VerifyErr error
	// spy: invocations
	VerifyCalls int
}

var _ domain.LockRepository = (*SpyLockRepository)(nil)

func (r *SpyLockRepository) LoadManifest(dir string) (*domain.Manifest, error) {
	r.ManifestDirs = append(r.ManifestDirs, dir)
	return r.Manifest, r.ManifestErr
}

func (r *SpyLockRepository) LoadTree(dir string) (*domain.Node, error) {
	r.TreeDirs = append(r.TreeDirs, dir)
	return r.Tree, r.TreeErr
}

func (r *SpyLockRepository) SaveTree(dir string, root *domain.Node) error {
	r.SavedDirs = append(r.SavedDirs, dir)
	r.SavedTrees = append(r.SavedTrees, root)
	return r.SaveErr
}

func (r *SpyLockRepository) Verify(_ *domain.Manifest, _ *domain.Node) error {
	r.VerifyCalls++
	return r.VerifyErr
}

// ---------------------------------------------------------------------------
// SpyReportService
// ---------------------------------------------------------------------------

// SpyReportService implements domain.ReportService as a configurable spy.
type SpyReportService struct {
	// --- RequestReport ---
	Report    *domain.Report
	ReportErr error
	// spy: payloads received
	Payloads []*domain.AuditPayload

	// spy: endpoints the factory was bound to
	BaseURLs []string
	Tokens   []string
}

var _ domain.ReportService = (*SpyReportService)(nil)

func (s *SpyReportService) RequestReport(
	_ context.Context,
	payload *domain.AuditPayload,
) (*domain.Report, error) {
	s.Payloads = append(s.Payloads, payload)
	return s.Report, s.ReportErr
}

// Factory returns a ReportServiceFactory that records the endpoint it was
// bound to and hands back the same spy.
func (s *SpyReportService) Factory() domain.ReportServiceFactory {
	return func(baseURL, token string) domain.ReportService {
		s.BaseURLs = append(s.BaseURLs, baseURL)
		s.Tokens = append(s.Tokens, token)
		return s
	}
}

// ---------------------------------------------------------------------------
// SpyInstaller
// ---------------------------------------------------------------------------

// SpyInstaller implements domain.Installer as a configurable spy.
type SpyInstaller struct {
	// --- Run ---
	Result *domain.InstallResult
	RunErr error
	// spy: invocations
	RunCalls int

	// spy: requests the factory received
	Requests []domain.InstallRequest
}

var _ domain.Installer = (*SpyInstaller)(nil)

func (i *SpyInstaller) Run(_ context.Context) (*domain.InstallResult, error) {
	i.RunCalls++
	return i.Result, i.RunErr
}

// Factory returns an InstallerFactory that records each request and hands
// back the same spy.
func (i *SpyInstaller) Factory() domain.InstallerFactory {
	return func(req domain.InstallRequest) domain.Installer {
		i.Requests = append(i.Requests, req)
		return i
	}
}

// ---------------------------------------------------------------------------
// SpyRecorder
// ---------------------------------------------------------------------------

// SpyRecorder implements domain.Recorder as a configurable spy.
type SpyRecorder struct {
	// --- UpdateChangelog ---
	ChangelogChanged bool
	ChangelogErr     error
	// spy: calls received
	ChangelogCalls []ChangelogCall

	// --- CommitFix ---
	CommitErr error
	// spy: calls received
	Commits []CommitCall
}

// ChangelogCall records a single invocation of UpdateChangelog.
type ChangelogCall struct {
	Dir     string
	Entries []string
}

// CommitCall records a single invocation of CommitFix.
type CommitCall struct {
	Dir     string
	Branch  string
	Message string
	Paths   []string
}

var _ domain.Recorder = (*SpyRecorder)(nil)

func (r *SpyRecorder) UpdateChangelog(dir string, entries []string) (bool, error) {
	r.ChangelogCalls = append(r.ChangelogCalls, ChangelogCall{Dir: dir, Entries: entries})
	return r.ChangelogChanged, r.ChangelogErr
}

func (r *SpyRecorder) CommitFix(dir, branch, message string, paths []string) error {
	r.Commits = append(r.Commits, CommitCall{
		Dir:     dir,
		Branch:  branch,
		Message: message,
		Paths:   paths,
	})
	return r.CommitErr
}

// ---------------------------------------------------------------------------
// DummyReportService — satisfies the interface but does nothing
// ---------------------------------------------------------------------------

// DummyReportService is a no-op implementation of domain.ReportService.
// Use it only for interface compliance tests or as a placeholder.
type DummyReportService struct{}

var _ domain.ReportService = (*DummyReportService)(nil)

func (d *DummyReportService) RequestReport(
	_ context.Context,
	_ *domain.AuditPayload,
) (*domain.Report, error) {
	return nil, nil //nolint:nilnil // dummy no-op
}

// ---------------------------------------------------------------------------
// DummyInstaller — satisfies the interface but does nothing
// ---------------------------------------------------------------------------

// DummyInstaller is a no-op implementation of domain.Installer.
type DummyInstaller struct{}

var _ domain.Installer = (*DummyInstaller)(nil)

func (d *DummyInstaller) Run(_ context.Context) (*domain.InstallResult, error) {
	return nil, nil //nolint:nilnil // dummy no-op
}
