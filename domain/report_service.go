package domain

import (
	"context"
	"errors"
)

// ErrAuditUnsupported reports a registry that does not implement the audit
// endpoint, or cannot serve it right now.
var ErrAuditUnsupported = errors.New("registry does not support security audits")

// ErrGlobalAudit reports an audit requested for globally installed packages,
// which carry no manifest or lockfile to audit against.
var ErrGlobalAudit = errors.New("global mode is not supported, audit a project directory instead")

// AuditPayload is the request body submitted to the registry's audit
// endpoint: the project's identity, its declared dependency ranges and the
// full resolved tree.
type AuditPayload struct {
	Name         string                `json:"name"`
	Version      string                `json:"version"`
	Requires     map[string]string     `json:"requires"`
	Dependencies map[string]*TreeEntry `json:"dependencies"`
}

// ReportService requests a vulnerability report for a dependency tree.
type ReportService interface {
	// RequestReport submits the payload and returns the parsed report.
	// Registries without audit support yield ErrAuditUnsupported.
	RequestReport(ctx context.Context, payload *AuditPayload) (*Report, error)
}

// ReportServiceFactory builds a ReportService bound to a registry endpoint
// and its credential.
type ReportServiceFactory func(baseURL, token string) ReportService
