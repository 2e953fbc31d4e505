package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/rios0rios0/auditfix/domain"
)

const (
	auditEndpoint  = "/-/npm/v1/security/audits"
	requestTimeout = 30 * time.Second
	maxRetries     = 3
)

// Client talks to an npm-compatible registry over its JSON API: it submits
// audit payloads and fetches package metadata for resolution.
// The HTTP field is exported so tests can shorten the retry schedule.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *retryablehttp.Client
}

// New creates a client for the registry at baseURL. The token, when set, is
// sent as a bearer credential on every request.
func New(baseURL, token string) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = maxRetries
	httpClient.HTTPClient.Timeout = requestTimeout
	httpClient.Logger = nil
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    httpClient,
	}
}

// NewReportService exposes the client through the domain factory shape.
func NewReportService(baseURL, token string) domain.ReportService {
	return New(baseURL, token)
}

var _ domain.ReportService = (*Client)(nil)

// RequestReport submits the audit payload and decodes the report. A registry
// answering 404 or failing server-side is reported as ErrAuditUnsupported so
// callers can tell a missing endpoint from a broken run.
func (c *Client) RequestReport(
	ctx context.Context,
	payload *domain.AuditPayload,
) (*domain.Report, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx, http.MethodPost, c.BaseURL+auditEndpoint, bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build audit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			if resp.StatusCode >= http.StatusInternalServerError {
				return nil, fmt.Errorf(
					"audit endpoint kept failing with status %s: %w",
					resp.Status, domain.ErrAuditUnsupported,
				)
			}
		}
		return nil, fmt.Errorf("audit request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf(
			"audit endpoint returned status %s: %w",
			resp.Status, domain.ErrAuditUnsupported,
		)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("audit request failed with status %s", resp.Status)
	}

	var report domain.Report
	if decodeErr := json.NewDecoder(resp.Body).Decode(&report); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode audit report: %w", decodeErr)
	}

	return &report, nil
}

// Packument is the registry's metadata document for one package.
type Packument struct {
	Name     string                      `json:"name"`
	DistTags map[string]string           `json:"dist-tags"`
	Versions map[string]PackumentVersion `json:"versions"`
}

// PackumentVersion is the manifest of one published version.
type PackumentVersion struct {
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
	Dist         Dist              `json:"dist"`
}

// Dist locates a version's tarball and its content hash.
type Dist struct {
	Tarball   string `json:"tarball"`
	Integrity string `json:"integrity"`
	Shasum    string `json:"shasum"`
}

// Packument fetches the metadata document for the named package. Scoped
// names are escaped the way the registry expects, @scope%2Fname.
func (c *Client) Packument(ctx context.Context, name string) (*Packument, error) {
	req, err := retryablehttp.NewRequestWithContext(
		ctx, http.MethodGet, c.BaseURL+"/"+url.PathEscape(name), nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata request: %w", err)
	}
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("metadata request for %q failed: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %s for package %q", resp.Status, name)
	}

	var pack Packument
	if decodeErr := json.NewDecoder(resp.Body).Decode(&pack); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode metadata for %q: %w", name, decodeErr)
	}

	return &pack, nil
}

func (c *Client) authorize(req *retryablehttp.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}
