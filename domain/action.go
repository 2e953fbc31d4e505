package domain

import "fmt"

// Remediation action kinds reported by the registry audit endpoint.
const (
	ActionInstall = "install"
	ActionUpdate  = "update"
	ActionReview  = "review"
)

// Action is one remediation suggested by the audit report. Install actions
// change a top-level dependency, update actions re-resolve one or more deep
// dependency paths, and review actions have no safe automatic fix.
type Action struct {
	Action   string       `json:"action"`
	Module   string       `json:"module"`
	Target   string       `json:"target"`
	IsMajor  bool         `json:"isMajor"`
	Resolves []Resolution `json:"resolves"`
}

// Specifier returns the action's module pinned at its target version.
func (a Action) Specifier() Specifier {
	return Specifier{Name: a.Module, Spec: a.Target}
}

// Resolution ties an action to one vulnerable dependency path it fixes.
type Resolution struct {
	ID       int    `json:"id"`
	Path     string `json:"path"`
	Dev      bool   `json:"dev"`
	Optional bool   `json:"optional"`
}

// Advisory describes one known vulnerability referenced by the report.
type Advisory struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	ModuleName     string `json:"module_name"`
	Severity       string `json:"severity"`
	URL            string `json:"url"`
	Recommendation string `json:"recommendation"`
}

// Report is the audit response returned by the registry.
type Report struct {
	Actions    []Action            `json:"actions"`
	Advisories map[string]Advisory `json:"advisories"`
	Metadata   Metadata            `json:"metadata"`
}

// Metadata summarizes the audited tree and its findings.
type Metadata struct {
	Vulnerabilities   Totals `json:"vulnerabilities"`
	Dependencies      int    `json:"dependencies"`
	DevDependencies   int    `json:"devDependencies"`
	TotalDependencies int    `json:"totalDependencies"`
}

// Totals counts the reported vulnerabilities per severity.
type Totals struct {
	Info     int `json:"info"`
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// Total returns the number of vulnerabilities across all severities.
func (t Totals) Total() int {
	return t.Info + t.Low + t.Moderate + t.High + t.Critical
}

// AtOrAbove returns the number of vulnerabilities at the given severity
// or higher.
func (t Totals) AtOrAbove(level Severity) int {
	total := 0
	for severity, count := range map[Severity]int{
		SeverityInfo:     t.Info,
		SeverityLow:      t.Low,
		SeverityModerate: t.Moderate,
		SeverityHigh:     t.High,
		SeverityCritical: t.Critical,
	} {
		if severity >= level {
			total += count
		}
	}
	return total
}

// Severity orders vulnerability levels from least to most urgent.
type Severity int

// Severity levels, in ascending order of urgency.
const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityModerate
	SeverityHigh
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityInfo:     "info",
	SeverityLow:      "low",
	SeverityModerate: "moderate",
	SeverityHigh:     "high",
	SeverityCritical: "critical",
}

// ParseSeverity maps a severity name from a report or flag to its level.
func ParseSeverity(name string) (Severity, error) {
	for severity, known := range severityNames {
		if known == name {
			return severity, nil
		}
	}
	return SeverityInfo, fmt.Errorf("unknown severity level %q", name)
}

// String returns the severity's lowercase name.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}
