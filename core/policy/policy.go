// Package policy evaluates a completed audit report against the exit-code
// contract (0 clean, 1 findings retained) and an optional configurable fail
// threshold for CI pipelines.
package policy

import (
	"fmt"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

// Config controls policy evaluation. FailOn, when set, raises the exit code
// to 1 only when max_severity is at or above the threshold; an empty FailOn
// means any retained finding fails the run, matching the default exit-code
// contract.
type Config struct {
	FailOn findings.Severity `yaml:"fail_on"`
}

// Result holds the outcome of evaluating a report against a Config.
type Result struct {
	Pass        bool
	ExitCode    int
	FindingsCount int
	MaxSeverity findings.Severity
	Summary     string
}

var severityRank = map[findings.Severity]int{
	findings.SeverityCritical: 0,
	findings.SeverityHigh:     1,
	findings.SeverityMedium:   2,
	findings.SeverityLow:      3,
	findings.SeverityWarning:  4,
	findings.SeverityInfo:     5,
}

// Evaluate maps a report's findings_count and max_severity to an exit code.
// findingsCount == 0 is always exit 0 ("clean"). Otherwise, with no FailOn
// threshold configured, any retained finding is exit 1 ("findings
// retained"); with a threshold configured, only a max_severity at or above
// it raises exit 1.
func Evaluate(cfg Config, findingsCount int, maxSeverity findings.Severity) Result {
	r := Result{FindingsCount: findingsCount, MaxSeverity: maxSeverity}

	switch {
	case findingsCount == 0:
		r.Pass = true
		r.ExitCode = 0
	case cfg.FailOn == "":
		r.Pass = false
		r.ExitCode = 1
	case meetsThreshold(maxSeverity, cfg.FailOn):
		r.Pass = false
		r.ExitCode = 1
	default:
		r.Pass = true
		r.ExitCode = 0
	}

	if r.Pass {
		r.Summary = fmt.Sprintf("policy: pass (%d finding(s), max severity %s)", findingsCount, orNone(maxSeverity))
	} else {
		r.Summary = fmt.Sprintf("policy: fail (%d finding(s), max severity %s)", findingsCount, orNone(maxSeverity))
	}
	return r
}

func meetsThreshold(severity, threshold findings.Severity) bool {
	sr, ok1 := severityRank[severity]
	tr, ok2 := severityRank[threshold]
	if !ok1 || !ok2 {
		return false
	}
	return sr <= tr
}

func orNone(s findings.Severity) findings.Severity {
	if s == "" {
		return findings.SeverityNone
	}
	return s
}
