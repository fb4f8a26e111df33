// Package enrich normalizes raw findings into their final, reportable form
// and derives the report-level risk score, result bucket, and max severity
// from them. Normalization is deterministic and idempotent: running it twice
// over the same finding set produces the same output.
package enrich

import (
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/core/collector"
	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

// severityScoreImpact is the magnitude a non-by-design finding of each
// severity contributes to risk_score.
var severityScoreImpact = map[findings.Severity]int{
	findings.SeverityCritical: -25,
	findings.SeverityHigh:     -15,
	findings.SeverityMedium:   -5,
	findings.SeverityLow:      -1,
	findings.SeverityWarning:  0,
	findings.SeverityInfo:     0,
}

// Enrich applies the eight normalization steps below to every finding in fs,
// using files to recover context snippets where needed. It is idempotent:
// calling it twice on the same set produces the same result.
func Enrich(fs *findings.FindingSet, files []collector.FileEntry) {
	for i, f := range fs.Findings() {
		fs.Set(i, normalize(f, files))
	}
}

func normalize(f findings.Finding, files []collector.FileEntry) findings.Finding {
	// Step 1: invalid severity defaults to medium.
	if !f.Severity.Valid() {
		f.Severity = findings.SeverityMedium
	}

	// Step 2: line is a positive integer or cleared.
	if f.Line < 0 {
		f.Line = 0
	}

	// Step 3: file cleared if it carries NUL, ".." segments, or a scheme.
	if !validFile(f.File) {
		f.File = ""
	}

	// Step 4: CWE backfill.
	if f.CWEID == "" {
		f.CWEID = cweFor(f.PatternID)
	}

	// Step 5: snippet recovery from the File Entry when content is empty or
	// a placeholder and both file and line are set.
	if (f.Content == "" || isPlaceholder(f.Content)) && f.File != "" && f.Line > 0 {
		if snippet, ok := recoverContext(files, f.File, f.Line); ok {
			f.Content = snippet
		}
	}

	// Step 6: remediation backfill.
	f.Remediation = remediationFor(f.PatternID, f.Remediation)

	// Step 8 (confidence/by_design coercion) runs before step 7 so that
	// score_impact reflects the coerced by_design value.
	if !f.Confidence.Valid() {
		f.Confidence = findings.ConfidenceMedium
	}

	// Step 7: score_impact.
	if f.ByDesign {
		f.ScoreImpact = 0
	} else {
		f.ScoreImpact = severityScoreImpact[f.Severity]
	}

	return f
}

// validFile rejects a file path carrying a NUL byte, a ".." segment, or a
// URL scheme prefix; an empty path is always valid (it just means unknown).
func validFile(path string) bool {
	if path == "" {
		return true
	}
	if strings.ContainsRune(path, 0) {
		return false
	}
	for _, seg := range strings.Split(filepathClean(path), "/") {
		if seg == ".." {
			return false
		}
	}
	if i := strings.Index(path, "://"); i >= 0 && i < 32 {
		return false
	}
	return true
}

// filepathClean normalizes path separators without touching ".." semantics,
// since filepath.Clean itself resolves ".." segments away before we can
// check for them.
func filepathClean(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// recoverContext returns up to three lines (line-1..line+1) from the File
// Entry matching path, 1-indexed.
func recoverContext(files []collector.FileEntry, path string, line int) (string, bool) {
	for _, f := range files {
		if f.Path != path {
			continue
		}
		lines := strings.Split(f.Content, "\n")
		lo := line - 2
		if lo < 0 {
			lo = 0
		}
		hi := line + 1
		if hi > len(lines) {
			hi = len(lines)
		}
		if lo >= hi {
			return "", false
		}
		return strings.Join(lines[lo:hi], "\n"), true
	}
	return "", false
}

// RiskScore sums the absolute score_impact over non-by-design findings,
// clamped to 100.
func RiskScore(fs *findings.FindingSet) int {
	total := 0
	for _, f := range fs.Findings() {
		if f.ByDesign {
			continue
		}
		impact := f.ScoreImpact
		if impact < 0 {
			impact = -impact
		}
		total += impact
	}
	if total > 100 {
		total = 100
	}
	return total
}

// Result buckets a risk score into the three-tier verdict reported alongside it.
func Result(riskScore int) string {
	switch {
	case riskScore <= 25:
		return "safe"
	case riskScore <= 50:
		return "caution"
	default:
		return "unsafe"
	}
}

// Recompute derives (risk_score, result, max_severity) from the given
// finding set. Call after Enrich and after any mutation that changes
// ScoreImpact or ByDesign (suppression, verification).
func Recompute(fs *findings.FindingSet) (int, string, findings.Severity) {
	score := RiskScore(fs)
	return score, Result(score), fs.MaxSeverity()
}
