package enrich

import (
	"testing"

	"github.com/agentaudit-dev/agentaudit-cli/core/collector"
	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
	"github.com/agentaudit-dev/agentaudit-cli/internal/config"
)

func TestNormalizeInvalidSeverityDefaultsToMedium(t *testing.T) {
	fs := findings.NewFindingSet()
	fs.Add(findings.Finding{PatternID: "X", Severity: "bogus"})

	Enrich(fs, nil)

	if fs.Findings()[0].Severity != findings.SeverityMedium {
		t.Errorf("expected medium, got %s", fs.Findings()[0].Severity)
	}
}

func TestNormalizeClearsInvalidFile(t *testing.T) {
	cases := []string{
		"../../etc/passwd",
		"foo/../../bar",
		"http://example.com/x",
		"a\x00b",
	}
	for _, path := range cases {
		fs := findings.NewFindingSet()
		fs.Add(findings.Finding{PatternID: "X", Severity: findings.SeverityLow, File: path})
		Enrich(fs, nil)
		if fs.Findings()[0].File != "" {
			t.Errorf("expected file cleared for %q, got %q", path, fs.Findings()[0].File)
		}
	}
}

func TestNormalizeKeepsValidFile(t *testing.T) {
	fs := findings.NewFindingSet()
	fs.Add(findings.Finding{PatternID: "X", Severity: findings.SeverityLow, File: "src/main.py", Line: 3})
	Enrich(fs, nil)
	if fs.Findings()[0].File != "src/main.py" {
		t.Errorf("expected file kept, got %q", fs.Findings()[0].File)
	}
}

func TestNormalizeCWEBackfill(t *testing.T) {
	fs := findings.NewFindingSet()
	fs.Add(findings.Finding{PatternID: "PS_001", Severity: findings.SeverityHigh})
	fs.Add(findings.Finding{PatternID: "UNKNOWN_ID", Severity: findings.SeverityHigh})
	Enrich(fs, nil)

	if fs.Findings()[0].CWEID != "CWE-78" {
		t.Errorf("expected CWE-78, got %s", fs.Findings()[0].CWEID)
	}
	if fs.Findings()[1].CWEID != cweBackstop {
		t.Errorf("expected backstop %s, got %s", cweBackstop, fs.Findings()[1].CWEID)
	}
}

func TestNormalizeRecoversContextSnippet(t *testing.T) {
	files := []collector.FileEntry{
		{Path: "main.py", Content: "line1\nline2\nline3\nline4\nline5\n"},
	}
	fs := findings.NewFindingSet()
	fs.Add(findings.Finding{PatternID: "PS_001", Severity: findings.SeverityHigh, File: "main.py", Line: 3})
	Enrich(fs, files)

	got := fs.Findings()[0].Content
	want := "line2\nline3\nline4"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestScoreImpactByDesignIsZero(t *testing.T) {
	fs := findings.NewFindingSet()
	fs.Add(findings.Finding{PatternID: "X", Severity: findings.SeverityCritical, ByDesign: true})
	Enrich(fs, nil)
	if fs.Findings()[0].ScoreImpact != 0 {
		t.Errorf("expected 0 score_impact for by_design finding, got %d", fs.Findings()[0].ScoreImpact)
	}
}

func TestRiskScoreClampedAt100(t *testing.T) {
	fs := findings.NewFindingSet()
	for i := 0; i < 10; i++ {
		fs.Add(findings.Finding{PatternID: "X", Severity: findings.SeverityCritical})
	}
	Enrich(fs, nil)

	score, result, max := Recompute(fs)
	if score != 100 {
		t.Errorf("expected risk_score 100, got %d", score)
	}
	if result != "unsafe" {
		t.Errorf("expected unsafe, got %s", result)
	}
	if max != findings.SeverityCritical {
		t.Errorf("expected critical max severity, got %s", max)
	}
}

func TestResultThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, "safe"},
		{25, "safe"},
		{26, "caution"},
		{50, "caution"},
		{51, "unsafe"},
		{100, "unsafe"},
	}
	for _, tc := range cases {
		if got := Result(tc.score); got != tc.want {
			t.Errorf("Result(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestApplySuppressionsZeroesScoreImpact(t *testing.T) {
	fs := findings.NewFindingSet()
	fs.Add(findings.Finding{PatternID: "PS_007", Severity: findings.SeverityMedium, File: "telemetry.py"})
	Enrich(fs, nil)

	ApplySuppressions(fs, []config.SuppressionEntry{{PatternID: "PS_007", PathGlob: "telemetry.*"}})

	f := fs.Findings()[0]
	if !f.ByDesign {
		t.Error("expected by_design true")
	}
	if f.ScoreImpact != 0 {
		t.Errorf("expected score_impact 0, got %d", f.ScoreImpact)
	}
}

func TestEnrichIsIdempotent(t *testing.T) {
	files := []collector.FileEntry{{Path: "a.py", Content: "x\ny\nz\n"}}
	fs := findings.NewFindingSet()
	fs.Add(findings.Finding{PatternID: "PS_011", Severity: findings.SeverityHigh, File: "a.py", Line: 2})

	Enrich(fs, files)
	first := fs.Findings()[0]

	Enrich(fs, files)
	second := fs.Findings()[0]

	if first != second {
		t.Errorf("expected idempotent result, first=%+v second=%+v", first, second)
	}
}
