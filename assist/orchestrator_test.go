package assist

import (
	"testing"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
	"github.com/agentaudit-dev/agentaudit-cli/core/report"
)

func TestNormalizeTitleCollapsesPunctuationAndCase(t *testing.T) {
	got := normalizeTitle("Command Injection -- via `eval()`!!")
	want := "command injection via eval"
	if got != want {
		t.Errorf("normalizeTitle() = %q, want %q", got, want)
	}
}

func sampleReport(model string, risk int, maxSev findings.Severity, titles ...string) *report.Report {
	fs := findings.NewFindingSet()
	for _, title := range titles {
		fs.Add(findings.Finding{PatternID: "X", Title: title, Severity: maxSev})
	}
	r := report.Build(fs, risk, "caution", maxSev)
	r.AuditModel = model
	return r
}

func TestBuildConsensusRiskStats(t *testing.T) {
	reports := []*report.Report{
		sampleReport("model-a", 10, findings.SeverityLow, "issue one"),
		sampleReport("model-b", 30, findings.SeverityLow, "issue one"),
		sampleReport("model-c", 20, findings.SeverityLow, "issue one"),
	}
	c := BuildConsensus(reports)
	if c.RiskMin != 10 || c.RiskMax != 30 {
		t.Errorf("expected min/max 10/30, got %d/%d", c.RiskMin, c.RiskMax)
	}
	if c.RiskMean != 20 {
		t.Errorf("expected mean 20, got %.2f", c.RiskMean)
	}
}

func TestBuildConsensusUnanimousSeverity(t *testing.T) {
	reports := []*report.Report{
		sampleReport("model-a", 10, findings.SeverityHigh),
		sampleReport("model-b", 12, findings.SeverityHigh),
	}
	c := BuildConsensus(reports)
	if !c.Unanimous {
		t.Error("expected unanimous severity agreement")
	}
}

func TestBuildConsensusDisagreement(t *testing.T) {
	reports := []*report.Report{
		sampleReport("model-a", 10, findings.SeverityHigh),
		sampleReport("model-b", 12, findings.SeverityLow),
	}
	c := BuildConsensus(reports)
	if c.Unanimous {
		t.Error("expected disagreement")
	}
	if c.SeverityByModel["model-a"] != findings.SeverityHigh {
		t.Errorf("expected model-a severity high, got %s", c.SeverityByModel["model-a"])
	}
}

func TestBuildConsensusFindingFusion(t *testing.T) {
	reports := []*report.Report{
		sampleReport("model-a", 10, findings.SeverityMedium, "Command Injection", "Only in A"),
		sampleReport("model-b", 15, findings.SeverityMedium, "command injection!!", "Only in B"),
	}
	c := BuildConsensus(reports)

	foundShared := false
	for _, k := range c.Shared {
		if k == "command injection" {
			foundShared = true
		}
	}
	if !foundShared {
		t.Errorf("expected 'command injection' to be shared, got %v", c.Shared)
	}
	if len(c.UniqueByModel["model-a"]) != 1 || c.UniqueByModel["model-a"][0] != "only in a" {
		t.Errorf("expected 'only in a' unique to model-a, got %v", c.UniqueByModel["model-a"])
	}
}

func TestFamilyOfKnownPrefixes(t *testing.T) {
	cases := map[string]string{
		"claude-sonnet-4-5": "anthropic",
		"gemini-2.5-pro":    "gemini",
		"gpt-4o":            "openai",
		"deepseek-chat":     "other",
	}
	for model, want := range cases {
		if got := familyOf(model); got != want {
			t.Errorf("familyOf(%q) = %q, want %q", model, got, want)
		}
	}
}

func TestCrossVerifierModelPicksDifferentFamily(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	verifier := crossVerifierModel("claude-sonnet-4-5")
	if familyOf(verifier) == "anthropic" {
		t.Errorf("expected a non-anthropic verifier, got %s", verifier)
	}
}
