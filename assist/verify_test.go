package assist

import (
	"context"
	"testing"

	"github.com/agentaudit-dev/agentaudit-cli/core/collector"
	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

func TestSelectForVerificationOrdersCriticalFirst(t *testing.T) {
	fs := findings.NewFindingSet()
	fs.Add(findings.Finding{PatternID: "A", Title: "low one", Severity: findings.SeverityLow})
	fs.Add(findings.Finding{PatternID: "B", Title: "critical one", Severity: findings.SeverityCritical})
	fs.Add(findings.Finding{PatternID: "C", Title: "medium one", Severity: findings.SeverityMedium})

	idx := selectForVerification(fs)
	items := fs.Findings()
	if items[idx[0]].Severity != findings.SeverityCritical {
		t.Errorf("expected critical finding first, got %s", items[idx[0]].Severity)
	}
	if items[idx[len(idx)-1]].Severity != findings.SeverityLow {
		t.Errorf("expected low finding last, got %s", items[idx[len(idx)-1]].Severity)
	}
}

func TestSelectForVerificationCapsAtTen(t *testing.T) {
	fs := findings.NewFindingSet()
	for i := 0; i < 15; i++ {
		fs.Add(findings.Finding{PatternID: "X", Title: "finding", Severity: findings.SeverityHigh})
	}
	idx := selectForVerification(fs)
	if len(idx) != maxVerifications {
		t.Errorf("expected %d selected, got %d", maxVerifications, len(idx))
	}
}

func TestSelectForVerificationStablePositionalTiebreak(t *testing.T) {
	fs := findings.NewFindingSet()
	fs.Add(findings.Finding{PatternID: "A", Title: "first", Severity: findings.SeverityHigh})
	fs.Add(findings.Finding{PatternID: "B", Title: "second", Severity: findings.SeverityHigh})

	idx := selectForVerification(fs)
	if idx[0] != 0 || idx[1] != 1 {
		t.Errorf("expected stable original order for equal severities, got %v", idx)
	}
}

func mockVerifierResponse(body string) *MockProvider {
	return &MockProvider{Responses: []Response{{Content: body}}}
}

func TestVerifyFindingRejectsWhenCodeDoesNotExist(t *testing.T) {
	mock := mockVerifierResponse(`{"verification_status":"rejected","code_exists":false,"code_matches_description":true,"reasoning":"no such line"}`)
	f := findings.Finding{PatternID: "PS_001", Severity: findings.SeverityCritical}

	updated, keep := verifyFinding(context.Background(), mock, f, nil)
	if keep {
		t.Error("expected finding to be dropped")
	}
	if updated.VerificationStatus != findings.VerificationRejected {
		t.Errorf("expected rejected status, got %s", updated.VerificationStatus)
	}
}

func TestVerifyFindingRejectsWhenCodeDoesNotMatchDescription(t *testing.T) {
	mock := mockVerifierResponse(`{"verification_status":"rejected","code_exists":true,"code_matches_description":false,"reasoning":"different behavior"}`)
	f := findings.Finding{PatternID: "PS_001", Severity: findings.SeverityHigh}

	updated, keep := verifyFinding(context.Background(), mock, f, nil)
	if keep {
		t.Error("expected finding to be dropped")
	}
	if updated.VerificationStatus != findings.VerificationRejected {
		t.Errorf("expected rejected status, got %s", updated.VerificationStatus)
	}
}

func TestVerifyFindingDemotesOptInCritical(t *testing.T) {
	mock := mockVerifierResponse(`{"verification_status":"demoted","code_exists":true,"code_matches_description":true,"is_opt_in":true,"attack_scenario":"an attacker with config access","reasoning":"opt-in only"}`)
	f := findings.Finding{PatternID: "PS_001", Severity: findings.SeverityCritical}

	updated, keep := verifyFinding(context.Background(), mock, f, nil)
	if !keep {
		t.Fatal("expected finding to be kept")
	}
	if updated.VerificationStatus != findings.VerificationDemoted {
		t.Errorf("expected demoted status, got %s", updated.VerificationStatus)
	}
	if updated.Severity != findings.SeverityLow {
		t.Errorf("expected demotion to low, got %s", updated.Severity)
	}
	if updated.OriginalSeverity != findings.SeverityCritical {
		t.Errorf("expected original severity preserved as critical, got %s", updated.OriginalSeverity)
	}
}

func TestVerifyFindingDemotesNoAttackScenarioHigh(t *testing.T) {
	mock := mockVerifierResponse(`{"verification_status":"demoted","code_exists":true,"code_matches_description":true,"is_opt_in":false,"attack_scenario":"","reasoning":"no realistic exploitation path"}`)
	f := findings.Finding{PatternID: "PS_001", Severity: findings.SeverityHigh}

	updated, keep := verifyFinding(context.Background(), mock, f, nil)
	if !keep {
		t.Fatal("expected finding to be kept")
	}
	if updated.VerificationStatus != findings.VerificationDemoted {
		t.Errorf("expected demoted status, got %s", updated.VerificationStatus)
	}
	if updated.Severity != findings.SeverityMedium {
		t.Errorf("expected demotion to medium, got %s", updated.Severity)
	}
	if updated.OriginalSeverity != findings.SeverityHigh {
		t.Errorf("expected original severity preserved as high, got %s", updated.OriginalSeverity)
	}
}

func TestVerifyFindingVerifiesOtherwise(t *testing.T) {
	mock := mockVerifierResponse(`{"verification_status":"verified","verified_severity":"high","verified_confidence":"high","code_exists":true,"code_matches_description":true,"is_opt_in":false,"attack_scenario":"a malicious MCP client invokes the tool directly","reasoning":"confirmed"}`)
	f := findings.Finding{PatternID: "PS_001", Severity: findings.SeverityHigh}

	updated, keep := verifyFinding(context.Background(), mock, f, nil)
	if !keep {
		t.Fatal("expected finding to be kept")
	}
	if updated.VerificationStatus != findings.VerificationVerified {
		t.Errorf("expected verified status, got %s", updated.VerificationStatus)
	}
	if updated.Severity != findings.SeverityHigh {
		t.Errorf("expected severity unchanged at high, got %s", updated.Severity)
	}
}

func TestVerifyFindingMarksUnverifiedOnProviderError(t *testing.T) {
	mock := &MockProvider{Err: context.DeadlineExceeded}
	f := findings.Finding{PatternID: "PS_001", Severity: findings.SeverityMedium}

	updated, keep := verifyFinding(context.Background(), mock, f, nil)
	if !keep {
		t.Error("expected an unverified finding to still be kept")
	}
	if updated.VerificationStatus != findings.VerificationUnverified {
		t.Errorf("expected unverified status, got %s", updated.VerificationStatus)
	}
}

func TestRunVerificationRemovesRejectedFindings(t *testing.T) {
	fs := findings.NewFindingSet()
	fs.Add(findings.Finding{PatternID: "PS_001", Title: "bogus", Severity: findings.SeverityCritical})
	fs.Add(findings.Finding{PatternID: "PS_002", Title: "real", Severity: findings.SeverityHigh})

	mock := &MockProvider{Responses: []Response{
		{Content: `{"code_exists":false,"code_matches_description":false,"reasoning":"no such code"}`},
		{Content: `{"verification_status":"verified","verified_severity":"high","code_exists":true,"code_matches_description":true,"attack_scenario":"direct exploit","reasoning":"confirmed"}`},
	}}

	outcome := RunVerification(context.Background(), mock, "test-model", fs, []collector.FileEntry{})
	if outcome.Rejected != 1 {
		t.Errorf("expected 1 rejected, got %d", outcome.Rejected)
	}
	if outcome.Verified != 1 {
		t.Errorf("expected 1 verified, got %d", outcome.Verified)
	}
	if fs.Len() != 1 {
		t.Errorf("expected 1 finding to remain after removal, got %d", fs.Len())
	}
	if fs.Findings()[0].Title != "real" {
		t.Errorf("expected surviving finding to be 'real', got %s", fs.Findings()[0].Title)
	}
}

func TestManifestForFindsKnownManifest(t *testing.T) {
	files := []collector.FileEntry{
		{Path: "index.js", Content: "console.log(1)"},
		{Path: "package.json", Content: `{"name":"demo"}`},
	}
	if got := manifestFor(files); got != `{"name":"demo"}` {
		t.Errorf("expected package.json content, got %q", got)
	}
}

func TestFileTextForReturnsPlaceholderWhenAbsent(t *testing.T) {
	got := fileTextFor(nil, "missing.py")
	if got != "(file absent from the collected source tree)" {
		t.Errorf("unexpected placeholder text: %q", got)
	}
}
