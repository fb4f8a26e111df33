package policy

import (
	"testing"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

func TestEvaluateCleanIsExitZero(t *testing.T) {
	r := Evaluate(Config{}, 0, findings.SeverityNone)
	if !r.Pass || r.ExitCode != 0 {
		t.Errorf("expected pass/exit 0 for clean report, got %+v", r)
	}
}

func TestEvaluateNoThresholdAnyFindingFails(t *testing.T) {
	r := Evaluate(Config{}, 1, findings.SeverityLow)
	if r.Pass || r.ExitCode != 1 {
		t.Errorf("expected fail/exit 1 with no threshold and a retained finding, got %+v", r)
	}
}

func TestEvaluateWithThreshold(t *testing.T) {
	cases := []struct {
		name     string
		maxSev   findings.Severity
		wantPass bool
	}{
		{"below threshold passes", findings.SeverityLow, true},
		{"at threshold fails", findings.SeverityHigh, false},
		{"above threshold fails", findings.SeverityCritical, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Evaluate(Config{FailOn: findings.SeverityHigh}, 3, tc.maxSev)
			if r.Pass != tc.wantPass {
				t.Errorf("expected pass=%v, got %+v", tc.wantPass, r)
			}
		})
	}
}
