package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/core/collector"
	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

const maxVerifications = 10

const verifierSystemPrompt = `You are an adversarial verifier for a single security finding from another audit pass. You are skeptical by default: your job is to find reasons the finding is wrong, not to confirm it.

Given the finding, the full text of the file it cites (or a marker saying the file is absent), a listing of the package's files, and the package manifest, answer every field:
- verification_status: "verified", "demoted", or "rejected" (your overall call; the caller applies its own decision rules on top of the booleans below, so answer the booleans honestly even if you are unsure of the final status)
- verified_severity: the severity you believe is correct
- verified_confidence: "high", "medium", or "low"
- code_exists: does the cited file and line actually exist and contain code resembling the finding?
- code_matches_description: does that code actually do what the finding claims?
- is_opt_in: is the risky behavior only reachable behind an explicit flag, config value, or user action?
- is_core_functionality: is this the advertised, intended purpose of the package rather than a side effect?
- attack_scenario: a concrete one-sentence scenario of who exploits this and how, or an empty string if none exists
- rejection_reason: if you believe this should be rejected, why; otherwise empty
- reasoning: a short explanation of your overall judgement

Respond with ONLY a single JSON object containing exactly these fields, no markdown fences.`

// VerificationResult is the verifier's structured response to one finding.
type VerificationResult struct {
	VerificationStatus    string `json:"verification_status"`
	VerifiedSeverity      string `json:"verified_severity"`
	VerifiedConfidence    string `json:"verified_confidence"`
	CodeExists            bool   `json:"code_exists"`
	CodeMatchesDesc       bool   `json:"code_matches_description"`
	IsOptIn               bool   `json:"is_opt_in"`
	IsCoreFunctionality   bool   `json:"is_core_functionality"`
	AttackScenario        string `json:"attack_scenario"`
	RejectionReason       string `json:"rejection_reason"`
	Reasoning             string `json:"reasoning"`
}

// VerificationOutcome tallies what happened across one verification pass.
type VerificationOutcome struct {
	Model      string
	Verified   int
	Demoted    int
	Rejected   int
	Unverified int
}

var severityOrder = map[findings.Severity]int{
	findings.SeverityCritical: 0,
	findings.SeverityHigh:     1,
	findings.SeverityMedium:   2,
	findings.SeverityLow:      3,
	findings.SeverityWarning:  4,
	findings.SeverityInfo:     5,
}

// selectForVerification returns the indices into fs of up to
// maxVerifications findings, ordered critical-first then by original
// position as a stable tiebreak.
func selectForVerification(fs *findings.FindingSet) []int {
	items := fs.Findings()
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, oka := severityOrder[items[idx[a]].Severity]
		rb, okb := severityOrder[items[idx[b]].Severity]
		if !oka {
			ra = len(severityOrder)
		}
		if !okb {
			rb = len(severityOrder)
		}
		return ra < rb
	})
	if len(idx) > maxVerifications {
		idx = idx[:maxVerifications]
	}
	return idx
}

// manifestFor returns the content of the first root-level manifest found
// among package.json, pyproject.toml, setup.py, Cargo.toml and go.mod, or
// empty if none is present.
func manifestFor(files []collector.FileEntry) string {
	candidates := []string{"package.json", "pyproject.toml", "setup.py", "Cargo.toml", "go.mod"}
	for _, name := range candidates {
		for _, f := range files {
			if f.Path == name {
				return f.Content
			}
		}
	}
	return ""
}

func fileListing(files []collector.FileEntry) string {
	var b strings.Builder
	for _, f := range files {
		b.WriteString(f.Path)
		b.WriteByte('\n')
	}
	return b.String()
}

func fileTextFor(files []collector.FileEntry, path string) string {
	for _, f := range files {
		if f.Path == path {
			return f.Content
		}
	}
	return "(file absent from the collected source tree)"
}

func verifierUserMessage(f findings.Finding, files []collector.FileEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Finding:\n%s\n\n", mustJSON(f))
	fmt.Fprintf(&b, "Cited file (%s):\n```\n%s\n```\n\n", f.File, fileTextFor(files, f.File))
	fmt.Fprintf(&b, "File listing:\n%s\n\n", fileListing(files))
	fmt.Fprintf(&b, "Package manifest:\n```\n%s\n```\n", manifestFor(files))
	return b.String()
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}

// verifyFinding issues one verification call and applies the adversarial
// verification decision rules, returning the updated finding and whether it
// should be kept in the set.
func verifyFinding(ctx context.Context, p Provider, f findings.Finding, files []collector.FileEntry) (findings.Finding, bool) {
	messages := []Message{
		{Role: RoleSystem, Content: verifierSystemPrompt},
		{Role: RoleUser, Content: verifierUserMessage(f, files)},
	}

	resp, err := p.Complete(ctx, messages)
	if err != nil {
		f.VerificationStatus = findings.VerificationUnverified
		return f, true
	}

	candidate, ok := ExtractVerificationJSON(resp.Content)
	if !ok {
		f.VerificationStatus = findings.VerificationUnverified
		return f, true
	}

	var v VerificationResult
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		f.VerificationStatus = findings.VerificationUnverified
		return f, true
	}

	if !v.CodeExists || !v.CodeMatchesDesc {
		f.VerificationStatus = findings.VerificationRejected
		f.VerificationReasoning = v.Reasoning
		return f, false
	}

	original := f.Severity
	wasCriticalOrHigh := original == findings.SeverityCritical || original == findings.SeverityHigh

	switch {
	case v.IsOptIn && wasCriticalOrHigh:
		f.OriginalSeverity = original
		f.Severity = findings.SeverityLow
		f.VerificationStatus = findings.VerificationDemoted
	case v.AttackScenario == "" && wasCriticalOrHigh:
		f.OriginalSeverity = original
		f.Severity = findings.SeverityMedium
		f.VerificationStatus = findings.VerificationDemoted
	default:
		f.VerificationStatus = findings.VerificationVerified
		if sev := findings.Severity(v.VerifiedSeverity); sev.Valid() {
			f.Severity = sev
		}
	}

	if conf := findings.Confidence(v.VerifiedConfidence); conf.Valid() {
		f.VerifiedConfidence = conf
	}
	f.VerificationReasoning = v.Reasoning
	return f, true
}

// RunVerification executes the adversarial verification pass over fs's
// highest-severity findings, mutating fs in place (rejected findings
// removed, demoted/verified findings updated) and returning outcome counts.
// Calls are issued sequentially, in the deterministic order
// selectForVerification establishes.
func RunVerification(ctx context.Context, p Provider, verifierModel string, fs *findings.FindingSet, files []collector.FileEntry) VerificationOutcome {
	outcome := VerificationOutcome{Model: verifierModel}
	selected := selectForVerification(fs)
	items := fs.Findings()

	rejected := make(map[int]bool, len(selected))
	for _, i := range selected {
		updated, keep := verifyFinding(ctx, p, items[i], files)
		fs.Set(i, updated)
		switch updated.VerificationStatus {
		case findings.VerificationVerified:
			outcome.Verified++
		case findings.VerificationDemoted:
			outcome.Demoted++
		case findings.VerificationRejected:
			outcome.Rejected++
			rejected[i] = true
		default:
			outcome.Unverified++
		}
		if !keep {
			rejected[i] = true
		}
	}

	if len(rejected) > 0 {
		fs.RemoveRejected()
	}
	return outcome
}
