// Package report assembles and serializes the audit Report: a canonical
// JSON document, plus SARIF 2.1.0 via the sarif subpackage.
package report

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

// TokenUsage records the LLM token counters carried on a Report, when C4
// ran.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// VerificationMeta records the optional adversarial verification pass's
// outcome counts and the model used to run it.
type VerificationMeta struct {
	Model      string `json:"model"`
	Verified   int    `json:"verified"`
	Demoted    int    `json:"demoted"`
	Rejected   int    `json:"rejected"`
	Unverified int    `json:"unverified"`
}

// Report is the top-level JSON document produced by C5.
type Report struct {
	RunID          string `json:"run_id"`
	SkillSlug      string `json:"skill_slug"`
	SourceURL      string `json:"source_url,omitempty"`
	PackageType    string `json:"package_type"`
	PackageVersion string `json:"package_version,omitempty"`
	AuditModel     string `json:"audit_model,omitempty"`
	AuditProvider  string `json:"audit_provider,omitempty"`
	CommitSHA      string `json:"commit_sha,omitempty"`
	SourceHash     string `json:"source_hash"`

	RiskScore     int                `json:"risk_score"`
	MaxSeverity   findings.Severity  `json:"max_severity"`
	Result        string             `json:"result"`
	FindingsCount int                `json:"findings_count"`
	Findings      []findings.Finding `json:"findings"`

	TokenUsage       *TokenUsage       `json:"token_usage,omitempty"`
	DurationMillis   int64             `json:"duration_ms,omitempty"`
	OutputTruncated  bool              `json:"output_truncated,omitempty"`
	Verification     *VerificationMeta `json:"verification,omitempty"`

	GeneratedAt string `json:"generated_at"`
	ToolVersion string `json:"tool_version"`
}

// Build assembles a Report from a finalized FindingSet and the score/result/
// max_severity already recomputed by core/enrich.
func Build(fs *findings.FindingSet, riskScore int, result string, maxSeverity findings.Severity) *Report {
	fs.SortDeterministic()
	f := fs.Findings()
	if f == nil {
		f = []findings.Finding{}
	}

	return &Report{
		RunID:         uuid.NewString(),
		RiskScore:     riskScore,
		MaxSeverity:   maxSeverity,
		Result:        result,
		FindingsCount: len(f),
		Findings:      f,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// DebugJSON renders the report with its findings array replaced by a count,
// for the --debug "show me the raw shape without the noise" preview. Uses
// sjson for a targeted field patch rather than re-marshaling a second
// struct variant.
func (r *Report) DebugJSON() ([]byte, error) {
	data, err := r.MarshalIndentJSON()
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(data, "findings", len(r.Findings))
}

// MarshalIndentJSON produces the canonical pretty-printed JSON report.
func (r *Report) MarshalIndentJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteToFile serializes the report to path with 0644 permissions. Parent
// directories must already exist.
func (r *Report) WriteToFile(path string) error {
	data, err := r.MarshalIndentJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
