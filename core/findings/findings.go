// Package findings defines the canonical Finding model shared by every
// stage of the audit pipeline (C2, C3, C4) and mutated only by the
// verification pass and the enricher (C5).
package findings

import "sort"

// Severity indicates how critical a finding is, ordered from most to least
// severe and compatible with SARIF level mappings.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
	SeverityNone     Severity = "none"
)

// severityRank orders severities from most (0) to least severe, used for
// max_severity computation and deterministic verification ordering.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
	SeverityWarning:  4,
	SeverityInfo:     5,
}

// Valid reports whether s is one of the closed severity values.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// Confidence expresses certainty that a finding is a true positive.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Valid reports whether c is one of the closed confidence values.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// VerificationStatus reflects the outcome of the optional adversarial
// verification pass C4 runs.
type VerificationStatus string

const (
	VerificationUnset      VerificationStatus = "unset"
	VerificationVerified   VerificationStatus = "verified"
	VerificationDemoted    VerificationStatus = "demoted"
	VerificationRejected   VerificationStatus = "rejected"
	VerificationUnverified VerificationStatus = "unverified"
)

// Category is a tag from the closed set declared below, with an open door
// for LLM-produced tags (C4 output is not restricted to this set at parse
// time; C5 does not reject unknown categories).
type Category string

const (
	CategoryHiddenUnicode          Category = "hidden_unicode"
	CategoryInstructionInjection   Category = "instruction_injection"
	CategoryObfuscatedPayload      Category = "obfuscated_payload"
	CategoryExcessiveLength        Category = "excessive_length"
	CategoryCrossToolManipulation  Category = "cross_tool_manipulation"
	CategoryHomoglyph              Category = "homoglyph"
	CategorySuspiciousURL          Category = "suspicious_url"
	CategorySchemaManipulation     Category = "schema_manipulation"
	CategoryInjection              Category = "injection"
	CategorySecrets                Category = "secrets"
	CategoryCrypto                 Category = "crypto"
	CategoryFilesystem             Category = "filesystem"
	CategoryNetwork                Category = "network"
	CategoryPrivacy                Category = "privacy"
	CategoryDeserialization        Category = "deserialization"
	CategoryPromptInjection        Category = "prompt-injection"
)

// Finding is the immutable-by-convention record produced by C2/C3/C4 and
// mutated only by the verification pass and the enricher. Go has no
// language-level immutability; callers obey the convention that a Finding in
// a FindingSet is replaced wholesale, never mutated through a stale pointer.
type Finding struct {
	PatternID   string   `json:"pattern_id"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Confidence  Confidence `json:"confidence"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Evidence    string `json:"evidence,omitempty"`

	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Content string `json:"content,omitempty"`

	CWEID       string `json:"cwe_id,omitempty"`
	Remediation string `json:"remediation,omitempty"`

	ByDesign    bool `json:"by_design"`
	ScoreImpact int  `json:"score_impact"`

	VerificationStatus   VerificationStatus `json:"verification_status,omitempty"`
	OriginalSeverity     Severity           `json:"original_severity,omitempty"`
	VerifiedConfidence   Confidence         `json:"verified_confidence,omitempty"`
	VerificationReasoning string           `json:"verification_reasoning,omitempty"`

	// fingerprint is lazily computed by FindingSet.Add and cached here for
	// dedup and SARIF partialFingerprints reuse.
	fingerprint string
}

// Fingerprint returns the finding's stable dedup key, computing it on first
// access if the finding was constructed outside a FindingSet.
func (f *Finding) Fingerprint() string {
	if f.fingerprint == "" {
		f.fingerprint = ComputeFingerprint(f.PatternID, f.File, f.Line, f.Title)
	}
	return f.fingerprint
}

// FindingSet is an ordered, deduplicated collection of findings — the
// primary structure passed between pipeline stages.
type FindingSet struct {
	items []Finding
}

// NewFindingSet returns an empty FindingSet ready for use.
func NewFindingSet() *FindingSet {
	return &FindingSet{}
}

// Add appends a finding, computing its fingerprint if unset.
func (fs *FindingSet) Add(f Finding) {
	if f.fingerprint == "" {
		f.fingerprint = ComputeFingerprint(f.PatternID, f.File, f.Line, f.Title)
	}
	fs.items = append(fs.items, f)
}

// AddAll appends every finding in ff, preserving order.
func (fs *FindingSet) AddAll(ff []Finding) {
	for i := range ff {
		fs.Add(ff[i])
	}
}

// Deduplicate removes findings sharing a fingerprint, keeping the first
// occurrence. Call after all findings are added and before scoring.
func (fs *FindingSet) Deduplicate() {
	seen := make(map[string]struct{}, len(fs.items))
	unique := make([]Finding, 0, len(fs.items))
	for i := range fs.items {
		f := fs.items[i]
		fp := f.Fingerprint()
		if _, exists := seen[fp]; exists {
			continue
		}
		seen[fp] = struct{}{}
		unique = append(unique, f)
	}
	fs.items = unique
}

// SortDeterministic orders findings by PatternID, then File, then Line.
// C2/C3/C4 each emit findings in their own deterministic order; this sort is
// applied only by C5, after all producers have run, as a final tiebreak for
// byte-identical reports.
func (fs *FindingSet) SortDeterministic() {
	sort.SliceStable(fs.items, func(i, j int) bool {
		a, b := fs.items[i], fs.items[j]
		if a.PatternID != b.PatternID {
			return a.PatternID < b.PatternID
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
}

// RemoveRejected drops findings whose VerificationStatus is
// VerificationRejected, used by the verification pass.
func (fs *FindingSet) RemoveRejected() {
	kept := make([]Finding, 0, len(fs.items))
	for i := range fs.items {
		if fs.items[i].VerificationStatus == VerificationRejected {
			continue
		}
		kept = append(kept, fs.items[i])
	}
	fs.items = kept
}

// Findings returns the current slice. Callers must not mutate it in place;
// use Set to replace an entry by index.
func (fs *FindingSet) Findings() []Finding {
	return fs.items
}

// Set replaces the finding at index i (used by the verification pass and
// the enricher to apply in-place mutations).
func (fs *FindingSet) Set(i int, f Finding) {
	if i >= 0 && i < len(fs.items) {
		fs.items[i] = f
	}
}

// Len returns the number of findings currently in the set.
func (fs *FindingSet) Len() int { return len(fs.items) }

// MaxSeverity returns the highest severity present, or SeverityNone if fs is
// empty.
func (fs *FindingSet) MaxSeverity() Severity {
	best := SeverityNone
	bestRank := len(severityRank)
	for i := range fs.items {
		r, ok := severityRank[fs.items[i].Severity]
		if ok && r < bestRank {
			bestRank = r
			best = fs.items[i].Severity
		}
	}
	return best
}
