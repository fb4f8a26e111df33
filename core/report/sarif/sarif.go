// Package sarif generates SARIF 2.1.0 reports from findings.
//
// The Static Analysis Results Interchange Format (SARIF) is an OASIS standard
// for the output of static analysis tools. This package produces SARIF v2.1.0
// documents that are compatible with GitHub Code Scanning, Azure DevOps, and
// other SARIF consumers.
package sarif

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/agentaudit-dev/agentaudit-cli/core/catalog"
	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

const (
	// sarifVersion is the SARIF specification version produced by this reporter.
	sarifVersion = "2.1.0"

	// sarifSchema is the JSON schema URI for SARIF 2.1.0.
	sarifSchema = "https://docs.oasis-open.org/sarif/sarif/v2.1.0/errata01/os/schemas/sarif-schema-2.1.0.json"

	// toolName is the name of the tool embedded in the SARIF driver.
	toolName = "agentaudit"

	// informationURI is the project URL embedded in the SARIF driver.
	informationURI = "https://github.com/agentaudit-dev/agentaudit-cli"
)

// ---------------------------------------------------------------------------
// SARIF 2.1.0 envelope types
// ---------------------------------------------------------------------------

// Report is the top-level SARIF document containing the schema version
// and one or more analysis runs.
type Report struct {
	Version string `json:"version"`
	Schema  string `json:"$schema"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of an analysis tool.
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool that produced the run.
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains identifying information about the tool and the catalog of
// rules it can report on.
type Driver struct {
	Name           string                `json:"name"`
	Version        string                `json:"version"`
	InformationURI string                `json:"informationUri"`
	Rules          []ReportingDescriptor `json:"rules"`
}

// ReportingDescriptor defines a single rule in the SARIF rule catalog.
type ReportingDescriptor struct {
	ID                   string              `json:"id"`
	Name                 string              `json:"name"`
	ShortDescription     Message             `json:"shortDescription"`
	FullDescription      *Message            `json:"fullDescription,omitempty"`
	Help                 *MultiformatMessage `json:"help,omitempty"`
	HelpURI              string              `json:"helpUri,omitempty"`
	DefaultConfiguration Configuration       `json:"defaultConfiguration"`
	Properties           Properties          `json:"properties,omitempty"`
}

// Properties carries the security-severity score GitHub Code Scanning uses
// to rank alerts, alongside the originating category.
type Properties struct {
	SecuritySeverity string   `json:"security-severity,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

// MultiformatMessage is a SARIF message that can carry both plain text and
// markdown representations.
type MultiformatMessage struct {
	Text     string `json:"text"`
	Markdown string `json:"markdown,omitempty"`
}

// Configuration holds the default severity level for a rule.
type Configuration struct {
	Level string `json:"level"`
}

// Message is a SARIF message object containing human-readable text.
type Message struct {
	Text string `json:"text"`
}

// Result is a single finding expressed in SARIF format.
type Result struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             Message           `json:"message"`
	Locations           []Location        `json:"locations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
	Fixes               []Fix             `json:"fixes,omitempty"`
	Suppressions        []Suppression     `json:"suppressions,omitempty"`
}

// Suppression records an in-source suppression, emitted for findings marked
// by_design: the finding is retained in the document but annotated as not
// contributing to the risk score.
type Suppression struct {
	Kind string `json:"kind"`
}

// Fix is a suggested remediation, carried as a text description rather than
// a structured patch since pattern-based findings cannot offer a safe
// automatic rewrite.
type Fix struct {
	Description Message `json:"description"`
}

// Location wraps a physical location within a source artifact.
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation identifies a file and region within that file.
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation is a URI reference to a source file.
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region identifies a contiguous area within an artifact.
type Region struct {
	StartLine int `json:"startLine,omitempty"`
}

// ---------------------------------------------------------------------------
// Reporter implementation
// ---------------------------------------------------------------------------

// securitySeverityByLevel maps a finding severity to the GitHub
// security-severity score.
var securitySeverityByLevel = map[findings.Severity]string{
	findings.SeverityCritical: "9.5",
	findings.SeverityHigh:     "8.0",
	findings.SeverityMedium:   "5.5",
	findings.SeverityLow:      "2.0",
	findings.SeverityWarning:  "0.5",
	findings.SeverityInfo:     "0.5",
}

// Reporter produces SARIF 2.1.0 documents from a FindingSet.
type Reporter struct {
	// ToolVersion is the version string embedded in the SARIF tool driver.
	ToolVersion string
}

// NewReporter returns a Reporter configured with the given tool version.
func NewReporter(version string) *Reporter {
	return &Reporter{ToolVersion: version}
}

// Generate builds a complete SARIF 2.1.0 JSON document from the given
// FindingSet. Findings are sorted deterministically before serialization to
// guarantee reproducible output. The returned bytes are pretty-printed JSON.
func (r *Reporter) Generate(fs *findings.FindingSet) ([]byte, error) {
	fs.SortDeterministic()
	items := fs.Findings()

	ruleCatalog, ruleIndex := r.buildRuleCatalog(items)

	results := make([]Result, 0, len(items))
	for _, f := range items {
		idx, ok := ruleIndex[f.PatternID]
		if !ok {
			idx = 0
		}

		result := Result{
			RuleID:    f.PatternID,
			RuleIndex: idx,
			Level:     severityToLevel(f.Severity),
			Message:   Message{Text: resultMessage(f)},
			PartialFingerprints: map[string]string{
				"primaryLocationLineHash": findings.ShortFingerprint(f.PatternID, f.File, f.Line, f.Title),
			},
		}

		if f.File != "" {
			result.Locations = []Location{
				{
					PhysicalLocation: PhysicalLocation{
						ArtifactLocation: ArtifactLocation{URI: f.File},
						Region:           Region{StartLine: f.Line},
					},
				},
			}
		}

		if f.Remediation != "" {
			result.Fixes = []Fix{{Description: Message{Text: f.Remediation}}}
		}

		if f.ByDesign {
			result.Suppressions = []Suppression{{Kind: "inSource"}}
		}

		results = append(results, result)
	}

	report := Report{
		Version: sarifVersion,
		Schema:  sarifSchema,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:           toolName,
						Version:        r.ToolVersion,
						InformationURI: informationURI,
						Rules:          ruleCatalog,
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// WriteToFile generates the SARIF report and writes it to the specified path
// with 0644 permissions. Parent directories must already exist.
func (r *Reporter) WriteToFile(fs *findings.FindingSet, path string) error {
	data, err := r.Generate(fs)
	if err != nil {
		return fmt.Errorf("sarif: generate report: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// resultMessage prefers the finding's description, falling back to its
// title when the scanner that produced it left description empty.
func resultMessage(f findings.Finding) string {
	if f.Description != "" {
		return f.Description
	}
	return f.Title
}

// severityToLevel maps a finding severity to the corresponding SARIF level
// string: critical/high to "error", medium/warning to "warning", low/info
// to "note".
func severityToLevel(s findings.Severity) string {
	switch s {
	case findings.SeverityCritical, findings.SeverityHigh:
		return "error"
	case findings.SeverityMedium, findings.SeverityWarning:
		return "warning"
	case findings.SeverityLow, findings.SeverityInfo:
		return "note"
	default:
		return "note"
	}
}

// buildRuleCatalog constructs the SARIF rules array and a map from
// pattern_id to its index within that array. Entries are sourced from the
// fixed rule catalog (core/catalog) when available, falling back to the
// finding's own title/description/category for any pattern_id the fixed
// catalog does not cover (e.g. an LLM-sourced C4 category).
func (r *Reporter) buildRuleCatalog(items []findings.Finding) ([]ReportingDescriptor, map[string]int) {
	fixed := catalog.Catalog()

	ids := make(map[string]struct{})
	for _, f := range items {
		ids[f.PatternID] = struct{}{}
	}

	sortedIDs := make([]string, 0, len(ids))
	for id := range ids {
		sortedIDs = append(sortedIDs, id)
	}
	sort.Strings(sortedIDs)

	byID := make(map[string]findings.Finding, len(items))
	for _, f := range items {
		if _, exists := byID[f.PatternID]; !exists {
			byID[f.PatternID] = f
		}
	}

	descriptors := make([]ReportingDescriptor, 0, len(sortedIDs))
	index := make(map[string]int, len(sortedIDs))

	for _, id := range sortedIDs {
		idx := len(descriptors)
		index[id] = idx

		if meta, ok := fixed[id]; ok {
			descriptors = append(descriptors, ReportingDescriptor{
				ID:   meta.PatternID,
				Name: meta.Title,
				ShortDescription: Message{
					Text: meta.Title,
				},
				DefaultConfiguration: Configuration{
					Level: severityToLevel(meta.Severity),
				},
				Properties: Properties{
					SecuritySeverity: securitySeverityByLevel[meta.Severity],
					Tags:             []string{string(meta.Category)},
				},
			})
			continue
		}

		f := byID[id]
		descriptors = append(descriptors, ReportingDescriptor{
			ID:   id,
			Name: f.Title,
			ShortDescription: Message{
				Text: f.Title,
			},
			FullDescription: &Message{Text: f.Description},
			DefaultConfiguration: Configuration{
				Level: severityToLevel(f.Severity),
			},
			Properties: Properties{
				SecuritySeverity: securitySeverityByLevel[f.Severity],
				Tags:             []string{string(f.Category)},
			},
		})
	}

	return descriptors, index
}
