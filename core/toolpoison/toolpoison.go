// Package toolpoison implements the Tool-Poisoning Detector (C2): eight
// fixed-rule categories run against a package's collected Tool Definitions,
// independent of any LLM call.
package toolpoison

import (
	"github.com/agentaudit-dev/agentaudit-cli/core/collector"
	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

// truncationCap bounds the text handed to the per-field scanners so a
// single pathological field cannot blow up regex or decode work.
const truncationCap = 50000

// Summary is the batch-level rollup returned alongside the raw findings.
type Summary struct {
	ToolsScanned     int
	CountsBySeverity map[findings.Severity]int
	CountsByCategory map[findings.Category]int
	RiskLevel        findings.Severity
	Clean            bool
	Disclaimer       string
}

const disclaimerText = "Tool-poisoning detection is pattern-based and heuristic; absence of findings is not proof of safety."

// Detect runs all eight categories against tools and returns the combined
// findings plus a batch summary. Per-tool checks run in collection order;
// cross-tool and length-outlier checks run once over the whole batch.
func Detect(tools []collector.ToolDefinition) ([]findings.Finding, Summary) {
	var all []findings.Finding

	names := make([]string, len(tools))
	descriptions := make([]string, len(tools))
	lengths := make([]int, len(tools))

	for i, t := range tools {
		names[i] = t.Name
		descriptions[i] = t.Description
		lengths[i] = len(t.Description)

		all = append(all, scanTool(t)...)
	}

	all = append(all, scanCrossToolBatch(names, descriptions)...)
	all = append(all, scanLengthOutliers(names, lengths)...)

	summary := summarize(all, len(tools))
	return all, summary
}

// scanTool runs every per-tool category (everything except cross-tool batch
// duplication and length-outlier z-scores) against a single definition.
func scanTool(t collector.ToolDefinition) []findings.Finding {
	var out []findings.Finding

	name := truncate(t.Name)
	description := truncate(t.Description)

	out = append(out, scanHiddenUnicode("name", name)...)
	out = append(out, scanHiddenUnicode("description", description)...)

	out = append(out, scanInjection("description", description)...)

	out = append(out, scanObfuscated("description", description)...)

	out = append(out, scanDescriptionLength(t.Name, t.Description)...)

	out = append(out, scanCrossToolSingle("description", description)...)

	out = append(out, scanHomoglyph("name", name, true)...)
	out = append(out, scanHomoglyph("description", description, false)...)

	out = append(out, scanSuspiciousURL("description", description)...)

	out = append(out, scanSchema(t.Name, t.InputSchema)...)

	return out
}

func truncate(s string) string {
	if len(s) <= truncationCap {
		return s
	}
	return s[:truncationCap]
}

func summarize(all []findings.Finding, toolCount int) Summary {
	s := Summary{
		ToolsScanned:     toolCount,
		CountsBySeverity: map[findings.Severity]int{},
		CountsByCategory: map[findings.Category]int{},
		Disclaimer:       disclaimerText,
	}

	for _, f := range all {
		s.CountsBySeverity[f.Severity]++
		s.CountsByCategory[f.Category]++
	}

	s.RiskLevel = riskLevelFor(s.CountsBySeverity)
	s.Clean = len(all) == 0
	return s
}

func riskLevelFor(counts map[findings.Severity]int) findings.Severity {
	switch {
	case counts[findings.SeverityCritical] > 0:
		return findings.SeverityCritical
	case counts[findings.SeverityHigh] > 0:
		return findings.SeverityHigh
	case counts[findings.SeverityMedium] > 0:
		return findings.SeverityMedium
	case counts[findings.SeverityWarning] > 0 || counts[findings.SeverityLow] > 0:
		return findings.SeverityWarning
	default:
		return findings.SeverityNone
	}
}
