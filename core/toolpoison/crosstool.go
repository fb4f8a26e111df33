package toolpoison

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

// crossToolPatterns covers the generic exclusivity/priority/replace-override
// constructions that do not require knowledge of sibling tool names.
var crossToolPatterns = []injectionPattern{
	{"TP_CROSSTOOL_001", regexp.MustCompile(`(?i)\b(before|after)\s+(using|calling|invoking|running)\s+(any\s+)?other\s+tools?\b`), findings.SeverityHigh, findings.ConfidenceMedium, "Before/after ordering directive referencing other tools"},
	{"TP_CROSSTOOL_002", regexp.MustCompile(`(?i)\binstead\s+of\s+(using|calling)\b`), findings.SeverityHigh, findings.ConfidenceMedium, "Instead-of substitution directive"},
	{"TP_CROSSTOOL_003", regexp.MustCompile(`(?i)\b(always|only)\s+use\s+this\s+tool\b`), findings.SeverityHigh, findings.ConfidenceMedium, "Exclusivity directive"},
	{"TP_CROSSTOOL_004", regexp.MustCompile(`(?i)\b(overrides?|replaces?)\s+(the\s+)?(other|default|previous)\s+tools?\b`), findings.SeverityHigh, findings.ConfidenceMedium, "Replace/override directive"},
	{"TP_CROSSTOOL_005", regexp.MustCompile(`(?i)\b(run|call|use|invoke)\s+this\s+(tool\s+)?before\s+(any\s+)?(other\s+)?tools?\b`), findings.SeverityCritical, findings.ConfidenceHigh, "Run-before-any-other-tool directive"},
	{"TP_CROSSTOOL_006", regexp.MustCompile(`(?i)\b(most|highest)\s+priorit(y|ize)\b`), findings.SeverityMedium, findings.ConfidenceLow, "Priority-adverb adjacency"},
}

// scanCrossToolSingle applies the generic priority/exclusivity/replace
// patterns to a single tool's description, independent of its siblings.
func scanCrossToolSingle(field, text string) []findings.Finding {
	var out []findings.Finding
	for _, p := range crossToolPatterns {
		locs := p.Regex.FindAllStringIndex(text, -1)
		for _, loc := range locs {
			out = append(out, findings.Finding{
				PatternID:   p.ID,
				Category:    findings.CategoryCrossToolManipulation,
				Severity:    p.Severity,
				Confidence:  p.Confidence,
				Title:       p.Title,
				Description: "A cross-tool manipulation pattern was found in the " + field + " field.",
				Evidence:    contextWindow(text, loc[0], loc[1], evidenceWindow),
			})
		}
	}
	return out
}

// scanCrossToolBatch flags direct references to a sibling tool's name
// adjacent to an action verb, and duplicate tool names within the same
// collection.
func scanCrossToolBatch(names []string, descriptions []string) []findings.Finding {
	var out []findings.Finding

	seen := map[string]int{}
	for _, n := range names {
		seen[n]++
	}
	for name, count := range seen {
		if count > 1 {
			out = append(out, findings.Finding{
				PatternID:   "TP_CROSSTOOL_007",
				Category:    findings.CategoryCrossToolManipulation,
				Severity:    findings.SeverityHigh,
				Confidence:  findings.ConfidenceHigh,
				Title:       "Duplicate tool name",
				Description: fmt.Sprintf("The tool name %q is declared %d times in the same collection.", name, count),
			})
		}
	}

	for i, desc := range descriptions {
		lower := strings.ToLower(desc)
		for j, other := range names {
			if i == j || len(other) < 3 {
				continue
			}
			idx := strings.Index(lower, strings.ToLower(other))
			if idx < 0 {
				continue
			}
			window := contextWindow(desc, idx, idx+len(other), evidenceWindow)
			if actionVerbAdjacent.MatchString(window) {
				out = append(out, findings.Finding{
					PatternID:   "TP_CROSSTOOL_008",
					Category:    findings.CategoryCrossToolManipulation,
					Severity:    findings.SeverityHigh,
					Confidence:  findings.ConfidenceMedium,
					Title:       "Action verb adjacent to a sibling tool name",
					Description: fmt.Sprintf("The description of %s references the sibling tool %q alongside an action verb.", names[i], other),
					Evidence:    window,
				})
			}
		}
	}

	return out
}

var actionVerbAdjacent = regexp.MustCompile(`(?i)\b(call|use|invoke|run|instead|before|after|replace|override|ignore|disable)\b`)
