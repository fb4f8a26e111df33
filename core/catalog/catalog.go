// Package catalog provides a central registry of all fixed rule metadata
// across the Pattern Scanner (C3) and the Tool-Poisoning Detector (C2),
// aggregated into a single lookup keyed by pattern_id.
package catalog

import (
	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
	"github.com/agentaudit-dev/agentaudit-cli/core/patterns"
	"github.com/agentaudit-dev/agentaudit-cli/core/toolpoison"
)

// RuleMeta is the extended metadata exposed for one pattern_id, independent
// of any single finding instance.
type RuleMeta struct {
	PatternID  string            `json:"pattern_id"`
	Category   findings.Category `json:"category"`
	Severity   findings.Severity `json:"severity"`
	Title      string            `json:"title"`
	CWE        string            `json:"cwe,omitempty"`
	Source     string            `json:"source"` // "pattern-scanner" or "tool-poisoning"
}

// Catalog returns the complete set of fixed rule metadata keyed by
// pattern_id.
func Catalog() map[string]RuleMeta {
	cat := make(map[string]RuleMeta)

	for _, r := range patterns.Rules() {
		cat[r.ID] = RuleMeta{
			PatternID: r.ID,
			Category:  r.Category,
			Severity:  r.Severity,
			Title:     r.Title,
			CWE:       r.CWEID,
			Source:    "pattern-scanner",
		}
	}

	for _, e := range toolpoison.Catalog() {
		cat[e.PatternID] = RuleMeta{
			PatternID: e.PatternID,
			Category:  e.Category,
			Severity:  e.Severity,
			Title:     e.Title,
			Source:    "tool-poisoning",
		}
	}

	return cat
}
