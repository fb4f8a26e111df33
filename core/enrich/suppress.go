package enrich

import (
	"path/filepath"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
	"github.com/agentaudit-dev/agentaudit-cli/internal/config"
)

// ApplySuppressions marks findings matching a configured suppression entry
// as by_design, zeroing their score_impact. A suppression
// matches when its PatternID equals the finding's PatternID (or is empty,
// matching any pattern) and its PathGlob matches the finding's File (or is
// empty, matching any file, including a finding with no file).
func ApplySuppressions(fs *findings.FindingSet, entries []config.SuppressionEntry) {
	if len(entries) == 0 {
		return
	}
	for i, f := range fs.Findings() {
		for _, entry := range entries {
			if !suppressionMatches(entry, f) {
				continue
			}
			f.ByDesign = true
			f.ScoreImpact = 0
			fs.Set(i, f)
			break
		}
	}
}

func suppressionMatches(entry config.SuppressionEntry, f findings.Finding) bool {
	if entry.PatternID != "" && entry.PatternID != f.PatternID {
		return false
	}
	if entry.PathGlob == "" {
		return true
	}
	if f.File == "" {
		return false
	}
	matched, err := filepath.Match(entry.PathGlob, f.File)
	return err == nil && matched
}
