package patterns

import (
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/core/collector"
	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

// snippetWidth bounds the recorded match snippet, matching the
// evidence-trimming convention used elsewhere in the pipeline.
const snippetWidth = 120

// Scanner runs the fixed rule pack against collected file content.
type Scanner struct {
	rules []Rule
}

// New returns a Scanner loaded with the builtin rule pack.
func New() *Scanner {
	return &Scanner{rules: builtinRules()}
}

// ScanFiles runs every rule against every file and returns the combined
// findings in file-then-rule order.
func (s *Scanner) ScanFiles(files []collector.FileEntry) []findings.Finding {
	var out []findings.Finding
	for _, f := range files {
		out = append(out, s.ScanFile(f.Path, f.Content)...)
	}
	return out
}

// ScanFile runs every applicable rule against a single file's content.
// Matches record 1-based line numbers derived by counting newlines before
// the match offset.
func (s *Scanner) ScanFile(path, content string) []findings.Finding {
	var out []findings.Finding
	lower := strings.ToLower(content)

	for _, rule := range s.rules {
		if len(rule.Keywords) > 0 && !containsAnyKeyword(lower, rule.Keywords) {
			continue
		}

		locs := rule.Pattern.FindAllStringIndex(content, -1)
		for _, loc := range locs {
			line := lineNumber(content, loc[0])
			out = append(out, findings.Finding{
				PatternID:   rule.ID,
				Category:    rule.Category,
				Severity:    rule.Severity,
				Confidence:  rule.Confidence,
				Title:       rule.Title,
				Description: rule.Title + " detected by pattern scanner.",
				Evidence:    snippet(content, loc[0], loc[1]),
				File:        path,
				Line:        line,
				Content:     snippet(content, loc[0], loc[1]),
				CWEID:       rule.CWEID,
			})
		}
	}
	return out
}

func containsAnyKeyword(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// lineNumber returns the 1-based line containing byte offset.
func lineNumber(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(content[:offset], "\n") + 1
}

func snippet(content string, start, end int) string {
	pad := (snippetWidth - (end - start)) / 2
	if pad < 0 {
		pad = 0
	}
	lo := start - pad
	if lo < 0 {
		lo = 0
	}
	hi := end + pad
	if hi > len(content) {
		hi = len(content)
	}
	return strings.TrimSpace(content[lo:hi])
}
