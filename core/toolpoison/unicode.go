package toolpoison

import (
	"fmt"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

// hiddenCodePoints is the fixed dictionary of invisible/format code points
// checked here, excluding the tag-character range and the RTL override,
// which are handled separately because they carry their own severity rule.
var hiddenCodePoints = map[rune]string{
	'​': "zero-width space",
	'‌': "zero-width non-joiner",
	'‍': "zero-width joiner",
	'‎': "left-to-right mark",
	'‏': "right-to-left mark",
	'‪': "left-to-right embedding",
	'‫': "right-to-left embedding",
	'‬': "pop directional formatting",
	'⁠': "word joiner",
	'⁡': "invisible function application",
	'⁢': "invisible times",
	'⁣': "invisible separator",
	'⁤': "invisible plus",
	0xFEFF: "byte order mark",
	'￹': "interlinear annotation anchor",
	'￺': "interlinear annotation separator",
	'￻': "interlinear annotation terminator",
}

const rtlOverride = '‮' // right-to-left override

const (
	tagRangeStart = 0xE0020
	tagRangeEnd   = 0xE007E
	languageTag   = 0xE0001
	cancelTag     = 0xE007F
)

func isTagCharacter(r rune) bool {
	if r == languageTag || r == cancelTag {
		return true
	}
	return r >= tagRangeStart && r <= tagRangeEnd
}

// scanHiddenUnicode flags invisible or bidi-control code points in a
// single tool field.
func scanHiddenUnicode(field, text string) []findings.Finding {
	var offsets []int
	criticalHit := false

	runes := []rune(text)
	byteOffset := 0
	for _, r := range runes {
		size := len(string(r))
		isHidden := false
		if r == rtlOverride || isTagCharacter(r) {
			isHidden = true
			criticalHit = true
		} else if _, ok := hiddenCodePoints[r]; ok {
			isHidden = true
		}

		if isHidden {
			// A lone BOM at offset 0 is benign.
			if !(r == 0xFEFF && byteOffset == 0) {
				offsets = append(offsets, byteOffset)
			}
		}
		byteOffset += size
	}

	if len(offsets) == 0 {
		return nil
	}

	severity := severityForHiddenCount(len(offsets), criticalHit)

	return []findings.Finding{{
		PatternID:   "TP_UNICODE_001",
		Category:    findings.CategoryHiddenUnicode,
		Severity:    severity,
		Confidence:  findings.ConfidenceHigh,
		Title:       "Hidden Unicode characters in " + field,
		Description: fmt.Sprintf("The %s field contains %d hidden or format Unicode code point(s).", field, len(offsets)),
		Evidence:    formatOffsetEvidence(offsets),
	}}
}

func severityForHiddenCount(count int, criticalHit bool) findings.Severity {
	switch {
	case criticalHit:
		return findings.SeverityCritical
	case count > 3:
		return findings.SeverityHigh
	case count > 1:
		return findings.SeverityMedium
	default:
		return findings.SeverityWarning
	}
}

func formatOffsetEvidence(offsets []int) string {
	limit := offsets
	if len(limit) > 5 {
		limit = limit[:5]
	}
	strs := make([]string, len(limit))
	for i, o := range limit {
		strs[i] = fmt.Sprintf("%d", o)
	}
	return fmt.Sprintf("byte offsets [%s] (total count %d)", strings.Join(strs, ", "), len(offsets))
}
