package toolpoison

import (
	"fmt"
	"unicode"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

// cyrillicToLatin and greekToLatin are the two fixed lookalike maps,
// covering the common visually-confusable ranges.
var cyrillicToLatin = map[rune]rune{
	'а': 'a', 'е': 'e', 'о': 'o', 'р': 'p', 'с': 'c', 'у': 'y', 'х': 'x',
	'і': 'i', 'ј': 'j', 'ѕ': 's', 'А': 'A', 'В': 'B', 'Е': 'E', 'К': 'K',
	'М': 'M', 'Н': 'H', 'О': 'O', 'Р': 'P', 'С': 'C', 'Т': 'T', 'Х': 'X',
}

var greekToLatin = map[rune]rune{
	'α': 'a', 'ο': 'o', 'ρ': 'p', 'υ': 'u', 'τ': 't', 'ν': 'v', 'κ': 'k',
	'Α': 'A', 'Β': 'B', 'Ε': 'E', 'Ζ': 'Z', 'Η': 'H', 'Ι': 'I', 'Κ': 'K',
	'Μ': 'M', 'Ν': 'N', 'Ο': 'O', 'Ρ': 'P', 'Τ': 'T', 'Χ': 'X', 'Υ': 'Y',
}

func homoglyphLatin(r rune) (rune, bool) {
	if latin, ok := cyrillicToLatin[r]; ok {
		return latin, true
	}
	if latin, ok := greekToLatin[r]; ok {
		return latin, true
	}
	return 0, false
}

// scanHomoglyph detects non-Latin lookalike characters mixed into or
// standing in for a single tool field.
func scanHomoglyph(field, text string, isName bool) []findings.Finding {
	var pseudonym []rune
	homoglyphCount := 0
	hasLatin := false
	allLookalike := len([]rune(text)) > 0

	for _, r := range text {
		if latin, ok := homoglyphLatin(r); ok {
			homoglyphCount++
			pseudonym = append(pseudonym, latin)
			continue
		}
		allLookalike = false
		pseudonym = append(pseudonym, r)
		if unicode.IsLetter(r) && r < unicode.MaxASCII {
			hasLatin = true
		}
	}

	if homoglyphCount == 0 {
		return nil
	}

	if isName && allLookalike {
		return []findings.Finding{{
			PatternID:   "TP_HOMOGLYPH_001",
			Category:    findings.CategoryHomoglyph,
			Severity:    findings.SeverityCritical,
			Confidence:  findings.ConfidenceHigh,
			Title:       "Tool name consists entirely of homoglyph characters",
			Description: fmt.Sprintf("The %s field is composed entirely of non-Latin lookalike characters; reconstructed Latin pseudonym: %q.", field, string(pseudonym)),
			Evidence:    string(pseudonym),
		}}
	}

	if !hasLatin {
		return nil
	}

	severity := findings.SeverityHigh
	if homoglyphCount > 5 || isName {
		severity = findings.SeverityCritical
	}

	return []findings.Finding{{
		PatternID:   "TP_HOMOGLYPH_002",
		Category:    findings.CategoryHomoglyph,
		Severity:    severity,
		Confidence:  findings.ConfidenceHigh,
		Title:       "Mixed-script homoglyph characters in " + field,
		Description: fmt.Sprintf("The %s field mixes Latin letters with %d non-Latin lookalike character(s).", field, homoglyphCount),
		Evidence:    fmt.Sprintf("reconstructed: %q", string(pseudonym)),
	}}
}
