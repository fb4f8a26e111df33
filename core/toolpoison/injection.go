package toolpoison

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

// injectionPattern is one entry of the fixed instruction-injection pack:
// ~21 regular expressions, each with a stable id, a baseline severity, and a
// baseline confidence.
type injectionPattern struct {
	ID         string
	Regex      *regexp.Regexp
	Severity   findings.Severity
	Confidence findings.Confidence
	Title      string
}

var injectionPatterns = []injectionPattern{
	{"TP_INJECT_001", regexp.MustCompile(`(?i)<\s*important\s*>`), findings.SeverityHigh, findings.ConfidenceHigh, "Literal <IMPORTANT> directive marker"},
	{"TP_INJECT_002", regexp.MustCompile(`(?i)<\s*system\s*>`), findings.SeverityHigh, findings.ConfidenceHigh, "Literal <SYSTEM> directive marker"},
	{"TP_INJECT_003", regexp.MustCompile(`(?i)ignore\s+(all\s+|any\s+)?(previous|prior|above)\s+instructions?`), findings.SeverityCritical, findings.ConfidenceHigh, "Instruction-override phrasing"},
	{"TP_INJECT_004", regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|the)?`), findings.SeverityHigh, findings.ConfidenceMedium, "Role-hijack phrasing"},
	{"TP_INJECT_005", regexp.MustCompile(`(?i)[\{\[\(]\s*important\s*[\}\]\)]`), findings.SeverityHigh, findings.ConfidenceHigh, "Bracketed IMPORTANT directive marker"},
	{"TP_INJECT_006", regexp.MustCompile(`(?i)first\s+(run|call|execute|use|invoke)\b`), findings.SeverityHigh, findings.ConfidenceMedium, "Pre-action directive"},
	{"TP_INJECT_007", regexp.MustCompile(`(?i)you\s+must\s+(always\s+)?(call|use|invoke|run|execute)\b`), findings.SeverityHigh, findings.ConfidenceMedium, "Mandatory-action directive"},
	{"TP_INJECT_008", regexp.MustCompile(`(?i)\[\s*hidden\s*\]`), findings.SeverityMedium, findings.ConfidenceHigh, "Hidden-instruction label [HIDDEN]"},
	{"TP_INJECT_009", regexp.MustCompile(`(?i)\[\s*secret\s*\]`), findings.SeverityMedium, findings.ConfidenceHigh, "Hidden-instruction label [SECRET]"},
	{"TP_INJECT_010", regexp.MustCompile(`(?i)\[\s*internal\s*\]`), findings.SeverityMedium, findings.ConfidenceHigh, "Hidden-instruction label [INTERNAL]"},
	{"TP_INJECT_011", regexp.MustCompile(`(?i)(do\s+not|don'?t)\s+(tell|inform|let)\s+the\s+user\b`), findings.SeverityCritical, findings.ConfidenceHigh, "User-deception directive"},
	{"TP_INJECT_012", regexp.MustCompile(`(?i)\[\s*private\s*\]`), findings.SeverityMedium, findings.ConfidenceHigh, "Hidden-instruction label [PRIVATE]"},
	{"TP_INJECT_013", regexp.MustCompile(`(?i)(send|exfiltrate|upload|leak)\s+(all\s+)?(the\s+)?(conversation|data|history|messages)\b`), findings.SeverityCritical, findings.ConfidenceHigh, "Data-exfiltration directive"},
	{"TP_INJECT_014", regexp.MustCompile(`(?is)<!--.*?(important|ignore|must|system).*?-->`), findings.SeverityHigh, findings.ConfidenceMedium, "HTML-comment-wrapped directive"},
	{"TP_INJECT_015", regexp.MustCompile(`(?i)(display\s*:\s*none|visibility\s*:\s*hidden)`), findings.SeverityMedium, findings.ConfidenceLow, "CSS-hidden block directive"},
	{"TP_INJECT_016", regexp.MustCompile(`(?i)(bypass|disable)\s+(the\s+)?(security|safety)\s*(checks?|controls?)?`), findings.SeverityCritical, findings.ConfidenceHigh, "Security-bypass directive"},
	{"TP_INJECT_017", regexp.MustCompile(`(?i)(fetch\(|curl\s+https?://|wget\s+https?://|requests\.(get|post)\(\s*["']https?://)`), findings.SeverityMedium, findings.ConfidenceLow, "Embedded HTTP fetch verb"},
	{"TP_INJECT_018", regexp.MustCompile(`(?i)redirect\s+(all\s+)?(output|response|traffic)\s+to\b`), findings.SeverityHigh, findings.ConfidenceMedium, "Data-redirection verb"},
	{"TP_INJECT_019", regexp.MustCompile(`(?i)override\s+the\s+default\s+behaviou?r\b`), findings.SeverityMedium, findings.ConfidenceMedium, "Override-default verb"},
	{"TP_INJECT_020", regexp.MustCompile(`(?is)<details>.*?<summary>`), findings.SeverityMedium, findings.ConfidenceLow, "Collapsible-details hiding"},
	{"TP_INJECT_021", regexp.MustCompile("(?i)(\\$\\(.*\\)|`[^`]+`|;\\s*rm\\s+-rf\\b|&&\\s*curl\\s)"), findings.SeverityCritical, findings.ConfidenceMedium, "Shell-command literal"},
}

// evidenceWindow is the width of the context snippet recorded as evidence.
const evidenceWindow = 100

// scanInjection applies the fixed instruction-injection pack to text and
// emits one Finding per match, each carrying a 100-character context window.
func scanInjection(field, text string) []findings.Finding {
	var out []findings.Finding
	for _, p := range injectionPatterns {
		locs := p.Regex.FindAllStringIndex(text, -1)
		for _, loc := range locs {
			out = append(out, findings.Finding{
				PatternID:  p.ID,
				Category:   findings.CategoryInstructionInjection,
				Severity:   p.Severity,
				Confidence: p.Confidence,
				Title:      p.Title,
				Description: "An instruction-injection pattern was found in the " + field + " field.",
				Evidence:   contextWindow(text, loc[0], loc[1], evidenceWindow),
			})
		}
	}
	return out
}

// contextWindow returns up to width characters of text centered on
// [start,end), trimmed to rune boundaries.
func contextWindow(text string, start, end, width int) string {
	pad := (width - (end - start)) / 2
	if pad < 0 {
		pad = 0
	}
	lo := start - pad
	if lo < 0 {
		lo = 0
	}
	hi := end + pad
	if hi > len(text) {
		hi = len(text)
	}
	for lo < start && !utf8.RuneStart(text[lo]) {
		lo++
	}
	for hi > end && hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi--
	}
	snippet := text[lo:hi]
	return strings.TrimSpace(snippet)
}
