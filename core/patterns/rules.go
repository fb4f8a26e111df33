// Package patterns implements the Pattern Scanner (C3): a small fixed rule
// pack run over each collected file's raw text, independent of any LLM call.
package patterns

import (
	"regexp"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

// Rule is one entry of the fixed ~12-rule pack.
type Rule struct {
	ID          string
	Category    findings.Category
	Severity    findings.Severity
	Confidence  findings.Confidence
	Title       string
	CWEID       string
	Pattern     *regexp.Regexp
	// Keywords is a lowercase literal substring pre-filter: if non-empty, the
	// rule's regex only runs against files whose lowercased content contains
	// at least one keyword. Every rule below that sets Keywords is checked
	// against its own regex to make sure the prefilter cannot discard a true
	// match — unlike the keyword hint the regex engine itself ignores.
	Keywords []string
}

// Rules returns the fixed pattern-scanner rule pack, for catalog aggregation
// and testing.
func Rules() []Rule {
	return builtinRules()
}

// builtinRules returns the fixed pattern-scanner rule pack.
func builtinRules() []Rule {
	return []Rule{
		{
			ID:         "PS_001",
			Category:   findings.CategoryInjection,
			Severity:   findings.SeverityHigh,
			Confidence: findings.ConfidenceMedium,
			Title:      "Command injection via tainted concatenation",
			CWEID:      "CWE-78",
			Pattern:    regexp.MustCompile(`(?i)\b(child_process\.(exec|spawn)|subprocess\.(Popen|call|run)|os\.system|exec\.Command)\s*\([^)]*\+`),
			Keywords:   []string{"exec", "spawn", "subprocess", "os.system"},
		},
		{
			ID:         "PS_002",
			Category:   findings.CategoryInjection,
			Severity:   findings.SeverityHigh,
			Confidence: findings.ConfidenceMedium,
			Title:      "Dynamic code evaluation",
			CWEID:      "CWE-95",
			Pattern:    regexp.MustCompile(`(?i)\b(eval|exec|new\s+Function)\s*\(`),
			Keywords:   []string{"eval", "exec", "function"},
		},
		{
			ID:         "PS_003",
			Category:   findings.CategorySecrets,
			Severity:   findings.SeverityHigh,
			Confidence: findings.ConfidenceMedium,
			Title:      "Hardcoded credential-shaped literal",
			CWEID:      "CWE-798",
			Pattern:    regexp.MustCompile(`(?i)\b(api[_-]?key|secret|password|token)\s*[:=]\s*["'][A-Za-z0-9_\-./+]{12,}["']`),
			Keywords:   []string{"key", "secret", "password", "token"},
		},
		{
			ID:         "PS_004",
			Category:   findings.CategoryCrypto,
			Severity:   findings.SeverityHigh,
			Confidence: findings.ConfidenceMedium,
			Title:      "Disabled TLS certificate verification",
			CWEID:      "CWE-295",
			Pattern:    regexp.MustCompile(`(?i)(InsecureSkipVerify\s*:\s*true|verify\s*=\s*False|rejectUnauthorized\s*:\s*false|NODE_TLS_REJECT_UNAUTHORIZED\s*=\s*['"]?0)`),
			Keywords:   []string{"insecureskipverify", "verify", "rejectunauthorized", "node_tls_reject_unauthorized"},
		},
		{
			ID:         "PS_005",
			Category:   findings.CategoryFilesystem,
			Severity:   findings.SeverityMedium,
			Confidence: findings.ConfidenceMedium,
			Title:      "Path traversal via concatenation",
			CWEID:      "CWE-22",
			Pattern:    regexp.MustCompile(`(?i)(os\.path\.join|path\.join|filepath\.Join)\s*\([^)]*(\.\.|request|req\.|user)`),
			Keywords:   []string{"path.join", "filepath.join"},
		},
		{
			ID:         "PS_006",
			Category:   findings.CategoryNetwork,
			Severity:   findings.SeverityMedium,
			Confidence: findings.ConfidenceMedium,
			Title:      "Wildcard CORS origin",
			CWEID:      "CWE-942",
			Pattern:    regexp.MustCompile(`(?i)(Access-Control-Allow-Origin["'\s,:=]*\*|origin\s*:\s*["']\*["'])`),
			Keywords:   []string{"access-control-allow-origin", "origin"},
		},
		{
			ID:         "PS_007",
			Category:   findings.CategoryPrivacy,
			Severity:   findings.SeverityMedium,
			Confidence: findings.ConfidenceLow,
			Title:      "Undisclosed telemetry endpoint",
			CWEID:      "CWE-359",
			Pattern:    regexp.MustCompile(`(?i)(posthog|segment\.io|mixpanel|amplitude|sentry\.io|telemetry)\.(init|capture|track|send)\s*\(`),
			Keywords:   []string{"posthog", "segment", "mixpanel", "amplitude", "sentry", "telemetry"},
		},
		{
			ID:         "PS_008",
			Category:   findings.CategoryInjection,
			Severity:   findings.SeverityHigh,
			Confidence: findings.ConfidenceMedium,
			Title:      "Raw shell execution primitive",
			CWEID:      "CWE-78",
			Pattern:    regexp.MustCompile(`(?i)\b(sh\s+-c|bash\s+-c|/bin/sh|exec\.Command\(\s*"(?:ba)?sh"\s*,\s*"-c")`),
			Keywords:   []string{"-c", "/bin/sh"},
		},
		{
			ID:         "PS_009",
			Category:   findings.CategoryInjection,
			Severity:   findings.SeverityHigh,
			Confidence: findings.ConfidenceMedium,
			Title:      "SQL built by string interpolation",
			CWEID:      "CWE-89",
			Pattern:    regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)\b[^;"']{0,80}["']\s*\+\s*\w|f["'](SELECT|INSERT|UPDATE|DELETE)\b`),
			Keywords:   []string{"select", "insert", "update", "delete"},
		},
		{
			ID:         "PS_010",
			Category:   findings.CategoryDeserialization,
			Severity:   findings.SeverityMedium,
			Confidence: findings.ConfidenceMedium,
			Title:      "Unsafe YAML deserialization",
			CWEID:      "CWE-502",
			Pattern:    regexp.MustCompile(`(?i)yaml\.(load|unsafe_load)\s*\(`),
			Keywords:   []string{"yaml.load", "yaml.unsafe_load"},
		},
		{
			ID:         "PS_011",
			Category:   findings.CategoryDeserialization,
			Severity:   findings.SeverityHigh,
			Confidence: findings.ConfidenceMedium,
			Title:      "Pickle deserialization of untrusted data",
			CWEID:      "CWE-502",
			Pattern:    regexp.MustCompile(`(?i)\bpickle\.(loads?|Unpickler)\s*\(`),
			Keywords:   []string{"pickle.load", "pickle.loads", "unpickler"},
		},
		{
			ID:         "PS_012",
			Category:   findings.CategoryPromptInjection,
			Severity:   findings.SeverityMedium,
			Confidence: findings.ConfidenceLow,
			Title:      "Prompt-injection marker in source text",
			CWEID:      "",
			Pattern:    regexp.MustCompile(`(?i)(ignore\s+(all\s+)?previous\s+instructions|you\s+are\s+now\s+in\s+\w+\s+mode|disregard\s+(the\s+)?system\s+prompt)`),
			Keywords:   []string{"ignore", "disregard", "you"},
		},
	}
}
