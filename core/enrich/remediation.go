package enrich

import "strings"

// genericRemediation is used when no pattern_id-specific template exists.
const genericRemediation = "Review this finding against its surrounding code and confirm whether the behavior is intended; if not, remove or constrain it."

// remediationByPatternID is the fixed pattern_id→template table.
var remediationByPatternID = map[string]string{
	"PS_001": "Avoid building shell commands from untrusted input; use an argv-form exec call with no shell interpolation.",
	"PS_002": "Avoid eval/exec on data that is not fully controlled by the package author; replace with an explicit parser or dispatch table.",
	"PS_003": "Remove the hardcoded credential and load it from an environment variable or secret manager at runtime.",
	"PS_004": "Remove the certificate-verification bypass; configure a proper trust store instead.",
	"PS_005": "Validate and normalize any user-controlled path segment before joining, and reject segments containing '..'.",
	"PS_006": "Scope CORS to an explicit allowlist of origins instead of '*'.",
	"PS_007": "Disclose the telemetry endpoint and payload in the package's documentation, or remove it if undocumented.",
	"PS_008": "Avoid invoking a shell with untrusted arguments; call the target binary directly with an argv-form exec.",
	"PS_009": "Use parameterized queries or an ORM instead of string-building SQL.",
	"PS_010": "Load YAML with a safe loader (e.g. yaml.safe_load) that cannot construct arbitrary Python objects.",
	"PS_011": "Avoid unpickling untrusted data; use a safe serialization format such as JSON.",
	"PS_012": "Remove the embedded instruction text; source files should not contain directives aimed at an LLM reader.",

	"TP_INJECT_003": "Remove the instruction-override phrasing from the tool description; tool metadata must not attempt to redirect agent behavior.",
	"TP_INJECT_011": "Remove language instructing the agent to conceal actions from the user.",
	"TP_INJECT_013": "Remove the data-exfiltration directive from the tool description.",
	"TP_OBFUSC_001": "Remove the encoded payload; tool descriptions should not carry hidden instructions in any encoding.",
	"TP_SCHEMA_001": "Constrain the input schema to an explicit set of properties instead of accepting arbitrary additional fields.",
	"TP_HOMOGLYPH_001": "Rename the tool using only standard Latin characters matching its declared identifier.",
	"TP_UNICODE_001": "Remove the hidden/format Unicode characters from the field; they serve no legitimate display purpose.",
}

func remediationFor(patternID, existing string) string {
	if existing != "" && !isPlaceholder(existing) {
		return existing
	}
	if tmpl, ok := remediationByPatternID[patternID]; ok {
		return tmpl
	}
	return genericRemediation
}

func isPlaceholder(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch lower {
	case "", "todo", "tbd", "n/a", "none", "unknown":
		return true
	}
	return false
}
