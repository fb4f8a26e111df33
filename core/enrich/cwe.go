package enrich

// cweBackstop is used when a finding carries no CWE and no table entry
// matches its pattern_id: CWE-693, Protection Mechanism Failure, the
// closest generic fit for a heuristic security finding of unknown precise
// weakness class.
const cweBackstop = "CWE-693"

// cweByPatternID is the fixed pattern_id→CWE table. Entries not listed here
// fall back to cweBackstop.
var cweByPatternID = map[string]string{
	"PS_001": "CWE-78",
	"PS_002": "CWE-95",
	"PS_003": "CWE-798",
	"PS_004": "CWE-295",
	"PS_005": "CWE-22",
	"PS_006": "CWE-942",
	"PS_007": "CWE-359",
	"PS_008": "CWE-78",
	"PS_009": "CWE-89",
	"PS_010": "CWE-502",
	"PS_011": "CWE-502",

	"TP_INJECT_003": "CWE-77",
	"TP_INJECT_011": "CWE-77",
	"TP_INJECT_013": "CWE-200",
	"TP_INJECT_016": "CWE-693",
	"TP_INJECT_021": "CWE-78",

	"TP_OBFUSC_001": "CWE-506",
	"TP_OBFUSC_002": "CWE-506",

	"TP_SCHEMA_001": "CWE-20",
	"TP_SCHEMA_002": "CWE-77",
	"TP_SCHEMA_003": "CWE-77",

	"TP_URL_001": "CWE-918",
	"TP_URL_002": "CWE-918",

	"TP_HOMOGLYPH_001": "CWE-1007",
	"TP_HOMOGLYPH_002": "CWE-1007",

	"TP_UNICODE_001": "CWE-451",
}

// cweFor resolves the CWE for a finding that did not already carry one.
func cweFor(patternID string) string {
	if cwe, ok := cweByPatternID[patternID]; ok {
		return cwe
	}
	return cweBackstop
}
