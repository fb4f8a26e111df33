package toolpoison

import "github.com/agentaudit-dev/agentaudit-cli/core/findings"

// CatalogEntry documents one pattern_id emitted by this package, for
// aggregation into the rule catalog. Unlike core/patterns, these checks are
// procedural rather than table-driven, so the catalog is assembled by hand
// here rather than derived from a shared rule slice.
type CatalogEntry struct {
	PatternID string
	Category  findings.Category
	Severity  findings.Severity
	Title     string
}

// Catalog returns metadata for every pattern_id this detector can emit.
// Entries whose severity varies by context (e.g. TP_HOMOGLYPH_002, whose
// severity depends on match count and field) list the baseline severity.
func Catalog() []CatalogEntry {
	var out []CatalogEntry

	for _, p := range injectionPatterns {
		out = append(out, CatalogEntry{p.ID, findings.CategoryInstructionInjection, p.Severity, p.Title})
	}
	for _, p := range crossToolPatterns {
		out = append(out, CatalogEntry{p.ID, findings.CategoryCrossToolManipulation, p.Severity, p.Title})
	}

	out = append(out,
		CatalogEntry{"TP_UNICODE_001", findings.CategoryHiddenUnicode, findings.SeverityHigh, "Hidden Unicode characters"},
		CatalogEntry{"TP_OBFUSC_001", findings.CategoryObfuscatedPayload, findings.SeverityCritical, "Encoded payload decodes to an injection pattern"},
		CatalogEntry{"TP_OBFUSC_002", findings.CategoryObfuscatedPayload, findings.SeverityMedium, "Unusual encoded content"},
		CatalogEntry{"TP_LENGTH_001", findings.CategoryExcessiveLength, findings.SeverityWarning, "Long tool description"},
		CatalogEntry{"TP_LENGTH_002", findings.CategoryExcessiveLength, findings.SeverityInfo, "Tool has no description"},
		CatalogEntry{"TP_LENGTH_003", findings.CategoryExcessiveLength, findings.SeverityWarning, "Description length is a statistical outlier"},
		CatalogEntry{"TP_CROSSTOOL_007", findings.CategoryCrossToolManipulation, findings.SeverityHigh, "Duplicate tool name"},
		CatalogEntry{"TP_CROSSTOOL_008", findings.CategoryCrossToolManipulation, findings.SeverityHigh, "Action verb adjacent to a sibling tool name"},
		CatalogEntry{"TP_HOMOGLYPH_001", findings.CategoryHomoglyph, findings.SeverityCritical, "Tool name consists entirely of homoglyph characters"},
		CatalogEntry{"TP_HOMOGLYPH_002", findings.CategoryHomoglyph, findings.SeverityHigh, "Mixed-script homoglyph characters"},
		CatalogEntry{"TP_URL_001", findings.CategorySuspiciousURL, findings.SeverityHigh, "Tunnel or interception host referenced"},
		CatalogEntry{"TP_URL_002", findings.CategorySuspiciousURL, findings.SeverityMedium, "External URL outside the allowlist"},
		CatalogEntry{"TP_SCHEMA_001", findings.CategorySchemaManipulation, findings.SeverityHigh, "Unconstrained input schema"},
		CatalogEntry{"TP_SCHEMA_002", findings.CategorySchemaManipulation, findings.SeverityHigh, "Enum value contains an instruction-injection pattern"},
		CatalogEntry{"TP_SCHEMA_003", findings.CategorySchemaManipulation, findings.SeverityCritical, "Suspicious default value"},
	)

	return out
}
