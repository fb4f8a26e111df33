package toolpoison

import (
	"fmt"
	"regexp"

	"github.com/agentaudit-dev/agentaudit-cli/core/collector"
	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

var shellMetacharacters = regexp.MustCompile("[<>{}`$|;]")

// scanSchema runs the four schema-manipulation sub-checks against a tool's
// input schema.
func scanSchema(toolName string, schema collector.InputSchema) []findings.Finding {
	var out []findings.Finding

	if schema.AdditionalProperties && len(schema.Properties) == 0 {
		out = append(out, findings.Finding{
			PatternID:   "TP_SCHEMA_001",
			Category:    findings.CategorySchemaManipulation,
			Severity:    findings.SeverityHigh,
			Confidence:  findings.ConfidenceHigh,
			Title:       "Unconstrained input schema",
			Description: fmt.Sprintf("Tool %s declares additionalProperties=true with no declared properties, accepting arbitrary input.", toolName),
		})
	}

	for name, prop := range schema.Properties {
		out = append(out, scanSchemaProperty(toolName, name, prop)...)
	}

	return out
}

func scanSchemaProperty(toolName, propName string, prop collector.Property) []findings.Finding {
	var out []findings.Finding
	field := fmt.Sprintf("%s.%s description", toolName, propName)

	out = append(out, scanHiddenUnicode(field, prop.Description)...)
	out = append(out, scanInjection(field, prop.Description)...)
	out = append(out, scanHomoglyph(field, prop.Description, false)...)

	if def, ok := prop.Default.(string); ok && def != "" {
		out = append(out, scanSuspiciousDefault(toolName, propName, def)...)
	}

	for _, e := range prop.Enum {
		if len(e) <= 50 {
			continue
		}
		hits := scanInjection(fmt.Sprintf("%s.%s enum value", toolName, propName), e)
		if len(hits) > 0 {
			out = append(out, findings.Finding{
				PatternID:   "TP_SCHEMA_002",
				Category:    findings.CategorySchemaManipulation,
				Severity:    findings.SeverityHigh,
				Confidence:  findings.ConfidenceMedium,
				Title:       "Enum value contains an instruction-injection pattern",
				Description: fmt.Sprintf("An enum value on %s.%s is %d characters and matched %d injection pattern(s).", toolName, propName, len(e), len(hits)),
				Evidence:    contextWindow(e, 0, min(len(e), 80), evidenceWindow),
			})
		}
	}

	if prop.Items != nil {
		out = append(out, scanSchemaProperty(toolName, propName+"[]", *prop.Items)...)
	}
	if len(prop.Properties) > 0 {
		nested := collector.InputSchema{Properties: prop.Properties}
		out = append(out, scanSchema(toolName+"."+propName, nested)...)
	}

	return out
}

func scanSuspiciousDefault(toolName, propName, def string) []findings.Finding {
	hits := scanInjection(fmt.Sprintf("%s.%s default", toolName, propName), def)
	hasShellPattern := shellMetacharacters.MatchString(def)

	switch {
	case len(hits) > 0 || hasShellPattern:
		return []findings.Finding{{
			PatternID:   "TP_SCHEMA_003",
			Category:    findings.CategorySchemaManipulation,
			Severity:    findings.SeverityCritical,
			Confidence:  findings.ConfidenceMedium,
			Title:       "Suspicious default value",
			Description: fmt.Sprintf("The default value of %s.%s matches an injection pattern or contains shell metacharacters.", toolName, propName),
			Evidence:    contextWindow(def, 0, min(len(def), 80), evidenceWindow),
		}}
	case len(def) > 100:
		return []findings.Finding{{
			PatternID:   "TP_SCHEMA_003",
			Category:    findings.CategorySchemaManipulation,
			Severity:    findings.SeverityMedium,
			Confidence:  findings.ConfidenceLow,
			Title:       "Unusually long default value",
			Description: fmt.Sprintf("The default value of %s.%s is %d characters.", toolName, propName, len(def)),
		}}
	}
	return nil
}
