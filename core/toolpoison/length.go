package toolpoison

import (
	"fmt"
	"math"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

const (
	lengthCriticalThreshold = 2000
	lengthWarningThreshold  = 1000
	zScoreThreshold         = 2.5
	zScoreMinToolCount      = 5
)

// scanDescriptionLength applies the fixed-threshold length check to a
// single tool's description.
func scanDescriptionLength(name, description string) []findings.Finding {
	n := len(description)

	if n == 0 {
		return []findings.Finding{{
			PatternID:   "TP_LENGTH_002",
			Category:    findings.CategoryExcessiveLength,
			Severity:    findings.SeverityInfo,
			Confidence:  findings.ConfidenceHigh,
			Title:       "Tool has no description",
			Description: "Tool " + name + " declares no description, which prevents most of the remaining category checks from running against it.",
		}}
	}

	switch {
	case n > lengthCriticalThreshold:
		return []findings.Finding{{
			PatternID:   "TP_LENGTH_001",
			Category:    findings.CategoryExcessiveLength,
			Severity:    findings.SeverityHigh,
			Confidence:  findings.ConfidenceMedium,
			Title:       "Excessively long tool description",
			Description: fmt.Sprintf("Tool %s has a %d-character description, exceeding the %d-character threshold.", name, n, lengthCriticalThreshold),
		}}
	case n > lengthWarningThreshold:
		return []findings.Finding{{
			PatternID:   "TP_LENGTH_001",
			Category:    findings.CategoryExcessiveLength,
			Severity:    findings.SeverityWarning,
			Confidence:  findings.ConfidenceMedium,
			Title:       "Long tool description",
			Description: fmt.Sprintf("Tool %s has a %d-character description, exceeding the %d-character threshold.", name, n, lengthWarningThreshold),
		}}
	}

	return nil
}

// scanLengthOutliers runs once per batch rather than per tool: a tool whose
// description length is a
// statistical outlier relative to its siblings is flagged. Disabled below
// zScoreMinToolCount tools, where a population is too small for a
// meaningful mean/stddev.
func scanLengthOutliers(names []string, lengths []int) []findings.Finding {
	if len(lengths) < zScoreMinToolCount {
		return nil
	}

	mean := 0.0
	for _, l := range lengths {
		mean += float64(l)
	}
	mean /= float64(len(lengths))

	variance := 0.0
	for _, l := range lengths {
		d := float64(l) - mean
		variance += d * d
	}
	variance /= float64(len(lengths))
	stddev := math.Sqrt(variance)
	if stddev == 0 {
		return nil
	}

	var out []findings.Finding
	for i, l := range lengths {
		z := (float64(l) - mean) / stddev
		if z > zScoreThreshold {
			out = append(out, findings.Finding{
				PatternID:   "TP_LENGTH_003",
				Category:    findings.CategoryExcessiveLength,
				Severity:    findings.SeverityWarning,
				Confidence:  findings.ConfidenceMedium,
				Title:       "Description length is a statistical outlier",
				Description: fmt.Sprintf("Tool %s's description length (%d chars) is a z-score %.2f outlier against the other %d tool(s) in this batch.", names[i], l, z, len(lengths)-1),
			})
		}
	}
	return out
}
