package toolpoison

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

// maxDecodeDepth bounds the nested-decode recursion to 2 layers, so a
// crafted payload cannot force unbounded work.
const maxDecodeDepth = 2

const minDecodedLength = 24

var base64Candidate = regexp.MustCompile(`[A-Za-z0-9+/]{24,}={0,2}`)

var hexCandidate = regexp.MustCompile(`(?:\\x[0-9a-fA-F]{2}){8,}`)

// scanObfuscated performs a bounded base64/hex decode and rescans the
// decoded text with the injection pack.
func scanObfuscated(field, text string) []findings.Finding {
	var out []findings.Finding

	for _, m := range base64Candidate.FindAllString(text, -1) {
		if f, ok := decodeAndAssess(field, text, m, decodeBase64, 1); ok {
			out = append(out, f)
		}
	}
	for _, m := range hexCandidate.FindAllString(text, -1) {
		if f, ok := decodeAndAssess(field, text, m, decodeHex, 1); ok {
			out = append(out, f)
		}
	}

	return out
}

func decodeBase64(s string) ([]byte, bool) {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return nil, false
		}
	}
	return decoded, true
}

func decodeHex(s string) ([]byte, bool) {
	clean := make([]byte, 0, len(s)/4)
	for i := 0; i+4 <= len(s); i += 4 {
		if s[i] != '\\' || s[i+1] != 'x' {
			return nil, false
		}
		b, err := hex.DecodeString(s[i+2 : i+4])
		if err != nil {
			return nil, false
		}
		clean = append(clean, b...)
	}
	return clean, true
}

func isMostlyPrintable(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	printable := 0
	for _, c := range b {
		if c == '\t' || c == '\n' || c == '\r' || (c >= 32 && c <= 126) {
			printable++
		}
	}
	return float64(printable)/float64(len(b)) >= 0.75
}

// decodeAndAssess decodes encoded with decodeFn, validates it per the
// acceptance rule, rescans accepted decodings with the injection pack, and
// recurses one more layer (bounded by maxDecodeDepth) for nested encodings.
func decodeAndAssess(field, original, encoded string, decodeFn func(string) ([]byte, bool), depth int) (findings.Finding, bool) {
	decoded, ok := decodeFn(encoded)
	if !ok || len(decoded) < minDecodedLength || string(decoded) == encoded {
		return findings.Finding{}, false
	}
	if !isMostlyPrintable(decoded) {
		return findings.Finding{}, false
	}

	decodedText := string(decoded)

	if depth < maxDecodeDepth {
		for _, m := range base64Candidate.FindAllString(decodedText, -1) {
			if _, nested := decodeAndAssess(field, decodedText, m, decodeBase64, depth+1); nested {
				return findings.Finding{
					PatternID:  "TP_OBFUSC_001",
					Category:   findings.CategoryObfuscatedPayload,
					Severity:   findings.SeverityCritical,
					Confidence: findings.ConfidenceHigh,
					Title:      "Nested encoded payload in " + field,
					Description: "A second layer of encoding decoded to an injection pattern or a long printable payload.",
					Evidence:   fmt.Sprintf("layer1: %.60s... layer2-decoded: %.60s...", encoded, decodedText),
				}, true
			}
		}
	}

	hits := scanInjection(field, decodedText)
	if len(hits) > 0 {
		return findings.Finding{
			PatternID:  "TP_OBFUSC_001",
			Category:   findings.CategoryObfuscatedPayload,
			Severity:   findings.SeverityCritical,
			Confidence: findings.ConfidenceHigh,
			Title:      "Encoded payload decodes to an instruction-injection pattern",
			Description: fmt.Sprintf("Decoding a substring of the %s field revealed %d instruction-injection match(es).", field, len(hits)),
			Evidence:   fmt.Sprintf("encoded: %.60s... decoded: %.60s...", encoded, decodedText),
		}, true
	}

	if len(decoded) >= 50 {
		return findings.Finding{
			PatternID:  "TP_OBFUSC_002",
			Category:   findings.CategoryObfuscatedPayload,
			Severity:   findings.SeverityMedium,
			Confidence: findings.ConfidenceMedium,
			Title:      "Unusual encoded content in " + field,
			Description: "A substring decodes to mostly-printable text with no injection match, but its length is unusual for incidental encoding.",
			Evidence:   fmt.Sprintf("encoded: %.60s... decoded: %.60s...", encoded, decodedText),
		}, true
	}

	return findings.Finding{}, false
}
