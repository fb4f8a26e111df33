package findings

import (
	"crypto/sha256"
	"fmt"
)

// ComputeFingerprint produces a deterministic SHA-256 hex digest from
// patternID, file, line, and title, separated by null bytes to avoid
// ambiguous concatenation.
func ComputeFingerprint(patternID, file string, line int, title string) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s\x00%s\x00%d\x00%s", patternID, file, line, title)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// ShortFingerprint truncates ComputeFingerprint's output to 16 hex characters
// for SARIF partialFingerprints.primaryLocationLineHash.
func ShortFingerprint(patternID, file string, line int, title string) string {
	full := ComputeFingerprint(patternID, file, line, title)
	return full[:16]
}
