package assist

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/agentaudit-dev/agentaudit-cli/internal/jsonscan"
)

// fencedBlock matches a fenced code block, capturing its body. The language
// tag (```json, ```, etc.) is optional.
var fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z]*\\n(.*?)```")

// isAcceptableCandidate accepts a candidate only if it carries a findings
// array and at least one of skill_slug, risk_score, or result. Using gjson
// avoids a full unmarshal for rejected candidates.
func isAcceptableCandidate(s string) bool {
	if !gjson.Get(s, "findings").IsArray() {
		return false
	}
	return gjson.Get(s, "skill_slug").Exists() ||
		gjson.Get(s, "risk_score").Exists() ||
		gjson.Get(s, "result").Exists()
}

// ExtractJSON applies a three-tier extraction strategy to a raw LLM response
// body: (a) the whole body; (b) fenced code blocks, largest-last first; (c)
// every balanced top-level {...} block, tried largest-first. The first
// accepted candidate is returned verbatim; ok is false if nothing in the
// body satisfies the acceptance rule.
func ExtractJSON(body string) (candidate string, ok bool) {
	trimmed := strings.TrimSpace(body)
	if json.Valid([]byte(trimmed)) && isAcceptableCandidate(trimmed) {
		return trimmed, true
	}

	if fenced := extractFromFences(body); fenced != "" {
		return fenced, true
	}

	if balanced := extractFromBalanced(body); balanced != "" {
		return balanced, true
	}

	return "", false
}

// extractFromFences tries every fenced block's body, largest body first.
func extractFromFences(body string) string {
	matches := fencedBlock.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return ""
	}

	bodies := make([]string, 0, len(matches))
	for _, m := range matches {
		bodies = append(bodies, strings.TrimSpace(m[1]))
	}

	sort.SliceStable(bodies, func(i, j int) bool {
		return len(bodies[i]) > len(bodies[j])
	})

	for _, c := range bodies {
		if json.Valid([]byte(c)) && isAcceptableCandidate(c) {
			return c
		}
	}
	return ""
}

// extractFromBalanced walks every top-level balanced {...} block found by
// jsonscan, largest-first.
func extractFromBalanced(body string) string {
	blocks := jsonscan.FindBalancedObjects(body)
	sort.SliceStable(blocks, func(i, j int) bool {
		return len(blocks[i]) > len(blocks[j])
	})
	for _, b := range blocks {
		if json.Valid([]byte(b)) && isAcceptableCandidate(b) {
			return b
		}
	}
	return ""
}

// ExtractVerificationJSON applies the same three-tier strategy as
// ExtractJSON but accepts any well-formed JSON object, since a verification
// response carries no findings array to gate on.
func ExtractVerificationJSON(body string) (string, bool) {
	trimmed := strings.TrimSpace(body)
	if json.Valid([]byte(trimmed)) {
		return trimmed, true
	}

	matches := fencedBlock.FindAllStringSubmatch(body, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		c := strings.TrimSpace(matches[i][1])
		if json.Valid([]byte(c)) {
			return c, true
		}
	}

	blocks := jsonscan.FindBalancedObjects(body)
	sort.SliceStable(blocks, func(i, j int) bool { return len(blocks[i]) > len(blocks[j]) })
	for _, b := range blocks {
		if json.Valid([]byte(b)) {
			return b, true
		}
	}

	return "", false
}

// errorPreview truncates a non-JSON body to a bounded preview for the
// structured {error} fallback value.
func errorPreview(body string) string {
	const maxPreview = 500
	b := strings.TrimSpace(body)
	if len(b) > maxPreview {
		return b[:maxPreview] + "..."
	}
	return b
}
