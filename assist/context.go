package assist

import (
	"math"
	"sort"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/internal/apperr"
)

// contextWindows is a per-model dictionary of token budgets. Lookup is
// longest-key-first substring match (strings.Contains) so a more specific key like
// "claude-sonnet-4-5" is tried before a shorter one like "claude" would
// shadow it.
var contextWindows = map[string]int{
	"claude-sonnet-4-5":       200_000,
	"claude-opus-4":           200_000,
	"claude":                  200_000,
	"gemini-2.5-pro":          1_000_000,
	"gemini-2.5-flash":        1_000_000,
	"gemini":                  1_000_000,
	"gpt-4o":                  128_000,
	"gpt-4o-mini":             128_000,
	"gpt":                     128_000,
	"deepseek-chat":           64_000,
	"deepseek":                64_000,
	"mistral-large-latest":    128_000,
	"mistral":                 32_000,
	"grok-4":                  256_000,
	"grok":                    131_000,
	"glm-4.6":                 128_000,
	"glm":                     128_000,
	"llama-3.3-70b-versatile": 128_000,
	"llama":                   8_000,
}

const defaultContextWindow = 32_000

// charsPerToken is the rough characters-per-token ratio used to estimate
// token counts without a real tokenizer: ⌈chars/3.5⌉.
const charsPerToken = 3.5

// contextWindowFor returns the token budget for model using a longest-key-first
// substring match over contextWindows.
func contextWindowFor(model string) int {
	keys := make([]string, 0, len(contextWindows))
	for k := range contextWindows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	lower := strings.ToLower(model)
	for _, k := range keys {
		if strings.Contains(lower, k) {
			return contextWindows[k]
		}
	}
	return defaultContextWindow
}

// estimateTokens applies the chars/3.5 estimator above to s.
func estimateTokens(s string) int {
	return int(math.Ceil(float64(len(s)) / charsPerToken))
}

// ContextCheck is the result of guardContext: the estimated token count, the
// model's window, the usage fraction, and whether dispatch should proceed.
type ContextCheck struct {
	EstimatedTokens int
	Window          int
	Fraction        float64
	Warn            bool
}

// guardContext estimates combined system+user token usage against model's
// context window. Usage above 90% sets Warn; usage above 100% returns a
// KindProviderContextTooBig error and the call must not be dispatched.
func guardContext(model, system, user string) (ContextCheck, error) {
	window := contextWindowFor(model)
	tokens := estimateTokens(system) + estimateTokens(user)
	fraction := float64(tokens) / float64(window)

	check := ContextCheck{EstimatedTokens: tokens, Window: window, Fraction: fraction}
	if fraction > 1.0 {
		return check, apperr.Newf(apperr.KindProviderContextTooBig,
			"estimated input of %d tokens exceeds %s's %d-token context window", tokens, model, window).
			WithHint("split the package, use --deep selectively, or choose a longer-context model")
	}
	check.Warn = fraction > 0.90
	return check, nil
}
