package assist

import "testing"

func TestContextWindowForLongestPrefixMatch(t *testing.T) {
	if got := contextWindowFor("claude-sonnet-4-5-20250929"); got != 200_000 {
		t.Errorf("expected claude-sonnet-4-5's window, got %d", got)
	}
	if got := contextWindowFor("unknown-model-xyz"); got != defaultContextWindow {
		t.Errorf("expected default window for unknown model, got %d", got)
	}
}

func TestGuardContextPassesUnderThreshold(t *testing.T) {
	check, err := guardContext("gpt-4o", "short system", "short user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Warn {
		t.Error("did not expect warn for tiny input")
	}
}

func TestGuardContextFailsOverLimit(t *testing.T) {
	huge := make([]byte, 5_000_000)
	for i := range huge {
		huge[i] = 'a'
	}
	_, err := guardContext("llama", string(huge), "")
	if err == nil {
		t.Fatal("expected an over-context error")
	}
}

func TestGuardContextWarnsNearLimit(t *testing.T) {
	// llama's window is 8000 tokens => ~28000 chars. 95% of that triggers warn.
	body := make([]byte, 27000)
	for i := range body {
		body[i] = 'a'
	}
	check, err := guardContext("llama", string(body), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.Warn {
		t.Errorf("expected warn near context limit, got fraction %.2f", check.Fraction)
	}
}
