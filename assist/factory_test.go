package assist

import (
	"os"
	"testing"
)

func TestNewProviderDispatchesByType(t *testing.T) {
	clearProviderEnv(t)
	os.Setenv("ANTHROPIC_API_KEY", "test-key")

	entry, _ := byKey("anthropic")
	p, err := NewProvider(entry, "claude-sonnet-4-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*AnthropicProvider); !ok {
		t.Errorf("expected *AnthropicProvider, got %T", p)
	}
}

func TestNewProviderGemini(t *testing.T) {
	clearProviderEnv(t)
	os.Setenv("GEMINI_API_KEY", "test-key")

	entry, _ := byKey("gemini")
	p, err := NewProvider(entry, "gemini-2.5-pro")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*GeminiProvider); !ok {
		t.Errorf("expected *GeminiProvider, got %T", p)
	}
}

func TestNewProviderOpenAICompatible(t *testing.T) {
	clearProviderEnv(t)
	os.Setenv("OPENAI_API_KEY", "test-key")

	entry, _ := byKey("openai")
	p, err := NewProvider(entry, "gpt-4o")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*OpenAIProvider); !ok {
		t.Errorf("expected *OpenAIProvider, got %T", p)
	}
}

func TestNewProviderMissingKeyErrors(t *testing.T) {
	clearProviderEnv(t)

	entry, _ := byKey("anthropic")
	_, err := NewProvider(entry, "claude-sonnet-4-5")
	if err == nil {
		t.Fatal("expected an error when the API key env var is unset")
	}
}

func TestNewProviderOllamaNeedsNoKey(t *testing.T) {
	clearProviderEnv(t)

	entry, _ := byKey("ollama")
	p, err := NewProvider(entry, "llama3.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*OpenAIProvider); !ok {
		t.Errorf("expected *OpenAIProvider for ollama, got %T", p)
	}
}
