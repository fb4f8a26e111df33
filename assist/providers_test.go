package assist

import (
	"os"
	"testing"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, e := range providerTable {
		if e.EnvVar == "" {
			continue
		}
		old, had := os.LookupEnv(e.EnvVar)
		os.Unsetenv(e.EnvVar)
		t.Cleanup(func() {
			if had {
				os.Setenv(e.EnvVar, old)
			}
		})
	}
}

func TestResolveProviderSlashModelGoesToOpenRouter(t *testing.T) {
	clearProviderEnv(t)
	entry, model := ResolveProvider("anthropic/claude-3-haiku", "")
	if entry.Key != "openrouter" {
		t.Errorf("expected openrouter for slash model, got %s", entry.Key)
	}
	if model != "anthropic/claude-3-haiku" {
		t.Errorf("expected model passed through unchanged, got %s", model)
	}
}

func TestResolveProviderKnownPrefixWithKeyPresent(t *testing.T) {
	clearProviderEnv(t)
	os.Setenv("ANTHROPIC_API_KEY", "test-key")
	entry, model := ResolveProvider("claude-sonnet-4-5", "")
	if entry.Key != "anthropic" {
		t.Errorf("expected anthropic provider, got %s", entry.Key)
	}
	if model != "claude-sonnet-4-5" {
		t.Errorf("expected model unchanged, got %s", model)
	}
}

func TestResolveProviderKnownPrefixWithoutKeyFallsBackToOpenRouter(t *testing.T) {
	clearProviderEnv(t)
	entry, _ := ResolveProvider("claude-sonnet-4-5", "")
	if entry.Key != "openrouter" {
		t.Errorf("expected fallback to openrouter when key absent, got %s", entry.Key)
	}
}

func TestResolveProviderPreferredProviderWithKey(t *testing.T) {
	clearProviderEnv(t)
	os.Setenv("DEEPSEEK_API_KEY", "test-key")
	entry, model := ResolveProvider("", "deepseek")
	if entry.Key != "deepseek" {
		t.Errorf("expected preferred provider deepseek, got %s", entry.Key)
	}
	if model != entry.DefaultModel {
		t.Errorf("expected default model, got %s", model)
	}
}

func TestResolveProviderFirstWithKeyInDeclarationOrder(t *testing.T) {
	clearProviderEnv(t)
	os.Setenv("MISTRAL_API_KEY", "test-key")
	entry, _ := ResolveProvider("", "")
	if entry.Key != "mistral" {
		t.Errorf("expected mistral as first present key, got %s", entry.Key)
	}
}

func TestResolveProviderOllamaAlwaysPresent(t *testing.T) {
	clearProviderEnv(t)
	entry, _ := ResolveProvider("", "ollama")
	if entry.Key != "ollama" {
		t.Errorf("expected ollama (no key required), got %s", entry.Key)
	}
}
