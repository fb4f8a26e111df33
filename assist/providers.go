package assist

import (
	"os"
	"strings"
)

// ProviderType is the closed set of wire-format families the orchestrator
// knows how to speak.
type ProviderType string

const (
	ProviderTypeAnthropic        ProviderType = "anthropic"
	ProviderTypeGemini           ProviderType = "gemini"
	ProviderTypeOpenAICompatible ProviderType = "openai-compatible"
)

// ProviderEntry describes one of the thirteen known model providers: its
// display name, the env var holding its API key, its base URL, its default
// model, and which wire format it speaks.
type ProviderEntry struct {
	Name         string
	Key          string
	EnvVar       string
	BaseURL      string
	DefaultModel string
	Type         ProviderType
}

// providerTable is declaration-ordered: ResolveProvider's fallback rule
// picks the first entry whose key is present when no override or preference
// applies.
var providerTable = []ProviderEntry{
	{Name: "Anthropic", Key: "anthropic", EnvVar: "ANTHROPIC_API_KEY", BaseURL: "https://api.anthropic.com/v1", DefaultModel: "claude-sonnet-4-5", Type: ProviderTypeAnthropic},
	{Name: "Google Gemini", Key: "gemini", EnvVar: "GEMINI_API_KEY", BaseURL: "https://generativelanguage.googleapis.com/v1beta", DefaultModel: "gemini-2.5-pro", Type: ProviderTypeGemini},
	{Name: "OpenAI", Key: "openai", EnvVar: "OPENAI_API_KEY", BaseURL: "https://api.openai.com/v1", DefaultModel: "gpt-4o", Type: ProviderTypeOpenAICompatible},
	{Name: "DeepSeek", Key: "deepseek", EnvVar: "DEEPSEEK_API_KEY", BaseURL: "https://api.deepseek.com/v1", DefaultModel: "deepseek-chat", Type: ProviderTypeOpenAICompatible},
	{Name: "Mistral", Key: "mistral", EnvVar: "MISTRAL_API_KEY", BaseURL: "https://api.mistral.ai/v1", DefaultModel: "mistral-large-latest", Type: ProviderTypeOpenAICompatible},
	{Name: "xAI Grok", Key: "grok", EnvVar: "XAI_API_KEY", BaseURL: "https://api.x.ai/v1", DefaultModel: "grok-4", Type: ProviderTypeOpenAICompatible},
	{Name: "Zhipu GLM", Key: "glm", EnvVar: "ZHIPU_API_KEY", BaseURL: "https://open.bigmodel.cn/api/paas/v4", DefaultModel: "glm-4.6", Type: ProviderTypeOpenAICompatible},
	{Name: "OpenRouter", Key: "openrouter", EnvVar: "OPENROUTER_API_KEY", BaseURL: "https://openrouter.ai/api/v1", DefaultModel: "openai/gpt-4o", Type: ProviderTypeOpenAICompatible},
	{Name: "Groq", Key: "groq", EnvVar: "GROQ_API_KEY", BaseURL: "https://api.groq.com/openai/v1", DefaultModel: "llama-3.3-70b-versatile", Type: ProviderTypeOpenAICompatible},
	{Name: "Together AI", Key: "together", EnvVar: "TOGETHER_API_KEY", BaseURL: "https://api.together.xyz/v1", DefaultModel: "meta-llama/Llama-3.3-70B-Instruct-Turbo", Type: ProviderTypeOpenAICompatible},
	{Name: "Fireworks", Key: "fireworks", EnvVar: "FIREWORKS_API_KEY", BaseURL: "https://api.fireworks.ai/inference/v1", DefaultModel: "accounts/fireworks/models/llama-v3p3-70b-instruct", Type: ProviderTypeOpenAICompatible},
	{Name: "Perplexity", Key: "perplexity", EnvVar: "PERPLEXITY_API_KEY", BaseURL: "https://api.perplexity.ai", DefaultModel: "sonar", Type: ProviderTypeOpenAICompatible},
	{Name: "Ollama (local)", Key: "ollama", EnvVar: "", BaseURL: "http://localhost:11434/v1", DefaultModel: "llama3.3", Type: ProviderTypeOpenAICompatible},
}

// modelPrefixToKey maps a known model-name prefix to its native provider
// key, used by ResolveProvider's rule 1.
var modelPrefixToKey = map[string]string{
	"claude":   "anthropic",
	"gemini":   "gemini",
	"gpt":      "openai",
	"deepseek": "deepseek",
	"mistral":  "mistral",
	"grok":     "grok",
	"glm":      "glm",
}

// keyPresent reports whether the environment holds an API key for entry.
// Local providers with no EnvVar (Ollama) are always considered present.
func keyPresent(e ProviderEntry) bool {
	if e.EnvVar == "" {
		return true
	}
	return os.Getenv(e.EnvVar) != ""
}

func byKey(key string) (ProviderEntry, bool) {
	for _, e := range providerTable {
		if e.Key == key {
			return e, true
		}
	}
	return ProviderEntry{}, false
}

func openRouter() ProviderEntry {
	e, _ := byKey("openrouter")
	return e
}

// ResolveProvider applies a three-step selection precedence: an explicit
// per-invocation model override, then a persisted preferred-provider key,
// then the first provider in providerTable with an API key present. model
// is the override (may be empty); preferred is the preferred-provider key
// (may be empty).
func ResolveProvider(model, preferred string) (ProviderEntry, string) {
	if model != "" {
		if strings.Contains(model, "/") {
			return openRouter(), model
		}
		for prefix, key := range modelPrefixToKey {
			if strings.HasPrefix(strings.ToLower(model), prefix) {
				if e, ok := byKey(key); ok && keyPresent(e) {
					return e, model
				}
			}
		}
		return openRouter(), model
	}

	if preferred != "" {
		if e, ok := byKey(preferred); ok && keyPresent(e) {
			return e, e.DefaultModel
		}
	}

	for _, e := range providerTable {
		if keyPresent(e) {
			return e, e.DefaultModel
		}
	}

	// No key present anywhere; return the first entry so callers get a
	// deterministic, nameable provider in the resulting auth error.
	return providerTable[0], providerTable[0].DefaultModel
}
