package assist

import (
	"os"

	"github.com/agentaudit-dev/agentaudit-cli/internal/apperr"
)

// NewProvider constructs the Provider implementation matching entry.Type,
// resolving the API key from entry.EnvVar. Ollama-style local entries carry
// an empty EnvVar and need no key.
func NewProvider(entry ProviderEntry, model string) (Provider, error) {
	var apiKey string
	if entry.EnvVar != "" {
		apiKey = os.Getenv(entry.EnvVar)
		if apiKey == "" {
			return nil, apperr.Newf(apperr.KindProviderAuth, "no API key found for %s", entry.Name).
				WithHint("set " + entry.EnvVar)
		}
	}

	switch entry.Type {
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(model, apiKey, entry.BaseURL), nil
	case ProviderTypeGemini:
		return NewGeminiProvider(model, apiKey, entry.BaseURL), nil
	case ProviderTypeOpenAICompatible:
		opts := []OpenAIOption{WithModel(model), WithBaseURL(entry.BaseURL)}
		if apiKey != "" {
			opts = append(opts, WithAPIKey(apiKey))
		}
		return NewOpenAIProvider(opts...), nil
	default:
		return nil, apperr.Newf(apperr.KindInput, "unknown provider type %q", entry.Type)
	}
}
