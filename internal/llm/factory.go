package llm

import (
	"fmt"
	"os"
)

// Providers lists the provider types NewProvider understands.
var Providers = []string{"openrouter", "openai", "ollama"}

// NewProvider creates a new LLM provider based on the given provider type and model.
// Supported provider types: "openrouter", "openai", "ollama".
//
// OPENAI_BASE_URL points the openai provider at any compatible endpoint.
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "openrouter":
		apiKey := os.Getenv("OPENROUTER_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is not set")
		}
		return NewOpenRouterProvider(apiKey, model), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
			return NewOpenAICompatibleProvider("openai", apiKey, base, model), nil
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = DefaultOllamaHost
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
