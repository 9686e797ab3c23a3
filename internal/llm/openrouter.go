package llm

// OpenRouterBaseURL is the OpenAI compatible endpoint of OpenRouter.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// NewOpenRouterProvider creates a provider that routes requests through
// OpenRouter. Model names carry the vendor prefix, e.g. "openai/gpt-4o-mini".
func NewOpenRouterProvider(apiKey string, model string) *OpenAIProvider {
	return NewOpenAICompatibleProvider("openrouter", apiKey, OpenRouterBaseURL, model)
}
