package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard asks for the main settings interactively and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to clilstudio! Let's configure your lesson studio.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{string(ProviderOpenAI), string(ProviderOpenRouter), string(ProviderOllama)},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Quality tier.
	tiers := []QualityTier{QualityLite, QualityNormal, QualityMax}
	labels := make([]string, len(tiers))
	for i, tier := range tiers {
		labels[i] = fmt.Sprintf("%-7s %s", tier, GetPreset(cfg.Provider, tier).Model)
	}
	qualityPrompt := promptui.Select{Label: "Select quality tier", Items: labels}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}
	cfg.Quality = tiers[qualityIdx]
	preset := GetPreset(cfg.Provider, cfg.Quality)
	cfg.Model = preset.Model

	// 3. Semantic search over saved lessons.
	searchPrompt := promptui.Select{
		Label: "Embeddings for lesson search",
		Items: []string{embeddingProviderFor(cfg.Provider), "none"},
	}
	_, embed, err := searchPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding selection: %w", err)
	}
	cfg.EmbeddingProvider = embed
	if embed != "none" {
		cfg.EmbeddingModel = preset.EmbeddingModel
	}

	// 4. Backend URL, blank to generate in-process.
	backendPrompt := promptui.Prompt{
		Label:   "Backend URL (leave blank to run in-process)",
		Default: "",
	}
	backend, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	cfg.BackendURL = strings.TrimSpace(backend)

	secret, err := NewSecret()
	if err != nil {
		return nil, err
	}
	cfg.Server.JWTSecret = secret

	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before generating lessons.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// embeddingProviderFor picks the embedding provider matching an LLM
// provider. OpenRouter has no embeddings endpoint, so it uses OpenAI.
func embeddingProviderFor(p ProviderType) string {
	if p == ProviderOllama {
		return "ollama"
	}
	return "openai"
}

// NewSecret returns a random hex secret suitable for signing tokens.
func NewSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
