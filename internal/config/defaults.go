package config

import "path/filepath"

// QualityPreset describes the models to use for a given quality tier.
type QualityPreset struct {
	Model          string
	EmbeddingModel string
}

// qualityPresets maps each provider+quality combination to its model choices.
var qualityPresets = map[ProviderType]map[QualityTier]QualityPreset{
	ProviderOpenAI: {
		QualityLite:   {Model: "gpt-4o-mini", EmbeddingModel: "text-embedding-3-small"},
		QualityNormal: {Model: "gpt-4o", EmbeddingModel: "text-embedding-3-small"},
		QualityMax:    {Model: "gpt-4.1", EmbeddingModel: "text-embedding-3-large"},
	},
	ProviderOpenRouter: {
		QualityLite:   {Model: "openai/gpt-4o-mini", EmbeddingModel: "text-embedding-3-small"},
		QualityNormal: {Model: "openai/gpt-4o", EmbeddingModel: "text-embedding-3-small"},
		QualityMax:    {Model: "anthropic/claude-3.5-sonnet", EmbeddingModel: "text-embedding-3-large"},
	},
	ProviderOllama: {
		QualityLite:   {Model: "llama3.2", EmbeddingModel: "nomic-embed-text"},
		QualityNormal: {Model: "llama3.1", EmbeddingModel: "nomic-embed-text"},
		QualityMax:    {Model: "llama3.3:70b", EmbeddingModel: "mxbai-embed-large"},
	},
}

// DefaultExcludes are glob patterns lesson import skips by default.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"**/.*",
}

const (
	DefaultPort          = 8080
	DefaultDataDir       = ".clilstudio"
	DefaultOwner         = "local"
	DefaultTokenTTLHours = 24 * 30
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		Quality:           QualityLite,
		EmbeddingProvider: "none",
		RequestsPerMinute: 60,
		MaxCostUSD:        0,
		DataDir:           DefaultDataDir,
		Owner:             DefaultOwner,
		Server: ServerConfig{
			Port:          DefaultPort,
			TokenTTLHours: DefaultTokenTTLHours,
		},
		Exclude: DefaultExcludes,
	}
}

// GetPreset returns the quality preset for the given provider and tier.
// Returns the Lite OpenAI preset if the combination is not found.
func GetPreset(provider ProviderType, tier QualityTier) QualityPreset {
	if tiers, ok := qualityPresets[provider]; ok {
		if preset, ok := tiers[tier]; ok {
			return preset
		}
	}
	return qualityPresets[ProviderOpenAI][QualityLite]
}

// DatabasePath is the SQLite file inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "clilstudio.db")
}

// IndexDir is where the search index is persisted.
func (c *Config) IndexDir() string {
	return filepath.Join(c.DataDir, "index")
}
