package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/clil-studio/internal/auth"
	"github.com/ziadkadry99/clil-studio/internal/embeddings"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".clilstudio.yml"

// EnvPrefix marks environment overrides. A double underscore descends into
// a nested section: CLILSTUDIO_SERVER__PORT sets server.port.
const EnvPrefix = "CLILSTUDIO_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CLILSTUDIO_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path. The file may
// hold the JWT secret, so it is only readable by the owner.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenRouter: true,
	ProviderOpenAI:     true,
	ProviderOllama:     true,
}

var validQualityTiers = map[QualityTier]bool{
	QualityLite:   true,
	QualityNormal: true,
	QualityMax:    true,
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openrouter, openai, ollama", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.Quality != "" && !validQualityTiers[c.Quality] {
		return fmt.Errorf("invalid quality %q: must be one of lite, normal, max", c.Quality)
	}

	if c.EmbeddingProvider != "" && !slices.Contains(embeddings.Providers, c.EmbeddingProvider) {
		return fmt.Errorf("invalid embedding_provider %q: must be one of %s", c.EmbeddingProvider, strings.Join(embeddings.Providers, ", "))
	}

	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must be non-negative")
	}

	if c.MaxCostUSD < 0 {
		return fmt.Errorf("max_cost_usd must be non-negative")
	}

	if c.HistoryRetentionDays < 0 {
		return fmt.Errorf("history_retention_days must be non-negative")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	return nil
}

// ValidateServer additionally checks what clilstudio serve needs.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if len(c.Server.JWTSecret) < auth.MinSecretLength {
		return fmt.Errorf("server.jwt_secret must be at least %d characters (set %sSERVER__JWT_SECRET)", auth.MinSecretLength, EnvPrefix)
	}
	if c.Server.TokenTTLHours <= 0 {
		return fmt.Errorf("server.token_ttl_hours must be positive")
	}
	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
