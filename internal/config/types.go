package config

// QualityTier trades generation cost and speed against quality.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderOpenAI     ProviderType = "openai"
	ProviderOllama     ProviderType = "ollama"
)

// Config is the top-level clilstudio configuration, corresponding to
// .clilstudio.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	Quality           QualityTier  `yaml:"quality" koanf:"quality"`
	EmbeddingProvider string       `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	MaxCostUSD        float64      `yaml:"max_cost_usd" koanf:"max_cost_usd"`

	// DataDir holds the lesson database and the search index.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	// BackendURL makes the CLI talk to a running server instead of
	// generating in-process.
	BackendURL string `yaml:"backend_url" koanf:"backend_url"`

	// Owner is the library owner used by in-process commands.
	Owner string `yaml:"owner" koanf:"owner"`

	Server ServerConfig `yaml:"server" koanf:"server"`
	Google GoogleConfig `yaml:"google" koanf:"google"`

	// Exclude lists globs skipped by lesson import.
	Exclude []string `yaml:"exclude" koanf:"exclude"`

	// HistoryRetentionDays prunes older lesson history when the library is
	// opened. Zero keeps everything.
	HistoryRetentionDays int `yaml:"history_retention_days" koanf:"history_retention_days"`
}

// ServerConfig holds settings used by clilstudio server.
type ServerConfig struct {
	Port          int    `yaml:"port" koanf:"port"`
	AllowAll      bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	JWTSecret     string `yaml:"jwt_secret" koanf:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours" koanf:"token_ttl_hours"`
}

// GoogleConfig is the OAuth client used by clilstudio auth login.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id" koanf:"client_id"`
	ClientSecret string `yaml:"client_secret" koanf:"client_secret"`
}
