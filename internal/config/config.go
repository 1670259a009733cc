package config

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Agents  AgentsConfig  `mapstructure:"agents"`
	Debate  DebateConfig  `mapstructure:"debate"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AgentsConfig configures the available AI agent CLIs.
type AgentsConfig struct {
	Claude AgentConfig `mapstructure:"claude"`
	Gemini AgentConfig `mapstructure:"gemini"`
}

// AgentConfig configures a single AI agent CLI.
type AgentConfig struct {
	Path        string  `mapstructure:"path"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// DebateConfig configures debate execution.
type DebateConfig struct {
	// Timeout is the per-stage agent timeout (Go duration string).
	Timeout string `mapstructure:"timeout"`
	// DefaultProvider selects the agent set when --provider is not given:
	// claude, gemini or mixed.
	DefaultProvider string `mapstructure:"default_provider"`
}

// StorageConfig configures debate record persistence.
type StorageConfig struct {
	// Backend selects the store implementation: json or sqlite.
	Backend string `mapstructure:"backend"`
	// Path is the storage directory (json) or database file (sqlite).
	// Always explicit: there is no implicit process-wide default location.
	Path string `mapstructure:"path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}
