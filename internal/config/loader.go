package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "DEBATE",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "DEBATE",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (DEBATE_*)
// 3. Project config (.debate.yaml in current directory)
// 4. User config (~/.config/debate/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".debate")
		l.v.SetConfigType("yaml")

		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "debate"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := NewValidator().Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")

	l.v.SetDefault("agents.claude.path", "claude")
	l.v.SetDefault("agents.claude.model", "haiku")
	l.v.SetDefault("agents.claude.max_tokens", 2000)
	l.v.SetDefault("agents.claude.temperature", 0.7)

	l.v.SetDefault("agents.gemini.path", "gemini")
	l.v.SetDefault("agents.gemini.model", "flash")
	l.v.SetDefault("agents.gemini.max_tokens", 2000)
	l.v.SetDefault("agents.gemini.temperature", 0.7)

	l.v.SetDefault("debate.timeout", "60s")
	l.v.SetDefault("debate.default_provider", "claude")

	l.v.SetDefault("storage.backend", "json")
	l.v.SetDefault("storage.path", filepath.Join(".debate", "debates"))

	l.v.SetDefault("server.addr", "127.0.0.1:8385")
}
