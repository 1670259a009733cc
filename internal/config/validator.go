package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateAgents(&cfg.Agents)
	v.validateDebate(&cfg.Debate)
	v.validateStorage(&cfg.Storage)
	v.validateServer(&cfg.Server)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) addError(field string, value interface{}, message string) {
	v.errors = append(v.errors, ValidationError{Field: field, Value: value, Message: message})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		v.addError("log.level", cfg.Level, "must be one of debug, info, warn, error")
	}

	switch cfg.Format {
	case "auto", "text", "json":
	default:
		v.addError("log.format", cfg.Format, "must be one of auto, text, json")
	}
}

func (v *Validator) validateAgents(cfg *AgentsConfig) {
	v.validateAgent("agents.claude", &cfg.Claude)
	v.validateAgent("agents.gemini", &cfg.Gemini)
}

func (v *Validator) validateAgent(field string, cfg *AgentConfig) {
	if strings.TrimSpace(cfg.Path) == "" {
		v.addError(field+".path", cfg.Path, "must not be empty")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		v.addError(field+".model", cfg.Model, "must not be empty")
	}
	if cfg.MaxTokens <= 0 {
		v.addError(field+".max_tokens", cfg.MaxTokens, "must be positive")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		v.addError(field+".temperature", cfg.Temperature, "must be within [0.0, 1.0]")
	}
}

func (v *Validator) validateDebate(cfg *DebateConfig) {
	if d, err := time.ParseDuration(cfg.Timeout); err != nil {
		v.addError("debate.timeout", cfg.Timeout, "must be a valid duration")
	} else if d <= 0 {
		v.addError("debate.timeout", cfg.Timeout, "must be positive")
	}

	switch cfg.DefaultProvider {
	case "claude", "gemini", "mixed":
	default:
		v.addError("debate.default_provider", cfg.DefaultProvider,
			"must be one of claude, gemini, mixed")
	}
}

func (v *Validator) validateStorage(cfg *StorageConfig) {
	switch cfg.Backend {
	case "json", "sqlite":
	default:
		v.addError("storage.backend", cfg.Backend, "must be one of json, sqlite")
	}
	if strings.TrimSpace(cfg.Path) == "" {
		v.addError("storage.path", cfg.Path, "must not be empty")
	}
}

func (v *Validator) validateServer(cfg *ServerConfig) {
	if strings.TrimSpace(cfg.Addr) == "" {
		v.addError("server.addr", cfg.Addr, "must not be empty")
	}
}

// StageTimeout parses the configured per-stage timeout.
func (c *DebateConfig) StageTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}
