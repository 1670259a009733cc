package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies an agent's position in a debate.
type Role string

const (
	RoleFor       Role = "FOR"
	RoleAgainst   Role = "AGAINST"
	RoleSynthesis Role = "SYNTHESIS"
)

// RoleOrder is the fixed execution order of debate stages.
var RoleOrder = []Role{RoleFor, RoleAgainst, RoleSynthesis}

// Valid reports whether the role is one of the three debate roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFor, RoleAgainst, RoleSynthesis:
		return true
	}
	return false
}

// stageIndex returns the execution position of a role.
func (r Role) stageIndex() int {
	for i, role := range RoleOrder {
		if r == role {
			return i
		}
	}
	return len(RoleOrder)
}

// Topic is the subject under debate. Both fields are required.
type Topic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate checks the topic fields.
func (t Topic) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrValidation(CodeEmptyTopic, "topic title must not be empty")
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrValidation(CodeEmptyTopic, "topic description must not be empty")
	}
	return nil
}

// modelAliases maps provider + short model name to a full model identifier.
// Unknown combinations fall back to "<provider>-<name>".
var modelAliases = map[string]map[string]string{
	"claude": {
		"haiku":  "claude-haiku-4-5-20251001",
		"sonnet": "claude-sonnet-4-5-20250929",
		"opus":   "claude-opus-4-5-20251101",
	},
	"gemini": {
		"flash-lite": "gemini-2.5-flash-lite",
		"flash":      "gemini-2.5-flash",
		"pro":        "gemini-2.5-pro",
	},
}

// ResolveModelID resolves a provider and short model name to a full model
// identifier, synthesizing "<provider>-<name>" when unmapped.
func ResolveModelID(provider, modelName string) string {
	if aliases, ok := modelAliases[provider]; ok {
		if id, ok := aliases[modelName]; ok {
			return id
		}
	}
	return provider + "-" + modelName
}

// AgentConfig configures one debate agent. Immutable after construction.
type AgentConfig struct {
	Name        string        `json:"name"`
	Role        Role          `json:"role"`
	Provider    string        `json:"provider"`
	ModelName   string        `json:"model_name"`
	ModelID     string        `json:"model_id"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Timeout     time.Duration `json:"timeout_seconds"`
}

// NewAgentConfig builds an AgentConfig with the resolved model identifier
// and default sampling parameters.
func NewAgentConfig(name string, role Role, provider, modelName string) AgentConfig {
	return AgentConfig{
		Name:        name,
		Role:        role,
		Provider:    provider,
		ModelName:   modelName,
		ModelID:     ResolveModelID(provider, modelName),
		Temperature: 0.7,
		MaxTokens:   2000,
		Timeout:     60 * time.Second,
	}
}

// Validate checks a single agent configuration.
func (c AgentConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrValidation(CodeInvalidConfig, "agent name must not be empty")
	}
	if !c.Role.Valid() {
		return ErrValidation(CodeInvalidRole,
			fmt.Sprintf("invalid role %q: must be FOR, AGAINST or SYNTHESIS", c.Role))
	}
	if strings.TrimSpace(c.Provider) == "" {
		return ErrValidation(CodeInvalidConfig, "agent provider must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return ErrValidation(CodeInvalidConfig,
			fmt.Sprintf("temperature %.2f out of range [0.0, 1.0]", c.Temperature))
	}
	if c.MaxTokens <= 0 {
		return ErrValidation(CodeInvalidConfig, "max_tokens must be positive")
	}
	if c.Timeout <= 0 {
		return ErrValidation(CodeInvalidTimeout, "timeout must be positive")
	}
	return nil
}

// ValidateAgentSet verifies that exactly three configs are supplied and that
// their roles form the set {FOR, AGAINST, SYNTHESIS} with no duplicates.
func ValidateAgentSet(configs []AgentConfig) error {
	if len(configs) != 3 {
		return ErrValidation(CodeWrongAgentCount,
			fmt.Sprintf("debate requires exactly 3 agents, got %d", len(configs)))
	}

	seen := make(map[Role]string, 3)
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if prev, dup := seen[cfg.Role]; dup {
			return ErrValidation(CodeDuplicateRole,
				fmt.Sprintf("role %s assigned to both %q and %q", cfg.Role, prev, cfg.Name))
		}
		seen[cfg.Role] = cfg.Name
	}
	return nil
}

// SortAgentsByRole returns the configs in execution order FOR, AGAINST,
// SYNTHESIS. The input slice is not modified.
func SortAgentsByRole(configs []AgentConfig) []AgentConfig {
	ordered := make([]AgentConfig, len(configs))
	copy(ordered, configs)
	for i := range ordered {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].Role.stageIndex() < ordered[i].Role.stageIndex() {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}
	return ordered
}

// AgentResponse is the outcome of one agent invocation. Success and
// ErrorMessage are mutually exclusive: a failed response always carries a
// message, a successful one never does.
type AgentResponse struct {
	AgentName       string  `json:"agent_name"`
	Role            Role    `json:"role"`
	Provider        string  `json:"provider"`
	ModelName       string  `json:"model_name"`
	ResponseText    string  `json:"response_text"`
	ExecutionTimeMS int64   `json:"execution_time_ms"`
	Success         bool    `json:"success"`
	ErrorMessage    string  `json:"error_message,omitempty"`
	ExitCode        int     `json:"exit_code,omitempty"`
	TokensEstimate  int     `json:"tokens_estimate,omitempty"`
}

// NewSuccessResponse builds a successful response for a config.
func NewSuccessResponse(cfg AgentConfig, text string, elapsed time.Duration) AgentResponse {
	return AgentResponse{
		AgentName:       cfg.Name,
		Role:            cfg.Role,
		Provider:        cfg.Provider,
		ModelName:       cfg.ModelName,
		ResponseText:    text,
		ExecutionTimeMS: elapsed.Milliseconds(),
		Success:         true,
		TokensEstimate:  EstimateTokens(text),
	}
}

// NewFailureResponse builds a failed response carrying the error message.
func NewFailureResponse(cfg AgentConfig, errMsg string, elapsed time.Duration) AgentResponse {
	if errMsg == "" {
		errMsg = "agent execution failed"
	}
	return AgentResponse{
		AgentName:       cfg.Name,
		Role:            cfg.Role,
		Provider:        cfg.Provider,
		ModelName:       cfg.ModelName,
		ExecutionTimeMS: elapsed.Milliseconds(),
		Success:         false,
		ErrorMessage:    errMsg,
	}
}

// EstimateTokens gives a rough token count (~4 chars per token).
func EstimateTokens(text string) int {
	return len(text) / 4
}

// DebateRecord is the persisted aggregate describing one complete debate.
// AgentConfigs keep the caller's order; AgentResponses are always in
// execution order FOR, AGAINST, SYNTHESIS.
type DebateRecord struct {
	DebateID             string          `json:"debate_id"`
	Topic                Topic           `json:"topic"`
	AgentConfigs         []AgentConfig   `json:"agents_config"`
	AgentResponses       []AgentResponse `json:"agent_responses"`
	TotalExecutionTimeMS int64           `json:"total_execution_time_ms"`
	CreatedAt            time.Time       `json:"created_at"`
}

// NewDebateRecord assembles a record with a freshly generated identifier.
func NewDebateRecord(topic Topic, configs []AgentConfig, responses []AgentResponse, total time.Duration) *DebateRecord {
	return &DebateRecord{
		DebateID:             uuid.NewString(),
		Topic:                topic,
		AgentConfigs:         configs,
		AgentResponses:       responses,
		TotalExecutionTimeMS: total.Milliseconds(),
		CreatedAt:            time.Now().UTC(),
	}
}

// Response returns the response for a role, or nil if absent.
func (r *DebateRecord) Response(role Role) *AgentResponse {
	for i := range r.AgentResponses {
		if r.AgentResponses[i].Role == role {
			return &r.AgentResponses[i]
		}
	}
	return nil
}

// IndexEntry is the lightweight listing row kept alongside full records.
type IndexEntry struct {
	DebateID   string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	TopicTitle string    `json:"topic_title"`
}
