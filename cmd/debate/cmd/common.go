package cmd

import (
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/adapters/cli"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/adapters/store"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/config"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/render"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/service"
)

func newLogger() *logging.Logger {
	if quiet {
		return logging.NewNop()
	}
	return logging.New(logging.Config{
		Level:  appConfig.Log.Level,
		Format: appConfig.Log.Format,
	})
}

func newRenderer() render.Renderer {
	return render.Renderer{Color: !noColor}
}

func newStore() (core.DebateStore, error) {
	return store.New(appConfig.Storage.Backend, appConfig.Storage.Path)
}

func newRegistry(logger *logging.Logger) *cli.Registry {
	registry := cli.NewRegistry(logger)
	registry.SetPath("claude", appConfig.Agents.Claude.Path)
	registry.SetPath("gemini", appConfig.Agents.Gemini.Path)
	return registry
}

// newOrchestrator wires the full stack from loaded configuration. The
// returned closer releases store resources.
func newOrchestrator(logger *logging.Logger) (*service.Orchestrator, func(), error) {
	debateStore, err := newStore()
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}

	orchestrator, err := service.NewOrchestrator(newRegistry(logger), debateStore, logger)
	if err != nil {
		_ = store.Close(debateStore)
		return nil, nil, err
	}

	closer := func() { _ = store.Close(debateStore) }
	return orchestrator, closer, nil
}

// agentFromConfig builds one stage's agent config from the provider's
// file-level settings plus the debate-level timeout.
func agentFromConfig(name string, role core.Role, provider string, ac config.AgentConfig, timeout time.Duration) core.AgentConfig {
	cfg := core.NewAgentConfig(name, role, provider, ac.Model)
	if ac.Temperature > 0 {
		cfg.Temperature = ac.Temperature
	}
	if ac.MaxTokens > 0 {
		cfg.MaxTokens = ac.MaxTokens
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return cfg
}

// buildAgentSet assembles the three stage configs for a provider choice:
// "claude" or "gemini" runs all stages on one CLI, "mixed" argues on claude,
// rebuts on gemini and synthesizes on claude.
func buildAgentSet(provider string) ([]core.AgentConfig, error) {
	timeout := appConfig.Debate.StageTimeout()
	claude := appConfig.Agents.Claude
	gemini := appConfig.Agents.Gemini

	switch provider {
	case "claude":
		return []core.AgentConfig{
			agentFromConfig("claude-for", core.RoleFor, "claude", claude, timeout),
			agentFromConfig("claude-against", core.RoleAgainst, "claude", claude, timeout),
			agentFromConfig("claude-synthesis", core.RoleSynthesis, "claude", claude, timeout),
		}, nil
	case "gemini":
		return []core.AgentConfig{
			agentFromConfig("gemini-for", core.RoleFor, "gemini", gemini, timeout),
			agentFromConfig("gemini-against", core.RoleAgainst, "gemini", gemini, timeout),
			agentFromConfig("gemini-synthesis", core.RoleSynthesis, "gemini", gemini, timeout),
		}, nil
	case "mixed":
		return []core.AgentConfig{
			agentFromConfig("claude-for", core.RoleFor, "claude", claude, timeout),
			agentFromConfig("gemini-against", core.RoleAgainst, "gemini", gemini, timeout),
			agentFromConfig("claude-synthesis", core.RoleSynthesis, "claude", claude, timeout),
		}, nil
	default:
		return nil, core.ErrValidation(core.CodeInvalidConfig,
			fmt.Sprintf("unknown provider %q: must be claude, gemini or mixed", provider))
	}
}
