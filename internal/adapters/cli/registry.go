package cli

import (
	"fmt"
	"sync"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
)

// AgentFactory creates an agent adapter from construction options.
type AgentFactory func(opts AdapterOptions) (core.Agent, error)

// Registry manages available CLI agent factories, keyed by provider.
// Unlike the adapters themselves, the registry is shared, so access is
// guarded for concurrent debates.
type Registry struct {
	factories map[string]AgentFactory
	paths     map[string]string
	logger    *logging.Logger
	mu        sync.RWMutex
}

// NewRegistry creates a registry with the built-in providers registered.
func NewRegistry(logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Registry{
		factories: make(map[string]AgentFactory),
		paths:     make(map[string]string),
		logger:    logger,
	}
	r.RegisterFactory("claude", NewClaudeAdapter)
	r.RegisterFactory("gemini", NewGeminiAdapter)
	return r
}

// RegisterFactory registers a factory for a provider.
func (r *Registry) RegisterFactory(provider string, factory AgentFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[provider] = factory
}

// SetPath overrides the executable path for a provider.
func (r *Registry) SetPath(provider, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[provider] = path
}

// Create builds an agent for the given configuration. Each call returns a
// fresh adapter: invocations share no state, so debates may run
// concurrently without coordination.
func (r *Registry) Create(cfg core.AgentConfig) (core.Agent, error) {
	r.mu.RLock()
	factory, ok := r.factories[cfg.Provider]
	path := r.paths[cfg.Provider]
	r.mu.RUnlock()

	if !ok {
		return nil, core.ErrValidation(core.CodeInvalidConfig,
			fmt.Sprintf("unknown provider: %s", cfg.Provider))
	}

	agent, err := factory(AdapterOptions{
		Path:   path,
		Config: cfg,
		Logger: r.logger.WithAgent(cfg.Name),
	})
	if err != nil {
		return nil, fmt.Errorf("creating agent %s: %w", cfg.Name, err)
	}
	return agent, nil
}

// Has checks if a provider is registered.
func (r *Registry) Has(provider string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[provider]
	return ok
}

// Providers returns the registered provider names.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// Ensure Registry satisfies the orchestrator's factory contract.
var _ core.AgentFactory = (*Registry)(nil)
