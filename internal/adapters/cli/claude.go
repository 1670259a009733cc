package cli

import (
	"context"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

// ClaudeAdapter implements core.Agent for the Claude CLI.
type ClaudeAdapter struct {
	*BaseAdapter
}

// NewClaudeAdapter creates a new Claude adapter.
func NewClaudeAdapter(opts AdapterOptions) (core.Agent, error) {
	if opts.Path == "" {
		opts.Path = "claude"
	}
	return &ClaudeAdapter{BaseAdapter: NewBaseAdapter(opts)}, nil
}

// Name returns the adapter name.
func (c *ClaudeAdapter) Name() string {
	return "claude"
}

// Ping checks if the Claude CLI is available.
func (c *ClaudeAdapter) Ping(ctx context.Context) error {
	if err := c.CheckAvailability(ctx); err != nil {
		return err
	}
	_, err := c.GetVersion(ctx, "--version")
	return err
}

// Execute runs a prompt through the Claude CLI.
func (c *ClaudeAdapter) Execute(ctx context.Context, prompt string) core.AgentResponse {
	return c.run(ctx, c.buildArgs(prompt), func(s string) string { return s })
}

// buildArgs constructs CLI arguments. Print mode keeps the invocation
// non-interactive; the full prompt travels as the final argument.
func (c *ClaudeAdapter) buildArgs(prompt string) []string {
	return []string{
		"--model", c.config.ModelID,
		"--print", prompt,
	}
}

// Ensure ClaudeAdapter implements core.Agent
var _ core.Agent = (*ClaudeAdapter)(nil)
