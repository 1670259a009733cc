package cli

import (
	"context"
	"strings"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

// GeminiAdapter implements core.Agent for the Gemini CLI.
type GeminiAdapter struct {
	*BaseAdapter
}

// NewGeminiAdapter creates a new Gemini adapter.
func NewGeminiAdapter(opts AdapterOptions) (core.Agent, error) {
	if opts.Path == "" {
		opts.Path = "gemini"
	}
	return &GeminiAdapter{BaseAdapter: NewBaseAdapter(opts)}, nil
}

// Name returns the adapter name.
func (g *GeminiAdapter) Name() string {
	return "gemini"
}

// Ping checks if the Gemini CLI is available.
func (g *GeminiAdapter) Ping(ctx context.Context) error {
	if err := g.CheckAvailability(ctx); err != nil {
		return err
	}
	_, err := g.GetVersion(ctx, "--version")
	return err
}

// Execute runs a prompt through the Gemini CLI.
func (g *GeminiAdapter) Execute(ctx context.Context, prompt string) core.AgentResponse {
	return g.run(ctx, g.buildArgs(prompt), cleanGeminiOutput)
}

// buildArgs constructs CLI arguments for Gemini. Yolo mode keeps the run
// headless.
func (g *GeminiAdapter) buildArgs(prompt string) []string {
	return []string{
		"--yolo",
		"-m", g.config.ModelID,
		prompt,
	}
}

// cleanGeminiOutput drops credential noise the Gemini CLI mixes into
// stdout (e.g. "Loaded cached credentials.") so only the model's answer
// remains.
func cleanGeminiOutput(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "credentials") {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

// Ensure GeminiAdapter implements core.Agent
var _ core.Agent = (*GeminiAdapter)(nil)
