package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
)

// AdapterOptions holds adapter construction parameters. Path is the CLI
// executable; everything else comes from the agent's debate configuration.
type AdapterOptions struct {
	Path   string
	Config core.AgentConfig
	Logger *logging.Logger
}

// BaseAdapter provides common CLI execution functionality shared by the
// provider adapters.
type BaseAdapter struct {
	path   string
	config core.AgentConfig
	logger *logging.Logger
}

// NewBaseAdapter creates a new base adapter.
func NewBaseAdapter(opts AdapterOptions) *BaseAdapter {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BaseAdapter{
		path:   opts.Path,
		config: opts.Config,
		logger: logger,
	}
}

// Config returns the agent configuration the adapter was built with.
func (b *BaseAdapter) Config() core.AgentConfig {
	return b.config
}

// CommandResult holds the result of a CLI execution.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// ExecuteCommand runs the agent CLI with the given arguments, bounded by
// the configured per-stage timeout. Stdout and stderr are captured
// separately. A non-zero exit code is not an error: only a timeout and a
// missing executable are distinguished failure kinds.
func (b *BaseAdapter) ExecuteCommand(ctx context.Context, args []string) (*CommandResult, error) {
	timeout := b.config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if b.path == "" {
		return nil, core.ErrValidation(core.CodeInvalidConfig, "adapter path not configured")
	}

	// Handle multi-word commands (e.g., "npx gemini")
	cmdPath := b.path
	cmdParts := strings.Fields(cmdPath)
	if len(cmdParts) > 1 {
		cmdPath = cmdParts[0]
		args = append(cmdParts[1:], args...)
	}

	// #nosec G204 -- command path and args come from validated config
	cmd := exec.CommandContext(ctx, cmdPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "DEBATE_MANAGED=true", fmt.Sprintf("DEBATE_AGENT=%s", b.config.Name))

	b.logger.Info("cli: executing command",
		"agent", b.config.Name,
		"path", cmdPath,
		"model", b.config.ModelID,
		"timeout", timeout,
	)

	startTime := time.Now()

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, core.ErrExecution(core.CodeAgentNotFound,
				fmt.Sprintf("CLI command not found: %s", cmdPath)).WithCause(err)
		}
		return nil, fmt.Errorf("starting command: %w", err)
	}

	// Wait reaps the process; on timeout CommandContext has already killed
	// it and Wait confirms termination before we return.
	err := cmd.Wait()
	duration := time.Since(startTime)

	result := &CommandResult{
		Stdout:   toText(stdout.Bytes()),
		Stderr:   toText(stderr.Bytes()),
		Duration: duration,
	}

	if ctx.Err() == context.DeadlineExceeded {
		b.logger.Error("cli: command timeout",
			"agent", b.config.Name,
			"path", cmdPath,
			"duration", duration,
			"timeout", timeout,
		)
		return result, core.ErrTimeout(
			fmt.Sprintf("agent %s timed out after %v", b.config.Name, timeout))
	}

	// A canceled parent context also kills the child; the resulting exit
	// error must not read as a completed run.
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		b.logger.Warn("cli: command canceled",
			"agent", b.config.Name,
			"path", cmdPath,
			"duration", duration,
		)
		return result, core.ErrExecution(core.CodeAgentFailed,
			fmt.Sprintf("agent %s canceled after %v", b.config.Name, duration)).WithCause(ctx.Err())
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Abnormal exit still carries whatever the agent printed.
			result.ExitCode = exitErr.ExitCode()
			b.logger.Warn("cli: command exited non-zero",
				"agent", b.config.Name,
				"exit_code", result.ExitCode,
				"duration", duration,
				"stderr_length", len(result.Stderr),
			)
			return result, nil
		}
		return result, fmt.Errorf("executing command: %w", err)
	}

	b.logger.Info("cli: command completed",
		"agent", b.config.Name,
		"duration", duration,
		"stdout_length", len(result.Stdout),
	)

	return result, nil
}

// run executes the agent CLI and folds every failure mode into a
// well-formed AgentResponse. sanitize is the provider-specific output
// cleanup applied to stdout on success.
func (b *BaseAdapter) run(ctx context.Context, args []string, sanitize func(string) string) (resp core.AgentResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = core.NewFailureResponse(b.config, fmt.Sprintf("unexpected failure: %v", r), 0)
		}
	}()

	start := time.Now()
	result, err := b.ExecuteCommand(ctx, args)

	switch {
	case err == nil:
		text := strings.TrimSpace(sanitize(result.Stdout))
		resp = core.NewSuccessResponse(b.config, text, result.Duration)
		resp.ExitCode = result.ExitCode
		return resp

	case core.IsCategory(err, core.ErrCatTimeout):
		elapsed := time.Since(start)
		if result != nil {
			elapsed = result.Duration
		}
		return core.NewFailureResponse(b.config, err.Error(), elapsed)

	case errors.Is(err, core.ErrExecution(core.CodeAgentNotFound, "")):
		return core.NewFailureResponse(b.config, err.Error(), 0)

	default:
		return core.NewFailureResponse(b.config, err.Error(), time.Since(start))
	}
}

// CheckAvailability verifies the CLI binary exists on PATH.
func (b *BaseAdapter) CheckAvailability(_ context.Context) error {
	cmdPath := b.path
	if parts := strings.Fields(cmdPath); len(parts) > 1 {
		cmdPath = parts[0]
	}
	if _, err := exec.LookPath(cmdPath); err != nil {
		return core.ErrExecution(core.CodeAgentNotFound,
			fmt.Sprintf("CLI command not found: %s", cmdPath)).WithCause(err)
	}
	return nil
}

// GetVersion runs the CLI with a version flag, bounded by a short timeout.
func (b *BaseAdapter) GetVersion(ctx context.Context, versionFlag string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmdPath := b.path
	args := []string{versionFlag}
	if parts := strings.Fields(cmdPath); len(parts) > 1 {
		cmdPath = parts[0]
		args = append(parts[1:], args...)
	}

	out, err := exec.CommandContext(ctx, cmdPath, args...).Output() // #nosec G204
	if err != nil {
		return "", fmt.Errorf("getting version: %w", err)
	}
	return strings.TrimSpace(toText(out)), nil
}

// toText decodes process output as UTF-8, replacing invalid sequences.
func toText(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
