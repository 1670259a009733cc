package core

import (
	"context"
)

// Agent defines the contract for AI agent CLI adapters. Execute never
// returns an error: every failure mode is folded into the response so that
// a single bad stage cannot abort the pipeline.
type Agent interface {
	// Name returns the adapter identifier (e.g., "claude", "gemini").
	Name() string

	// Ping checks if the agent CLI is available and responds.
	Ping(ctx context.Context) error

	// Execute runs a prompt through the agent and returns the response.
	Execute(ctx context.Context, prompt string) AgentResponse
}

// AgentFactory builds agents from configuration, keyed on the config's
// provider identifier.
type AgentFactory interface {
	Create(cfg AgentConfig) (Agent, error)
}

// DebateStore defines the contract for debate record persistence.
type DebateStore interface {
	// Save persists a record keyed by its debate ID and appends an index
	// entry for listing. Returns the debate ID.
	Save(ctx context.Context, record *DebateRecord) (string, error)

	// Get retrieves a record by ID. Returns a not_found error if absent.
	Get(ctx context.Context, id string) (*DebateRecord, error)

	// List returns up to limit records, most recently saved first. Index
	// entries whose underlying record is missing are skipped.
	List(ctx context.Context, limit int) ([]*DebateRecord, error)

	// Delete removes a record and its index entry, reporting whether
	// anything was removed.
	Delete(ctx context.Context, id string) (bool, error)
}
