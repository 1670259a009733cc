package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/logging"
)

// Orchestrator runs three-stage debates: FOR argues the topic, AGAINST
// rebuts with the FOR text in context, SYNTHESIS weighs both. Stages run
// strictly in that order regardless of how the caller ordered the configs,
// and a failed stage never aborts the debate: its response is recorded and
// whatever text it produced feeds the next stage.
type Orchestrator struct {
	factory core.AgentFactory
	store   core.DebateStore
	prompts *PromptRenderer
	logger  *logging.Logger
}

// NewOrchestrator wires an orchestrator from its ports.
func NewOrchestrator(factory core.AgentFactory, store core.DebateStore, logger *logging.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	prompts, err := NewPromptRenderer()
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		factory: factory,
		store:   store,
		prompts: prompts,
		logger:  logger,
	}, nil
}

// RunDebate executes a full debate and persists the record. The record is
// returned even when persistence fails, alongside the storage error, so the
// caller can still show the result it paid three model calls for.
func (o *Orchestrator) RunDebate(ctx context.Context, topic core.Topic, configs []core.AgentConfig) (*core.DebateRecord, error) {
	if err := topic.Validate(); err != nil {
		return nil, err
	}
	if err := core.ValidateAgentSet(configs); err != nil {
		return nil, err
	}

	ordered := core.SortAgentsByRole(configs)

	agents := make([]core.Agent, len(ordered))
	for i, cfg := range ordered {
		agent, err := o.factory.Create(cfg)
		if err != nil {
			return nil, err
		}
		agents[i] = agent
	}

	o.logger.Info("debate: starting",
		"topic", topic.Title,
		"agents", len(agents),
	)

	start := time.Now()
	responses := make([]core.AgentResponse, 0, len(ordered))

	var forText, againstText string
	for i, cfg := range ordered {
		resp := o.runStage(ctx, agents[i], cfg, topic, forText, againstText)
		responses = append(responses, resp)

		switch cfg.Role {
		case core.RoleFor:
			forText = resp.ResponseText
		case core.RoleAgainst:
			againstText = resp.ResponseText
		}
	}

	record := core.NewDebateRecord(topic, configs, responses, time.Since(start))

	o.logger.Info("debate: completed",
		"debate_id", record.DebateID,
		"total_ms", record.TotalExecutionTimeMS,
	)

	if _, err := o.store.Save(ctx, record); err != nil {
		o.logger.Error("debate: save failed",
			"debate_id", record.DebateID,
			"error", err,
		)
		return record, fmt.Errorf("saving debate %s: %w", record.DebateID, err)
	}

	return record, nil
}

// runStage builds the role's prompt and executes one agent. Prompt
// construction errors are folded into a failed response the same way the
// adapters fold execution errors, keeping the stage sequence intact.
func (o *Orchestrator) runStage(ctx context.Context, agent core.Agent, cfg core.AgentConfig, topic core.Topic, forText, againstText string) core.AgentResponse {
	prompt, err := o.prompts.BuildStagePrompt(cfg.Role, topic, forText, againstText)
	if err != nil {
		return core.NewFailureResponse(cfg, fmt.Sprintf("building prompt: %v", err), 0)
	}

	log := o.logger.WithStage(string(cfg.Role)).WithAgent(cfg.Name)
	log.Info("stage: executing", "provider", cfg.Provider, "model", cfg.ModelID)

	resp := agent.Execute(ctx, prompt)

	if resp.Success {
		log.Info("stage: completed",
			"elapsed_ms", resp.ExecutionTimeMS,
			"tokens_estimate", resp.TokensEstimate,
		)
	} else {
		log.Warn("stage: failed",
			"elapsed_ms", resp.ExecutionTimeMS,
			"error", resp.ErrorMessage,
		)
	}
	return resp
}

// GetDebate retrieves a stored debate by ID.
func (o *Orchestrator) GetDebate(ctx context.Context, id string) (*core.DebateRecord, error) {
	return o.store.Get(ctx, id)
}

// ListDebates returns up to limit stored debates, newest first.
func (o *Orchestrator) ListDebates(ctx context.Context, limit int) ([]*core.DebateRecord, error) {
	return o.store.List(ctx, limit)
}

// DeleteDebate removes a stored debate, reporting whether it existed.
func (o *Orchestrator) DeleteDebate(ctx context.Context, id string) (bool, error) {
	return o.store.Delete(ctx, id)
}
