package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

// fakeAgent records the prompts it receives and replies from a script.
type fakeAgent struct {
	cfg     core.AgentConfig
	reply   func(prompt string) core.AgentResponse
	prompts []string
	mu      sync.Mutex
}

func (f *fakeAgent) Name() string { return f.cfg.Provider }

func (f *fakeAgent) Ping(context.Context) error { return nil }

func (f *fakeAgent) Execute(_ context.Context, prompt string) core.AgentResponse {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.reply != nil {
		return f.reply(prompt)
	}
	return core.NewSuccessResponse(f.cfg, fmt.Sprintf("%s says ok", f.cfg.Role), 5*time.Millisecond)
}

// fakeFactory hands out fakeAgents keyed by role and counts invocations.
type fakeFactory struct {
	agents  map[core.Role]*fakeAgent
	created []core.Role
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{agents: make(map[core.Role]*fakeAgent)}
}

func (f *fakeFactory) Create(cfg core.AgentConfig) (core.Agent, error) {
	f.created = append(f.created, cfg.Role)
	agent, ok := f.agents[cfg.Role]
	if !ok {
		agent = &fakeAgent{cfg: cfg}
		f.agents[cfg.Role] = agent
	} else {
		agent.cfg = cfg
	}
	return agent, nil
}

// fakeStore keeps records in memory and can be told to fail saves.
type fakeStore struct {
	records map[string]*core.DebateRecord
	order   []string
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*core.DebateRecord)}
}

func (s *fakeStore) Save(_ context.Context, record *core.DebateRecord) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.records[record.DebateID] = record
	s.order = append(s.order, record.DebateID)
	return record.DebateID, nil
}

func (s *fakeStore) Get(_ context.Context, id string) (*core.DebateRecord, error) {
	record, ok := s.records[id]
	if !ok {
		return nil, core.ErrNotFound("debate", id)
	}
	return record, nil
}

func (s *fakeStore) List(_ context.Context, limit int) ([]*core.DebateRecord, error) {
	var out []*core.DebateRecord
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[s.order[i]])
	}
	return out, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

func debateConfigs() []core.AgentConfig {
	return []core.AgentConfig{
		core.NewAgentConfig("pro", core.RoleFor, "claude", "haiku"),
		core.NewAgentConfig("con", core.RoleAgainst, "gemini", "flash"),
		core.NewAgentConfig("judge", core.RoleSynthesis, "claude", "sonnet"),
	}
}

func newTestOrchestrator(t *testing.T, factory core.AgentFactory, store core.DebateStore) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(factory, store, nil)
	if err != nil {
		t.Fatalf("NewOrchestrator() error = %v", err)
	}
	return o
}

func TestRunDebateExecutionOrder(t *testing.T) {
	factory := newFakeFactory()
	store := newFakeStore()
	o := newTestOrchestrator(t, factory, store)

	// Hand configs in scrambled order; execution must still be
	// FOR, AGAINST, SYNTHESIS.
	configs := debateConfigs()
	scrambled := []core.AgentConfig{configs[2], configs[0], configs[1]}

	record, err := o.RunDebate(context.Background(), testTopic, scrambled)
	if err != nil {
		t.Fatalf("RunDebate() error = %v", err)
	}

	wantOrder := []core.Role{core.RoleFor, core.RoleAgainst, core.RoleSynthesis}
	if len(factory.created) != 3 {
		t.Fatalf("created %d agents, want 3", len(factory.created))
	}
	for i, role := range wantOrder {
		if factory.created[i] != role {
			t.Errorf("creation order[%d] = %s, want %s", i, factory.created[i], role)
		}
		if record.AgentResponses[i].Role != role {
			t.Errorf("response order[%d] = %s, want %s", i, record.AgentResponses[i].Role, role)
		}
	}

	// Caller's config order is preserved in the record.
	if record.AgentConfigs[0].Role != core.RoleSynthesis {
		t.Error("record should keep the caller's config order")
	}
}

func TestRunDebateContextPassing(t *testing.T) {
	factory := newFakeFactory()
	o := newTestOrchestrator(t, factory, newFakeStore())

	if _, err := o.RunDebate(context.Background(), testTopic, debateConfigs()); err != nil {
		t.Fatalf("RunDebate() error = %v", err)
	}

	forText := "FOR says ok"
	againstPrompt := factory.agents[core.RoleAgainst].prompts[0]
	if !strings.Contains(againstPrompt, forText) {
		t.Errorf("AGAINST prompt missing FOR response:\n%s", againstPrompt)
	}

	synthesisPrompt := factory.agents[core.RoleSynthesis].prompts[0]
	if !strings.Contains(synthesisPrompt, forText) {
		t.Error("SYNTHESIS prompt missing FOR response")
	}
	if !strings.Contains(synthesisPrompt, "AGAINST says ok") {
		t.Error("SYNTHESIS prompt missing AGAINST response")
	}
}

func TestRunDebateFailedStageContinues(t *testing.T) {
	factory := newFakeFactory()
	cfg := core.NewAgentConfig("pro", core.RoleFor, "claude", "haiku")
	factory.agents[core.RoleFor] = &fakeAgent{
		cfg: cfg,
		reply: func(string) core.AgentResponse {
			return core.NewFailureResponse(cfg, "agent pro timed out after 60s", 60*time.Second)
		},
	}
	o := newTestOrchestrator(t, factory, newFakeStore())

	record, err := o.RunDebate(context.Background(), testTopic, debateConfigs())
	if err != nil {
		t.Fatalf("RunDebate() error = %v", err)
	}

	if len(record.AgentResponses) != 3 {
		t.Fatalf("got %d responses, want all 3 stages recorded", len(record.AgentResponses))
	}
	if record.AgentResponses[0].Success {
		t.Error("FOR stage should be recorded as failed")
	}
	if !record.AgentResponses[1].Success || !record.AgentResponses[2].Success {
		t.Error("later stages should still run after a failure")
	}

	// The failed stage produced no text, so the AGAINST prompt carries an
	// empty context block rather than the error message.
	againstPrompt := factory.agents[core.RoleAgainst].prompts[0]
	if strings.Contains(againstPrompt, "timed out") {
		t.Error("error message should not leak into the next prompt")
	}
}

func TestRunDebateValidation(t *testing.T) {
	factory := newFakeFactory()
	o := newTestOrchestrator(t, factory, newFakeStore())
	ctx := context.Background()

	tests := []struct {
		name    string
		topic   core.Topic
		configs []core.AgentConfig
	}{
		{"empty topic", core.Topic{}, debateConfigs()},
		{"two agents", testTopic, debateConfigs()[:2]},
		{"duplicate role", testTopic, []core.AgentConfig{
			core.NewAgentConfig("a", core.RoleFor, "claude", "haiku"),
			core.NewAgentConfig("b", core.RoleFor, "gemini", "flash"),
			core.NewAgentConfig("c", core.RoleSynthesis, "claude", "sonnet"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.RunDebate(ctx, tt.topic, tt.configs)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !core.IsCategory(err, core.ErrCatValidation) {
				t.Errorf("category = %v, want validation", core.GetCategory(err))
			}
		})
	}

	if len(factory.created) != 0 {
		t.Errorf("no agents should be created on validation failure, got %d", len(factory.created))
	}
}

func TestRunDebateSaveFailureStillReturnsRecord(t *testing.T) {
	store := newFakeStore()
	store.saveErr = core.ErrStorage(core.CodeSaveFailed, "disk full")
	o := newTestOrchestrator(t, newFakeFactory(), store)

	record, err := o.RunDebate(context.Background(), testTopic, debateConfigs())
	if err == nil {
		t.Fatal("expected storage error to propagate")
	}
	if !errors.Is(err, store.saveErr) {
		t.Errorf("error chain should carry the storage error, got %v", err)
	}
	if record == nil {
		t.Fatal("record must be returned despite save failure")
	}
	if len(record.AgentResponses) != 3 {
		t.Errorf("returned record incomplete: %d responses", len(record.AgentResponses))
	}
}

func TestRunDebateTotalTimeCoversStages(t *testing.T) {
	factory := newFakeFactory()
	cfg := core.NewAgentConfig("pro", core.RoleFor, "claude", "haiku")
	factory.agents[core.RoleFor] = &fakeAgent{
		cfg: cfg,
		reply: func(string) core.AgentResponse {
			time.Sleep(30 * time.Millisecond)
			return core.NewSuccessResponse(cfg, "ok", 30*time.Millisecond)
		},
	}
	o := newTestOrchestrator(t, factory, newFakeStore())

	record, err := o.RunDebate(context.Background(), testTopic, debateConfigs())
	if err != nil {
		t.Fatalf("RunDebate() error = %v", err)
	}
	if record.TotalExecutionTimeMS < 30 {
		t.Errorf("TotalExecutionTimeMS = %d, want at least the slowest stage", record.TotalExecutionTimeMS)
	}
}

func TestOrchestratorStoreDelegation(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(t, newFakeFactory(), store)
	ctx := context.Background()

	record, err := o.RunDebate(ctx, testTopic, debateConfigs())
	if err != nil {
		t.Fatalf("RunDebate() error = %v", err)
	}

	got, err := o.GetDebate(ctx, record.DebateID)
	if err != nil {
		t.Fatalf("GetDebate() error = %v", err)
	}
	if got.DebateID != record.DebateID {
		t.Errorf("GetDebate() returned %s, want %s", got.DebateID, record.DebateID)
	}

	list, err := o.ListDebates(ctx, 10)
	if err != nil {
		t.Fatalf("ListDebates() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("ListDebates() = %d records, want 1", len(list))
	}

	deleted, err := o.DeleteDebate(ctx, record.DebateID)
	if err != nil || !deleted {
		t.Errorf("DeleteDebate() = (%v, %v), want (true, nil)", deleted, err)
	}

	if _, err := o.GetDebate(ctx, record.DebateID); !core.IsNotFound(err) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
}
