package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

func TestClaudeBuildArgs(t *testing.T) {
	cfg := core.NewAgentConfig("for", core.RoleFor, "claude", "sonnet")
	agent, err := NewClaudeAdapter(AdapterOptions{Config: cfg})
	if err != nil {
		t.Fatalf("NewClaudeAdapter() error = %v", err)
	}

	claude := agent.(*ClaudeAdapter)
	args := claude.buildArgs("argue for the motion")

	want := []string{"--model", "claude-sonnet-4-5-20250929", "--print", "argue for the motion"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestGeminiBuildArgs(t *testing.T) {
	cfg := core.NewAgentConfig("against", core.RoleAgainst, "gemini", "flash")
	agent, err := NewGeminiAdapter(AdapterOptions{Config: cfg})
	if err != nil {
		t.Fatalf("NewGeminiAdapter() error = %v", err)
	}

	gemini := agent.(*GeminiAdapter)
	args := gemini.buildArgs("argue against the motion")

	want := []string{"--yolo", "-m", "gemini-2.5-flash", "argue against the motion"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestAdapterDefaultPaths(t *testing.T) {
	claude, _ := NewClaudeAdapter(AdapterOptions{Config: core.NewAgentConfig("a", core.RoleFor, "claude", "haiku")})
	if got := claude.(*ClaudeAdapter).path; got != "claude" {
		t.Errorf("claude default path = %q", got)
	}

	gemini, _ := NewGeminiAdapter(AdapterOptions{Config: core.NewAgentConfig("b", core.RoleAgainst, "gemini", "flash")})
	if got := gemini.(*GeminiAdapter).path; got != "gemini" {
		t.Errorf("gemini default path = %q", got)
	}

	custom, _ := NewClaudeAdapter(AdapterOptions{
		Path:   "/opt/bin/claude",
		Config: core.NewAgentConfig("c", core.RoleSynthesis, "claude", "opus"),
	})
	if got := custom.(*ClaudeAdapter).path; got != "/opt/bin/claude" {
		t.Errorf("custom path = %q", got)
	}
}

func TestCleanGeminiOutput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "drops credential lines",
			input: "Loaded cached credentials.\nThe actual answer.",
			want:  "The actual answer.",
		},
		{
			name:  "case insensitive",
			input: "Refreshing CREDENTIALS now\nanswer",
			want:  "answer",
		},
		{
			name:  "clean text untouched",
			input: "line one\nline two",
			want:  "line one\nline two",
		},
		{
			name:  "credential word mid-answer still dropped",
			input: "keep this\nnever log credentials in output\nkeep that",
			want:  "keep this\nkeep that",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanGeminiOutput(tt.input); got != tt.want {
				t.Errorf("cleanGeminiOutput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry(nil)

	models := map[string]string{"claude": "haiku", "gemini": "flash"}
	for provider, model := range models {
		cfg := core.NewAgentConfig(provider+"-agent", core.RoleFor, provider, model)

		agent, err := r.Create(cfg)
		if err != nil {
			t.Fatalf("Create(%s) error = %v", provider, err)
		}
		if agent.Name() != provider {
			t.Errorf("Name() = %q, want %q", agent.Name(), provider)
		}
	}
}

func TestRegistryCreateUnknownProvider(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Create(core.NewAgentConfig("x", core.RoleFor, "cohere", "command"))
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !core.IsCategory(err, core.ErrCatValidation) {
		t.Errorf("category = %v, want validation", core.GetCategory(err))
	}
	if !strings.Contains(err.Error(), "cohere") {
		t.Errorf("error should name the provider, got %v", err)
	}
}

func TestRegistryCreateReturnsFreshAdapters(t *testing.T) {
	r := NewRegistry(nil)
	cfg := core.NewAgentConfig("a", core.RoleFor, "claude", "haiku")

	first, err := r.Create(cfg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Create(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("Create should return a fresh adapter per call")
	}
}

func TestRegistrySetPath(t *testing.T) {
	r := NewRegistry(nil)
	r.SetPath("claude", "/usr/local/bin/claude-dev")

	agent, err := r.Create(core.NewAgentConfig("a", core.RoleFor, "claude", "haiku"))
	if err != nil {
		t.Fatal(err)
	}
	if got := agent.(*ClaudeAdapter).path; got != "/usr/local/bin/claude-dev" {
		t.Errorf("path = %q, want override applied", got)
	}
}

func TestRegistryProviders(t *testing.T) {
	r := NewRegistry(nil)

	if !r.Has("claude") || !r.Has("gemini") {
		t.Error("built-in providers should be registered")
	}
	if r.Has("copilot") {
		t.Error("unregistered provider reported as present")
	}
	if got := len(r.Providers()); got != 2 {
		t.Errorf("Providers() count = %d, want 2", got)
	}
}

func TestAdapterTimeoutFromConfig(t *testing.T) {
	cfg := core.NewAgentConfig("a", core.RoleFor, "claude", "haiku")
	cfg.Timeout = 42 * time.Second

	agent, _ := NewClaudeAdapter(AdapterOptions{Config: cfg})
	if got := agent.(*ClaudeAdapter).config.Timeout; got != 42*time.Second {
		t.Errorf("Timeout = %v, want 42s", got)
	}
}
