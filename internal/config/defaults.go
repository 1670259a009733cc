package config

// DefaultConfigYAML contains the default configuration YAML content,
// written by `debate init`.
const DefaultConfigYAML = `# debate-ai configuration
#
# Values not specified here use sensible defaults.

log:
  level: info
  format: auto

# Agent CLI configuration. Each agent shells out to the named executable.
agents:
  claude:
    path: claude
    model: haiku
    max_tokens: 2000
    temperature: 0.7

  gemini:
    path: gemini
    model: flash
    max_tokens: 2000
    temperature: 0.7

debate:
  # Per-stage agent timeout.
  timeout: 60s
  # Agent set used when --provider is not given: claude, gemini or mixed.
  default_provider: claude

storage:
  # json stores one file per debate plus an index; sqlite keeps everything
  # in a single database file.
  backend: json
  path: .debate/debates

server:
  addr: 127.0.0.1:8385
`
