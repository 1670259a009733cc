package service

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

//go:embed prompts/*.md.tmpl
var promptsFS embed.FS

// PromptRenderer renders stage prompts from embedded templates. Earlier
// stage responses are passed through verbatim, whether or not the stage
// succeeded: a failure message is context like any other.
type PromptRenderer struct {
	templates map[string]*template.Template
}

// NewPromptRenderer loads the stage templates from the embedded filesystem.
func NewPromptRenderer() (*PromptRenderer, error) {
	r := &PromptRenderer{
		templates: make(map[string]*template.Template),
	}
	if err := r.loadTemplates(); err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	return r, nil
}

func (r *PromptRenderer) loadTemplates() error {
	return fs.WalkDir(promptsFS, "prompts", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md.tmpl") {
			return nil
		}

		content, err := promptsFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		name := strings.TrimPrefix(path, "prompts/")
		name = strings.TrimSuffix(name, ".md.tmpl")

		tmpl, err := template.New(name).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		r.templates[name] = tmpl
		return nil
	})
}

// stagePromptParams feeds all three stage templates; later stages use the
// fields earlier ones ignore.
type stagePromptParams struct {
	Topic       core.Topic
	ForText     string
	AgainstText string
}

// BuildForPrompt renders the opening-argument prompt from the topic alone.
func (r *PromptRenderer) BuildForPrompt(topic core.Topic) (string, error) {
	return r.render("for", stagePromptParams{Topic: topic})
}

// BuildAgainstPrompt renders the counter-argument prompt, embedding the FOR
// stage's text unmodified.
func (r *PromptRenderer) BuildAgainstPrompt(topic core.Topic, forText string) (string, error) {
	return r.render("against", stagePromptParams{Topic: topic, ForText: forText})
}

// BuildSynthesisPrompt renders the synthesis prompt, embedding both prior
// stage texts unmodified.
func (r *PromptRenderer) BuildSynthesisPrompt(topic core.Topic, forText, againstText string) (string, error) {
	return r.render("synthesis", stagePromptParams{
		Topic:       topic,
		ForText:     forText,
		AgainstText: againstText,
	})
}

// BuildStagePrompt dispatches on role, threading prior stage texts through.
func (r *PromptRenderer) BuildStagePrompt(role core.Role, topic core.Topic, forText, againstText string) (string, error) {
	switch role {
	case core.RoleFor:
		return r.BuildForPrompt(topic)
	case core.RoleAgainst:
		return r.BuildAgainstPrompt(topic, forText)
	case core.RoleSynthesis:
		return r.BuildSynthesisPrompt(topic, forText, againstText)
	default:
		return "", core.ErrValidation(core.CodeInvalidRole,
			fmt.Sprintf("no prompt template for role %q", role))
	}
}

// HasTemplate checks if a template was loaded.
func (r *PromptRenderer) HasTemplate(name string) bool {
	_, ok := r.templates[name]
	return ok
}

func (r *PromptRenderer) render(name string, data stagePromptParams) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}
