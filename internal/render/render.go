// Package render formats debate records for terminal display and export.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

const rule = 70

// Styles applied when color output is enabled.
var (
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	styleRole    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

var roleHeadings = map[core.Role]string{
	core.RoleFor:       "Affirmative Argument",
	core.RoleAgainst:   "Negative Argument",
	core.RoleSynthesis: "Synthesis",
}

// Renderer formats debate records. Color controls whether terminal styles
// are applied to the text format; markdown output is always plain.
type Renderer struct {
	Color bool
}

// Text formats a record for terminal display.
func (r Renderer) Text(record *core.DebateRecord) string {
	var b strings.Builder

	line := strings.Repeat("=", rule)
	b.WriteString(line + "\n")
	b.WriteString(r.styled(styleHeader, fmt.Sprintf("  DEBATE: %s", record.Topic.Title)) + "\n")
	b.WriteString(line + "\n\n")

	b.WriteString("TOPIC DESCRIPTION:\n")
	b.WriteString(record.Topic.Description + "\n\n")

	for i, resp := range record.AgentResponses {
		b.WriteString(strings.Repeat("-", rule) + "\n")
		b.WriteString(r.styled(styleRole, fmt.Sprintf("%d. %s ARGUMENT", i+1, resp.Role)) + "\n")
		b.WriteString(fmt.Sprintf("Agent: %s\n", resp.AgentName))
		b.WriteString(fmt.Sprintf("Model: %s\n", resp.ModelName))
		b.WriteString(fmt.Sprintf("Execution Time: %dms\n\n", resp.ExecutionTimeMS))

		if resp.Success {
			b.WriteString(resp.ResponseText + "\n\n")
		} else {
			b.WriteString(r.styled(styleError, fmt.Sprintf("FAILED: %s", resp.ErrorMessage)) + "\n\n")
		}
	}

	b.WriteString(strings.Repeat("-", rule) + "\n")
	b.WriteString("SUMMARY\n")
	b.WriteString(fmt.Sprintf("Total Execution Time: %dms\n", record.TotalExecutionTimeMS))
	b.WriteString(fmt.Sprintf("Created: %s\n", record.CreatedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Debate ID: %s\n", record.DebateID))
	b.WriteString(line)

	return b.String()
}

// Markdown formats a record as a markdown document.
func (r Renderer) Markdown(record *core.DebateRecord) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s\n\n", record.Topic.Title))
	b.WriteString("## Topic Description\n\n")
	b.WriteString(record.Topic.Description + "\n\n")

	for i, resp := range record.AgentResponses {
		heading := roleHeadings[resp.Role]
		if heading == "" {
			heading = string(resp.Role)
		}

		b.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, heading))
		b.WriteString(fmt.Sprintf("**Agent:** %s\n\n", resp.AgentName))
		b.WriteString(fmt.Sprintf("**Model:** %s\n\n", resp.ModelName))
		b.WriteString(fmt.Sprintf("**Execution Time:** %dms\n\n", resp.ExecutionTimeMS))

		if resp.Success {
			b.WriteString(resp.ResponseText + "\n\n")
		} else {
			b.WriteString(fmt.Sprintf("_Stage failed: %s_\n\n", resp.ErrorMessage))
		}
	}

	b.WriteString("---\n")
	b.WriteString("## Metadata\n\n")
	b.WriteString(fmt.Sprintf("- **Total Execution Time:** %dms\n", record.TotalExecutionTimeMS))
	b.WriteString(fmt.Sprintf("- **Debate ID:** `%s`\n", record.DebateID))
	b.WriteString(fmt.Sprintf("- **Created:** %s\n", record.CreatedAt.Format("2006-01-02 15:04:05")))

	return b.String()
}

// List formats record summaries for terminal display.
func (r Renderer) List(records []*core.DebateRecord) string {
	if len(records) == 0 {
		return "No debates found."
	}

	var b strings.Builder
	b.WriteString(r.styled(styleHeader, "Stored Debates:") + "\n\n")

	for i, record := range records {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, record.Topic.Title))
		b.WriteString(r.styled(styleMuted, fmt.Sprintf("   ID: %s", record.DebateID)) + "\n")
		b.WriteString(r.styled(styleMuted,
			fmt.Sprintf("   Created: %s", record.CreatedAt.Format("2006-01-02 15:04:05"))) + "\n")
		b.WriteString(r.styled(styleMuted,
			fmt.Sprintf("   Agents: %d", len(record.AgentResponses))) + "\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Summary formats a one-line per stage outcome report for after a run.
func (r Renderer) Summary(record *core.DebateRecord) string {
	var b strings.Builder
	for _, resp := range record.AgentResponses {
		status := r.styled(styleSuccess, "ok")
		if !resp.Success {
			status = r.styled(styleError, "failed")
		}
		b.WriteString(fmt.Sprintf("%-10s %-8s %6dms  %s\n",
			resp.Role, status, resp.ExecutionTimeMS, resp.AgentName))
	}
	return b.String()
}

// MarkdownANSI renders the record's markdown form for rich terminal
// display.
func (r Renderer) MarkdownANSI(record *core.DebateRecord, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := renderer.Render(r.Markdown(record))
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func (r Renderer) styled(style lipgloss.Style, s string) string {
	if !r.Color {
		return s
	}
	return style.Render(s)
}
