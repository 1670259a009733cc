package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/render"
)

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <debate-id>",
	Short: "Export a debate to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orchestrator, closeStore, err := newOrchestrator(newLogger())
		if err != nil {
			return err
		}
		defer closeStore()

		record, err := orchestrator.GetDebate(cmd.Context(), args[0])
		if err != nil {
			if core.IsNotFound(err) {
				return fmt.Errorf("debate not found: %s", args[0])
			}
			return err
		}

		content, err := exportContent(record, exportFormat)
		if err != nil {
			return err
		}

		if dir := filepath.Dir(exportOutput); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}
		if err := os.WriteFile(exportOutput, content, 0o644); err != nil {
			return fmt.Errorf("writing export file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Debate exported to %s\n", exportOutput)
		return nil
	},
}

func exportContent(record *core.DebateRecord, format string) ([]byte, error) {
	renderer := render.Renderer{}
	switch format {
	case "markdown":
		return []byte(renderer.Markdown(record)), nil
	case "text":
		return []byte(renderer.Text(record)), nil
	case "json":
		return json.MarshalIndent(record, "", "  ")
	case "yaml":
		return yaml.Marshal(record)
	default:
		return nil, fmt.Errorf("unknown format %q: must be markdown, json, text or yaml", format)
	}
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file path (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "markdown",
		"export format (markdown, json, text, yaml)")
	_ = exportCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(exportCmd)
}
