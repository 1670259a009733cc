package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

var (
	viewFormat string
	viewRender bool
)

var viewCmd = &cobra.Command{
	Use:   "view <debate-id>",
	Short: "View a stored debate",
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

		renderer := newRenderer()
		out := cmd.OutOrStdout()

		switch viewFormat {
		case "markdown":
			if viewRender {
				ansi, err := renderer.MarkdownANSI(record, 0)
				if err != nil {
					return err
				}
				fmt.Fprint(out, ansi)
				return nil
			}
			fmt.Fprintln(out, renderer.Markdown(record))
		case "text":
			fmt.Fprintln(out, renderer.Text(record))
		default:
			return fmt.Errorf("unknown format %q: must be text or markdown", viewFormat)
		}
		return nil
	},
}

func init() {
	viewCmd.Flags().StringVar(&viewFormat, "format", "text", "output format (text, markdown)")
	viewCmd.Flags().BoolVar(&viewRender, "render", false,
		"render markdown with terminal styling (markdown format only)")
	rootCmd.AddCommand(viewCmd)
}
