package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/render"
)

var (
	runTopic       string
	runDescription string
	runProvider    string
	runOutput      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a debate on the given topic",
	Long: `Run a three-stage debate. The FOR agent argues the topic, the AGAINST
agent rebuts with the FOR argument in context, and the SYNTHESIS agent weighs
both. The record is stored and its ID printed for later viewing or export.`,
	RunE: runDebate,
}

func init() {
	runCmd.Flags().StringVar(&runTopic, "topic", "", "debate topic title (required)")
	runCmd.Flags().StringVar(&runDescription, "description", "", "debate topic description (required)")
	runCmd.Flags().StringVar(&runProvider, "provider", "",
		"agent provider: claude, gemini or mixed (default from config)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "also write the result to a file")
	_ = runCmd.MarkFlagRequired("topic")
	_ = runCmd.MarkFlagRequired("description")

	rootCmd.AddCommand(runCmd)
}

func runDebate(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	provider := runProvider
	if provider == "" {
		provider = appConfig.Debate.DefaultProvider
	}

	configs, err := buildAgentSet(provider)
	if err != nil {
		return err
	}

	orchestrator, closeStore, err := newOrchestrator(logger)
	if err != nil {
		return err
	}
	defer closeStore()

	topic := core.Topic{Title: runTopic, Description: runDescription}

	out := cmd.OutOrStdout()
	if !quiet {
		fmt.Fprintf(out, "Starting debate: %s\n", topic.Title)
		fmt.Fprintf(out, "Provider: %s\n\n", provider)
	}

	record, runErr := orchestrator.RunDebate(cmd.Context(), topic, configs)
	if record == nil {
		return runErr
	}

	renderer := newRenderer()
	fmt.Fprintln(out, renderer.Text(record))

	if runOutput != "" {
		// File output is always uncolored.
		plain := render.Renderer{}.Text(record)
		if err := os.WriteFile(runOutput, []byte(plain), 0o644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		fmt.Fprintf(out, "\nDebate written to %s\n", runOutput)
	}

	fmt.Fprintf(out, "\nDebate ID: %s\n", record.DebateID)

	// The debate ran; a failed save is reported after the results.
	return runErr
}
