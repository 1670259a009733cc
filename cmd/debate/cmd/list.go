package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored debates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if listLimit <= 0 {
			return fmt.Errorf("--limit must be a positive integer, got %d", listLimit)
		}

		orchestrator, closeStore, err := newOrchestrator(newLogger())
		if err != nil {
			return err
		}
		defer closeStore()

		records, err := orchestrator.ListDebates(cmd.Context(), listLimit)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), newRenderer().List(records))
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 10, "maximum debates to list")
	rootCmd.AddCommand(listCmd)
}
