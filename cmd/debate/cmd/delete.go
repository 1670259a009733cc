package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <debate-id>",
	Short: "Delete a stored debate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orchestrator, closeStore, err := newOrchestrator(newLogger())
		if err != nil {
			return err
		}
		defer closeStore()

		deleted, err := orchestrator.DeleteDebate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("debate not found: %s", args[0])
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted debate %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
