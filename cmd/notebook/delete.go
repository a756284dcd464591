package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <title>",
	Short: "Delete a note",
	Long:  `Delete removes the note with the given title. Deleting a missing title changes nothing.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(strings.Join(args, " "))

		svc, _, err := openService(cmd)
		if err != nil {
			return err
		}

		removed, err := svc.Delete(cmd.Context(), title)
		if err != nil {
			return err
		}

		if !removed {
			fmt.Fprintf(cmd.OutOrStdout(), "No note titled '%s'.\n", title)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s\n", title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
