package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every note",
	Long:  `Clear removes all notes and leaves an empty notes file behind.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			return errors.New("refusing to delete every note without --yes")
		}

		svc, _, err := openService(cmd)
		if err != nil {
			return err
		}

		count := svc.Len()
		if err := svc.ClearAll(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d notes.\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Confirm deletion of every note")
}
