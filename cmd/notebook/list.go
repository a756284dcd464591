package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook/pkg/core"
)

var (
	listJSON  bool
	listMatch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List note titles in file order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd)
		if err != nil {
			return err
		}

		notes := svc.Notes()
		if listMatch != "" {
			notes, err = core.MatchTitles(notes, listMatch)
			if err != nil {
				return err
			}
		}

		return printNotes(cmd, notes, listJSON)
	},
}

// printNotes writes titles one per line, or the full notes as a JSON array.
func printNotes(cmd *cobra.Command, notes []core.Note, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		if notes == nil {
			notes = []core.Note{}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(notes); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	}

	for _, note := range notes {
		fmt.Fprintln(out, note.Title)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only titles matching a glob pattern (e.g. 'Math*')")
}
