package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	writeTitle string
	writeBody  string
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Create or replace a note",
	Long: `Create a note with the given title, or replace the body of the note that
already has it. The body is read from standard input when --body is not given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body := writeBody
		if !cmd.Flags().Changed("body") {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read body from stdin: %w", err)
			}
			body = string(data)
		}

		svc, _, err := openService(cmd)
		if err != nil {
			return err
		}

		note, created, err := svc.Upsert(cmd.Context(), writeTitle, body)
		if err != nil {
			return err
		}

		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "Note '%s' created.\n", note.Title)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Note '%s' updated.\n", note.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVarP(&writeTitle, "title", "t", "", "Note title")
	writeCmd.Flags().StringVarP(&writeBody, "body", "b", "", "Note body (default: read from stdin)")
	_ = writeCmd.MarkFlagRequired("title")
}
