package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook/pkg/adapters/fs"
)

var (
	readJSON bool
)

var readCmd = &cobra.Command{
	Use:   "read <title>",
	Short: "Print a note",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")

		svc, cfg, err := openService(cmd)
		if err != nil {
			return err
		}

		note, ok := svc.Get(strings.TrimSpace(title))
		if !ok {
			return fmt.Errorf("note %q not found", title)
		}

		out := cmd.OutOrStdout()
		if readJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(note)
		}

		fmt.Fprintln(out, note.Title)
		if note.UpdatedAt != nil {
			loc, _ := cfg.Location()
			fmt.Fprintf(out, "Updated: %s\n", note.UpdatedAt.In(loc).Format(fs.TimestampLayout))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, note.Body)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
}
