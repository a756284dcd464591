package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find notes whose title or body contains the query",
	Long: `Search does a case-sensitive substring match over titles and bodies and
prints the matching titles in file order. An empty query lists every note.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd)
		if err != nil {
			return err
		}

		return printNotes(cmd, svc.Search(strings.Join(args, " ")), searchJSON)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
}
