package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report edits made to the notes file by other programs",
	Long: `Watch keeps running and, every time another program changes the notes file,
reloads it and prints the new list of titles. Stop it with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		svc, cfg, err := openService(cmd)
		if err != nil {
			return err
		}

		events, err := svc.Watch(ctx)
		if err != nil {
			return err
		}

		source := lifecycle.NewSource(svc, events)
		if err := source.Start(ctx); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Watching %s (%d notes)\n", cfg.NotesFile, svc.Len())

		for event := range source.Events() {
			if reload, ok := event.(lifecycle.Reload); ok && reload.Err != nil {
				logger.Error("reload failed", "change", reload.Change, "error", reload.Err)
				continue
			}
			fmt.Fprintln(out, event)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
