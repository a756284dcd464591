package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook/internal/config"
	"github.com/aretw0/notebook/pkg/adapters/fs"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a notebook project",
	Long: `Initialize creates an empty notes.txt and a .notebook.json project config in
the given directory (default: the current directory). Existing files are kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if readOnly {
			return errors.New("cannot initialize a notebook in read-only mode")
		}

		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}

		notesPath := filepath.Join(dir, fs.DefaultFileName)
		f, err := os.OpenFile(notesPath, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", notesPath, err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		cfgPath, written, err := config.WriteProject(dir)
		if err != nil {
			return err
		}
		if !written {
			logger.Debug("project config already present", "path", cfgPath)
		}

		abs, _ := filepath.Abs(dir)
		fmt.Fprintln(cmd.OutOrStdout(), "Initialized notebook in", abs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
