package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook/pkg/core"
	"github.com/aretw0/notebook/pkg/export"
)

var (
	exportFormat string
	exportOut    string
	exportTitle  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render every note as JSON, YAML, Markdown or HTML",
	Long: `Export writes the whole notebook in another format, to standard output or
to the file named by --out. Without --format the format follows the extension of
--out, falling back to JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := exportFormat
		if !cmd.Flags().Changed("format") && exportOut != "" && filepath.Ext(exportOut) != "" {
			name = filepath.Ext(exportOut)
		}
		format, err := export.ParseFormat(name)
		if err != nil {
			return err
		}

		svc, cfg, err := openService(cmd)
		if err != nil {
			return err
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		opts := []export.Option{export.WithTitle(exportTitle), export.WithLocation(loc)}
		if exportOut == "" {
			return export.Write(cmd.OutOrStdout(), format, svc.Notes(), opts...)
		}

		if err := writeExportFile(exportOut, format, svc.Notes(), opts...); err != nil {
			return err
		}
		logger.Info("notes exported", "format", format, "path", exportOut, "notes", svc.Len())
		return nil
	},
}

// writeExportFile renders notes into path, reporting a failed Close as a write error.
func writeExportFile(path string, format export.Format, notes []core.Note, opts ...export.Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := export.Write(f, format, notes, opts...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", string(export.FormatJSON), "Output format: json, yaml, markdown or html")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to this file instead of stdout")
	exportCmd.Flags().StringVar(&exportTitle, "title", "Notebook", "Document title for markdown and html")
}
