package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook"
	"github.com/aretw0/notebook/internal/config"
	"github.com/aretw0/notebook/pkg/core"
)

var (
	verbose    bool
	notesFile  string
	configPath string
	readOnly   bool

	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notebook",
	Short: "A tiny study notebook kept in a single text file",
	Long: `notebook stores short notes keyed by title in one plain text file.
Notes can be written, read, searched, exported and edited interactively, while the
file stays readable and editable in any text editor.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&notesFile, "file", "f", "", "Notes file (default: notes.txt in the project root or current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Explicit config file (JSONC)")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Refuse any change to the notes file")
}

// loadConfig resolves the layered configuration for the current invocation.
func loadConfig(cmd *cobra.Command) (config.Config, config.Sources, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.Config{}, config.Sources{}, fmt.Errorf("failed to get working directory: %w", err)
	}

	var overrides config.Overrides
	if cmd.Flags().Changed("file") {
		overrides.NotesFile = notesFile
	}
	if cmd.Flags().Changed("read-only") {
		ro := readOnly
		overrides.ReadOnly = &ro
	}

	return config.Load(cwd, configPath, overrides, os.Environ())
}

// openService builds the note store and loads the notes file.
func openService(cmd *cobra.Command) (*core.Service, config.Config, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, config.Config{}, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, config.Config{}, err
	}

	svc, err := notebook.New(cfg.NotesFile,
		notebook.WithLogger(logger),
		notebook.WithReadOnly(cfg.IsReadOnly()),
		notebook.WithLocation(loc),
	)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to open notebook: %w", err)
	}

	if _, err := svc.Load(cmd.Context()); err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to load notes: %w", err)
	}

	return svc, cfg, nil
}
