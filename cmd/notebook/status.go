package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/notebook"
	"github.com/aretw0/notebook/internal/config"
)

type component struct {
	Type  string `json:"type"`
	State any    `json:"state"`
}

type statusReport struct {
	Version    string         `json:"version"`
	Config     config.Config  `json:"config"`
	Sources    config.Sources `json:"sources"`
	Components []component    `json:"components"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and internal state as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, sources, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		svc, cfg, err := openService(cmd)
		if err != nil {
			return err
		}

		report := statusReport{
			Version: strings.TrimSpace(notebook.Version),
			Config:  cfg,
			Sources: sources,
		}
		for _, c := range []any{svc, svc.Repository()} {
			inspectable, ok := c.(introspection.Introspectable)
			if !ok {
				continue
			}
			entry := component{State: inspectable.State()}
			if named, ok := c.(introspection.Component); ok {
				entry.Type = named.ComponentType()
			}
			report.Components = append(report.Components, entry)
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to encode status: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
