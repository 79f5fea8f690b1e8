// Package cmd holds the CLI entrypoints.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shotlens/adapters/csvsource"
	"shotlens/adapters/excel"
	"shotlens/internal/config"
	"shotlens/ports"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "shotlens",
	Short: "Spatio-temporal shot chart analysis service",
	Long:  "Bin basketball shot logs into space-time tensors, factorize them through the compute sidecar, and serve cluster analytics over HTTP.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config (default $SHOTLENS_CONFIG)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(inspectCmd)
}

// newEventSource builds the configured league's event source.
func newEventSource(cfg *config.Config) (ports.EventSource, error) {
	switch cfg.League {
	case "bleague":
		return excel.NewSource(cfg.Excel), nil
	case "nba":
		return csvsource.NewSource(cfg.CSV), nil
	default:
		return nil, fmt.Errorf("unknown league %q", cfg.League)
	}
}
