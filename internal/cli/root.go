package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/greendilt/digicarbon/internal/config"
	"github.com/greendilt/digicarbon/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the digicarbon CLI.
// It loads the configuration, wires up logging and tracing, and registers
// the calculate, factors, interactive, serve and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "digicarbon",
		Short:   "Digital carbon footprint calculator",
		Long:    "digicarbon: Estimate the annual CO2e footprint of devices, digital activities and AI tools",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				cfg, err := config.Load(path)
				if err != nil {
					return fmt.Errorf("loading configuration: %w", err)
				}
				config.SetGlobalConfig(cfg)
			}

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "configuration file (default $DIGICARBON_HOME/config.yaml)")
	cmd.AddCommand(
		NewCalculateCmd(), NewFactorsCmd(), NewInteractiveCmd(),
		NewServeCmd(), newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Calculate the footprint described in a snapshot file
  digicarbon calculate footprint.yaml

  # Calculate several snapshots as NDJSON with reproducible tips
  digicarbon calculate --output ndjson --seed 7 alice.json bob.json

  # Read a snapshot from stdin
  cat footprint.json | digicarbon calculate -

  # Show the emission factors used for students
  digicarbon factors --role student

  # Fill in the questionnaire in the terminal
  digicarbon interactive

  # Serve the HTTP API
  digicarbon serve --addr :8080

  # Write the default configuration
  digicarbon config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd())
	return cmd
}
