// Package cmd contains the CLI commands for the amk application.
package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

// verbose holds the global --verbose flag state.
var verbose bool

// jsonOut holds the global --json flag state.
var jsonOut bool

// dryRun holds the global --dry-run flag state.
var dryRun bool

// configPath holds the global --config flag state.
var configPath string

func init() {
	rootCmd = BuildCommandTree(nil, nil)
}

// GetVerbose returns the current verbose flag state.
// This is used by other packages to check if debug logging is enabled.
func GetVerbose() bool {
	return verbose
}

// GetJSON returns the current global --json flag state.
func GetJSON() bool {
	return jsonOut
}

// GetDryRun returns the current global --dry-run flag state.
func GetDryRun() bool {
	return dryRun
}

// GetConfigPath returns the --config flag value, empty when unset.
func GetConfigPath() string {
	return configPath
}

// NewRootCmd creates a new root command instance.
// This is useful for testing to get a fresh command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "amk",
		Short:         "Drop uniquely-keyed anchor comments into source files",
		Long:          "amk inserts uniquely-keyed anchor comments into source files and records them in a JSON ledger for later cross-referencing.",
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd.ErrOrStderr())
		},
	}

	// Add persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output results as JSON")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Plan the operation without writing anything")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $AMK_CONFIG, then .amk.yaml)")

	return cmd
}

// configureLogging installs the process-wide slog handler: debug level
// when --verbose is set, errors only otherwise. Log lines go to the
// command's error stream, never stdout.
func configureLogging(w io.Writer) {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Execute runs the root command and returns any error.
// Deprecated: Use ExecuteContext instead for proper signal handling.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context.
// This enables graceful shutdown via context cancellation (e.g., on SIGINT).
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
