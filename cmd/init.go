package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// InitResult holds the outcome of an init operation.
type InitResult struct {
	LedgerPath string `json:"ledger_path"`
	Created    bool   `json:"created"`
}

// InitRunner defines the interface for initializing the anchors ledger.
type InitRunner interface {
	Init(ctx context.Context) (*InitResult, error)
}

// NewInitCmd creates the init command with the given runner.
func NewInitCmd(runner InitRunner) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Create an empty anchors ledger",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runner.Init(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput || GetJSON() {
				writeJSON(cmd.OutOrStdout(), result)
				return nil
			}

			if result.Created {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized anchors ledger at %s\n", result.LedgerPath)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Anchors ledger already initialized at %s\n", result.LedgerPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}
