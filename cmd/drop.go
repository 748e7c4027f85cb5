package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// DropRequest carries the positional arguments and flags of a drop
// invocation.
type DropRequest struct {
	Path        string
	Line        int
	Description string
	Kind        string
	Label       string
}

// DropResult holds the outcome of a drop operation.
type DropResult struct {
	Key                 string `json:"key"`
	Path                string `json:"path"`
	Line                int    `json:"line"`
	Kind                string `json:"kind"`
	Marker              string `json:"marker"`
	LedgerPath          string `json:"ledger_path"`
	LedgerReinitialized bool   `json:"ledger_reinitialized"`
	Planned             bool   `json:"planned"`
	Rejected            string `json:"rejected,omitempty"`
}

// DropRunner defines the interface for running the drop operation.
type DropRunner interface {
	Drop(ctx context.Context, req DropRequest, apply bool) (*DropResult, error)
}

// NewDropCmd creates the drop command with the given runner.
func NewDropCmd(runner DropRunner) *cobra.Command {
	var jsonOutput bool
	var label string

	cmd := &cobra.Command{
		Use:          "drop <file> <line> <description> [kind]",
		Short:        "Insert an anchor comment at a line and record it in the ledger",
		Args:         cobra.RangeArgs(3, 4),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil || line < 0 {
				return fmt.Errorf("invalid line number %q", args[1])
			}

			req := DropRequest{
				Path:        args[0],
				Line:        line,
				Description: args[2],
				Label:       label,
			}
			if len(args) == 4 {
				req.Kind = args[3]
			}

			isDryRun := GetDryRun()
			result, err := runner.Drop(cmd.Context(), req, !isDryRun)
			if err != nil {
				return err
			}

			if isDryRun {
				result.Planned = true
			}

			if jsonOutput || GetJSON() {
				writeJSON(cmd.OutOrStdout(), result)
				return nil
			}

			if result.Rejected != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Rejected)
				return nil
			}
			if result.LedgerReinitialized {
				fmt.Fprintln(cmd.OutOrStdout(), "Invalid anchors.json; reinitializing.")
			}
			if isDryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Would drop anchor %s at %s:%d\n", result.Key, result.Path, result.Line)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Anchor %s dropped at %s:%d\n", result.Key, result.Path, result.Line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().StringVar(&label, "label", "", "Derive the anchor key from this label instead of generating one")

	return cmd
}
