package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/eykd/anchormark-go/internal/domain"
	"github.com/spf13/cobra"
)

// ListResult holds the outcome of a list operation.
type ListResult struct {
	Anchors             []domain.AnchorEntry `json:"anchors"`
	LedgerPath          string               `json:"ledger_path"`
	LedgerReinitialized bool                 `json:"ledger_reinitialized"`
}

// ListRunner defines the interface for running the list operation.
type ListRunner interface {
	List(ctx context.Context) (*ListResult, error)
}

// NewListCmd creates the list command with the given runner.
func NewListCmd(runner ListRunner) *cobra.Command {
	var jsonOutput bool
	var kindFilter string

	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List the anchors recorded in the ledger",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runner.List(cmd.Context())
			if err != nil {
				return err
			}

			entries := result.Anchors
			if kindFilter != "" {
				entries = filterByKind(entries, kindFilter)
			}

			if jsonOutput || GetJSON() {
				out := *result
				out.Anchors = entries
				if out.Anchors == nil {
					out.Anchors = []domain.AnchorEntry{}
				}
				writeJSON(cmd.OutOrStdout(), &out)
				return nil
			}

			if result.LedgerReinitialized {
				fmt.Fprintln(cmd.ErrOrStderr(), "Invalid anchors.json; reinitializing.")
			}
			renderEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().StringVar(&kindFilter, "kind", "", "Show only anchors of this kind")

	return cmd
}

// filterByKind returns only the entries recorded with the given kind.
func filterByKind(entries []domain.AnchorEntry, kind string) []domain.AnchorEntry {
	var filtered []domain.AnchorEntry
	for _, e := range entries {
		if e.Kind == kind {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// renderEntries writes one line per anchor: key, location, kind,
// description.
func renderEntries(w io.Writer, entries []domain.AnchorEntry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s:%d [%s] %s\n", e.Key, e.Path, e.Line, e.Kind, e.Description)
	}
}
