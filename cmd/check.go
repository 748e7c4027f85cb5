package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// FindingType represents the kind of check finding.
type FindingType string

const (
	// FindingMissingFile indicates an anchored file no longer exists.
	FindingMissingFile FindingType = "missing_file"
	// FindingMissingAnchor indicates a recorded marker is absent from its file.
	FindingMissingAnchor FindingType = "missing_anchor"
	// FindingLineDrift indicates a marker moved away from its recorded line.
	FindingLineDrift FindingType = "line_drift"
)

// Severity represents the severity level of a check finding.
type Severity string

const (
	// SeverityError represents an error-level finding.
	SeverityError Severity = "error"
	// SeverityWarning represents a warning-level finding.
	SeverityWarning Severity = "warning"
)

// CheckFinding represents a single finding from the check command.
type CheckFinding struct {
	Type     FindingType `json:"type"`
	Severity Severity    `json:"severity"`
	Key      string      `json:"key"`
	Path     string      `json:"path"`
	Line     int         `json:"line"`
	Message  string      `json:"message"`
}

// CheckResult holds all findings from a check run.
type CheckResult struct {
	Findings            []CheckFinding `json:"findings"`
	Checked             int            `json:"checked"`
	LedgerReinitialized bool           `json:"ledger_reinitialized"`
}

// CheckRunner defines the interface for verifying ledger entries.
type CheckRunner interface {
	Check(ctx context.Context) (*CheckResult, error)
}

// FindingsDetectedError is returned when check detects findings.
type FindingsDetectedError struct {
	Errors   int
	Warnings int
}

// Error implements the error interface.
func (e *FindingsDetectedError) Error() string {
	return fmt.Sprintf("check found %d errors, %d warnings", e.Errors, e.Warnings)
}

// ExitCode returns the exit code for findings (always 2).
func (e *FindingsDetectedError) ExitCode() int {
	return 2
}

// ExitCoder is implemented by errors that carry a specific process exit code.
type ExitCoder interface {
	ExitCode() int
}

// ExitCodeFromError returns the appropriate exit code for an error.
// nil returns 0, ExitCoder errors return their code, all others return 1.
func ExitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// checkJSONResponse is the JSON output structure for the check command.
type checkJSONResponse struct {
	Findings []CheckFinding `json:"findings"`
	Summary  struct {
		Errors   int `json:"errors"`
		Warnings int `json:"warnings"`
	} `json:"summary"`
	Checked             int  `json:"checked"`
	LedgerReinitialized bool `json:"ledger_reinitialized"`
}

// countBySeverity counts errors and warnings in a slice of findings.
func countBySeverity(findings []CheckFinding) (errCount, warnCount int) {
	for _, f := range findings {
		if f.Severity == SeverityError {
			errCount++
		} else {
			warnCount++
		}
	}
	return
}

// formatCheckJSON writes the check result as JSON to w.
func formatCheckJSON(w io.Writer, result *CheckResult, errCount, warnCount int) {
	findings := result.Findings
	if findings == nil {
		findings = []CheckFinding{}
	}
	out := checkJSONResponse{
		Findings:            findings,
		Checked:             result.Checked,
		LedgerReinitialized: result.LedgerReinitialized,
	}
	out.Summary.Errors = errCount
	out.Summary.Warnings = warnCount
	writeJSON(w, out)
}

// formatCheckHuman writes findings as human-readable text to w.
func formatCheckHuman(w io.Writer, findings []CheckFinding, errCount, warnCount int) {
	for _, f := range findings {
		fmt.Fprintf(w, "%s [%s] %s: %s\n", f.Path, f.Severity, f.Type, f.Message)
	}
	if errCount > 0 || warnCount > 0 {
		fmt.Fprintf(w, "\n%d error(s), %d warning(s)\n", errCount, warnCount)
	}
}

// runCheckAndReport runs the checker and formats findings as JSON or
// human-readable text. It returns a FindingsDetectedError if any
// findings are present.
func runCheckAndReport(cmd *cobra.Command, runner CheckRunner, jsonOutput bool) error {
	result, err := runner.Check(cmd.Context())
	if err != nil {
		return err
	}

	errCount, warnCount := countBySeverity(result.Findings)

	if jsonOutput {
		formatCheckJSON(cmd.OutOrStdout(), result, errCount, warnCount)
	} else {
		if result.LedgerReinitialized {
			fmt.Fprintln(cmd.ErrOrStderr(), "Invalid anchors.json; reinitializing.")
		}
		formatCheckHuman(cmd.OutOrStdout(), result.Findings, errCount, warnCount)
	}

	if len(result.Findings) > 0 {
		return &FindingsDetectedError{Errors: errCount, Warnings: warnCount}
	}
	return nil
}

// NewCheckCmd creates the check command with the given runner.
func NewCheckCmd(runner CheckRunner) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:          "check",
		Short:        "Verify recorded anchors against their files",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckAndReport(cmd, runner, jsonOutput || GetJSON())
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}
