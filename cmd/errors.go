package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/eykd/anchormark-go/internal/anchor"
	"github.com/spf13/cobra"
)

// FormatError formats an error with the "Error: " prefix and trailing
// newline.
func FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// compatMessage renders the original stdout message for an anticipated
// invalid-input error, or "" when err is not one of those conditions.
func compatMessage(err error) string {
	var notFound *anchor.FileNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("File %s not found.", notFound.Path)
	}
	var outOfRange *anchor.LineOutOfRangeError
	if errors.As(err, &outOfRange) {
		return fmt.Sprintf("Invalid line %d for file with %d lines.", outOfRange.Line, outOfRange.Total)
	}
	var emptyLabel *anchor.EmptyLabelError
	if errors.As(err, &emptyLabel) {
		return fmt.Sprintf("Label %q produces an empty key.", emptyLabel.Label)
	}
	return ""
}

// RunCLI executes the command with the given args, writing output to stdout
// and errors to stderr. It returns the appropriate exit code.
func RunCLI(cmd *cobra.Command, args []string, stdout io.Writer, stderr io.Writer) int {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprint(stderr, FormatError(err))
		return ExitCodeFromError(err)
	}
	return 0
}
