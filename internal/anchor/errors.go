package anchor

import "fmt"

// FileNotFoundError reports a drop target that does not exist. It is
// anticipated invalid input, not an operational failure.
type FileNotFoundError struct {
	Path string
}

// Error returns the formatted message.
func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file %s not found", e.Path)
}

// ExitCode marks anticipated invalid input for strict exit handling.
func (e *FileNotFoundError) ExitCode() int { return 2 }

// LineOutOfRangeError reports an insertion line outside 1..total+1.
type LineOutOfRangeError struct {
	Line  int
	Total int
}

// Error returns the formatted message.
func (e *LineOutOfRangeError) Error() string {
	return fmt.Sprintf("invalid line %d for file with %d lines", e.Line, e.Total)
}

// ExitCode marks anticipated invalid input for strict exit handling.
func (e *LineOutOfRangeError) ExitCode() int { return 2 }

// EmptyLabelError reports a label that slugs down to nothing, leaving
// no characters to form a key from.
type EmptyLabelError struct {
	Label string
}

// Error returns the formatted message.
func (e *EmptyLabelError) Error() string {
	return fmt.Sprintf("label %q produces an empty key", e.Label)
}

// ExitCode marks anticipated invalid input for strict exit handling.
func (e *EmptyLabelError) ExitCode() int { return 2 }
