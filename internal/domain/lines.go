package domain

import "strings"

// SplitLines breaks content into newline-preserving line records. Every
// element keeps its trailing newline except possibly the last, so
// concatenating the result reproduces content byte for byte. Empty content
// yields an empty slice.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// CanInsertAt reports whether a new line may occupy 1-based position n in a
// document of total lines. Position total+1 appends; 0 and anything past
// total+1 are invalid.
func CanInsertAt(total, n int) bool {
	return n >= 1 && n <= total+1
}

// InsertLine returns a new slice with line at 1-based position n and the
// former occupant of n (if any) shifted down. The caller must have validated
// n with CanInsertAt.
func InsertLine(lines []string, n int, line string) []string {
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:n-1]...)
	out = append(out, line)
	out = append(out, lines[n-1:]...)
	return out
}
