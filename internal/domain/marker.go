package domain

import (
	"fmt"
	"strings"
)

// CommentStyle is a prefix/suffix pair of comment delimiters.
type CommentStyle struct {
	Prefix string
	Suffix string
}

// MarkerText builds the anchor comment for a key and description, without a
// trailing newline: <prefix> CLAUDE_ANCHOR[key=<key>] <description><suffix>
func MarkerText(style CommentStyle, key, description string) string {
	return fmt.Sprintf("%s CLAUDE_ANCHOR[key=%s] %s%s", style.Prefix, key, description, style.Suffix)
}

// MarkerLine is MarkerText terminated with a newline, ready to insert into a
// line sequence.
func MarkerLine(style CommentStyle, key, description string) string {
	return MarkerText(style, key, description) + "\n"
}

// KeyTag returns the substring that identifies the anchor with the given key
// wherever it appears in a file.
func KeyTag(key string) string {
	return "CLAUDE_ANCHOR[key=" + key + "]"
}

// FindKey scans lines for the anchor tag of key and returns the 1-based line
// number of the first match.
func FindKey(lines []string, key string) (int, bool) {
	tag := KeyTag(key)
	for i, line := range lines {
		if strings.Contains(line, tag) {
			return i + 1, true
		}
	}
	return 0, false
}
