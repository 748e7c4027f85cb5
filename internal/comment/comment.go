// Package comment maps file paths to the comment style used when
// rendering anchor markers into them.
package comment

import (
	"path/filepath"
	"strings"

	"github.com/eykd/anchormark-go/internal/domain"
)

// builtin holds the default comment styles by lowercase file
// extension, including the leading dot.
var builtin = map[string]domain.CommentStyle{
	".py":   {Prefix: "#"},
	".js":   {Prefix: "//"},
	".ts":   {Prefix: "//"},
	".go":   {Prefix: "//"},
	".c":    {Prefix: "//"},
	".cpp":  {Prefix: "//"},
	".java": {Prefix: "//"},
	".rs":   {Prefix: "//"},
	".zig":  {Prefix: "//"},
	".sql":  {Prefix: "--"},
	".html": {Prefix: "<!--", Suffix: " -->"},
	".htm":  {Prefix: "<!--", Suffix: " -->"},
}

// fallback is used for unknown extensions and extensionless paths.
var fallback = domain.CommentStyle{Prefix: "//"}

// Resolver selects a comment style for a path, consulting
// user-configured overrides before the built-in table.
type Resolver struct {
	overrides map[string]domain.CommentStyle
}

// NewResolver returns a Resolver with the given extension overrides.
// Override keys are normalized to lowercase with a leading dot, so
// "PY", "py", and ".py" all configure the same extension.
func NewResolver(overrides map[string]domain.CommentStyle) *Resolver {
	normalized := make(map[string]domain.CommentStyle, len(overrides))
	for ext, style := range overrides {
		normalized[normalizeExt(ext)] = style
	}
	return &Resolver{overrides: normalized}
}

// StyleFor returns the comment style for path based on its extension.
// The extension comparison is case-insensitive.
func (r *Resolver) StyleFor(path string) domain.CommentStyle {
	ext := strings.ToLower(filepath.Ext(path))
	if style, ok := r.overrides[ext]; ok {
		return style
	}
	if style, ok := builtin[ext]; ok {
		return style
	}
	return fallback
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
