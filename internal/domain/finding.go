package domain

// FindingSeverity indicates how severe a finding is.
type FindingSeverity string

const (
	// SeverityError indicates a finding that must be resolved.
	SeverityError FindingSeverity = "error"
	// SeverityWarning indicates a finding that should be reviewed.
	SeverityWarning FindingSeverity = "warning"
)

// Finding type constants identify the kind of issue found.
const (
	FindingMissingFile   = "missing_file"
	FindingMissingAnchor = "missing_anchor"
	FindingLineDrift     = "line_drift"
)

// Finding represents an inconsistency between a ledger entry and the file it
// points at, discovered during a check operation.
type Finding struct {
	Type     string
	Severity FindingSeverity
	Key      string
	Path     string
	Line     int
	Message  string
}
