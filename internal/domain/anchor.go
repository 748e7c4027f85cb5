package domain

import "time"

// LedgerVersion is the current anchors ledger schema version.
const LedgerVersion = 1

// StampLayout is the fixed UTC timestamp layout used throughout the ledger.
const StampLayout = "2006-01-02T15:04:05Z"

// StatusActive is the lifecycle status assigned to every entry at creation.
// No transition away from it exists.
const StatusActive = "active"

// DefaultKind is the category recorded when the caller supplies none.
const DefaultKind = "line"

// AnchorEntry is one inserted marker and its ledger metadata.
type AnchorEntry struct {
	Key         string `json:"key"`
	Path        string `json:"path"`
	Line        int    `json:"line"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Created     string `json:"created"`
}

// AnchorsRecord is the append-only anchor ledger.
type AnchorsRecord struct {
	Version   int           `json:"version"`
	Generated string        `json:"generated"`
	Anchors   []AnchorEntry `json:"anchors"`
}

// NewAnchorsRecord returns an empty ledger stamped at now.
func NewAnchorsRecord(now time.Time) *AnchorsRecord {
	return &AnchorsRecord{
		Version:   LedgerVersion,
		Generated: Stamp(now),
		Anchors:   []AnchorEntry{},
	}
}

// Append pushes entry onto the ledger and refreshes the generated stamp.
// Entries are never reordered, updated, or removed after this point.
func (r *AnchorsRecord) Append(entry AnchorEntry, now time.Time) {
	r.Anchors = append(r.Anchors, entry)
	r.Generated = Stamp(now)
}

// Stamp formats t as the ledger's fixed UTC timestamp.
func Stamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}
