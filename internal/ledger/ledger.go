// Package ledger persists the anchors record set as an indented JSON file.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/eykd/anchormark-go/internal/domain"
	"github.com/eykd/anchormark-go/internal/fs"
)

// RecoveryPolicy controls how Load treats a ledger file that exists but
// does not parse as an AnchorsRecord.
type RecoveryPolicy string

const (
	// ReinitializeOnCorrupt discards unparseable ledger content and
	// starts over with a fresh empty record. Prior entries are lost,
	// not repaired.
	ReinitializeOnCorrupt RecoveryPolicy = "reinitialize"
	// FailOnCorrupt refuses to proceed past an unparseable ledger.
	FailOnCorrupt RecoveryPolicy = "fail"
)

// CorruptLedgerError reports an unparseable ledger under FailOnCorrupt.
type CorruptLedgerError struct {
	Path string
	Err  error
}

// Error returns the formatted message.
func (e *CorruptLedgerError) Error() string {
	return fmt.Sprintf("anchors ledger %s is corrupt: %v", e.Path, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *CorruptLedgerError) Unwrap() error { return e.Err }

// Store reads and writes the anchors ledger at Dir/File. The zero
// Recovery value behaves as ReinitializeOnCorrupt.
type Store struct {
	Dir      string
	File     string
	Recovery RecoveryPolicy
}

// Path returns the full ledger file path.
func (s *Store) Path() string {
	return filepath.Join(s.Dir, s.File)
}

// Exists reports whether the ledger file is present.
func (s *Store) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.Path())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat anchors file %s: %w", s.Path(), err)
}

// Load reads the ledger. A missing file yields a fresh empty record
// stamped with now. An existing file that does not deserialize to a
// valid record is handled per the recovery policy: ReinitializeOnCorrupt
// returns a fresh record with reinitialized=true (the caller emits any
// user-facing warning), FailOnCorrupt returns a CorruptLedgerError.
func (s *Store) Load(_ context.Context, now time.Time) (*domain.AnchorsRecord, bool, error) {
	path := s.Path()
	data, err := os.ReadFile(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return domain.NewAnchorsRecord(now), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to open anchors file %s: %w", path, err)
	}

	record, err := decodeRecord(data)
	if err != nil {
		if s.Recovery == FailOnCorrupt {
			return nil, false, &CorruptLedgerError{Path: path, Err: err}
		}
		return domain.NewAnchorsRecord(now), true, nil
	}
	return record, false, nil
}

// Save writes the record as 2-space-indented JSON, creating the ledger
// directory as needed. The write goes through a temp file and rename.
func (s *Store) Save(_ context.Context, record *domain.AnchorsRecord) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Dir, err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize anchors record: %w", err)
	}

	path := s.Path()
	if err := fs.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write anchors file %s: %w", path, err)
	}

	slog.Debug("ledger saved", slog.String("path", path), slog.Int("entries", len(record.Anchors)))
	return nil
}

// decodeRecord parses and structurally validates ledger content. The
// version, generated, and anchors fields are all required, matching the
// schema every writer produces.
func decodeRecord(data []byte) (*domain.AnchorsRecord, error) {
	var record domain.AnchorsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	if record.Version < 1 {
		return nil, errors.New("missing or invalid version field")
	}
	if record.Generated == "" {
		return nil, errors.New("missing generated field")
	}
	if record.Anchors == nil {
		return nil, errors.New("missing anchors field")
	}
	return &record, nil
}
