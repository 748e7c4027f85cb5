// Package anchor provides the application service for dropping and
// verifying anchors.
package anchor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/eykd/anchormark-go/internal/domain"
)

// ContentReader abstracts reading a target file's full content. A
// missing file is reported by an error matching fs.ErrNotExist.
type ContentReader interface {
	ReadFile(ctx context.Context, path string) (string, error)
}

// FileWriter abstracts rewriting a target file's full content.
type FileWriter interface {
	WriteFile(ctx context.Context, path, content string) error
}

// KeyReserver abstracts generating a new anchor key.
type KeyReserver interface {
	Reserve(ctx context.Context) (string, error)
}

// StyleResolver abstracts mapping a target path to its comment style.
type StyleResolver interface {
	StyleFor(path string) domain.CommentStyle
}

// Slugger abstracts deriving a marker-safe key from a human label.
type Slugger interface {
	Slug(s string) string
}

// LedgerStore abstracts loading and saving the anchors ledger.
type LedgerStore interface {
	Load(ctx context.Context, now time.Time) (*domain.AnchorsRecord, bool, error)
	Save(ctx context.Context, record *domain.AnchorsRecord) error
	Exists(ctx context.Context) (bool, error)
	Path() string
}

// DropResult holds the outcome of a drop operation.
type DropResult struct {
	Key           string
	Path          string
	Line          int
	Kind          string
	Marker        string
	LedgerPath    string
	Reinitialized bool
	Planned       bool
}

// ListResult holds the ledger's entries.
type ListResult struct {
	Entries       []domain.AnchorEntry
	LedgerPath    string
	Reinitialized bool
}

// CheckResult holds the findings from verifying ledger entries against
// the files they reference.
type CheckResult struct {
	Findings      []domain.Finding
	Checked       int
	Reinitialized bool
}

// InitResult holds the outcome of an init operation.
type InitResult struct {
	LedgerPath string
	Created    bool
}

// AnchorService coordinates anchor drops against target files and the
// shared ledger.
type AnchorService struct {
	reader   ContentReader
	writer   FileWriter
	reserver KeyReserver
	styles   StyleResolver
	slugger  Slugger
	ledger   LedgerStore
	now      func() time.Time
}

// NewAnchorService creates an AnchorService with the given dependencies.
func NewAnchorService(reader ContentReader, writer FileWriter, reserver KeyReserver, styles StyleResolver, slugger Slugger, ledger LedgerStore) *AnchorService {
	return &AnchorService{
		reader:   reader,
		writer:   writer,
		reserver: reserver,
		styles:   styles,
		slugger:  slugger,
		ledger:   ledger,
		now:      time.Now,
	}
}

// DropOption configures a Drop call.
type DropOption func(*dropConfig)

type dropConfig struct {
	kind  string
	label string
	apply bool
}

// DropKind sets the entry's category label.
func DropKind(kind string) DropOption {
	return func(c *dropConfig) { c.kind = kind }
}

// DropLabel derives the anchor key from a slugged label instead of
// generating one.
func DropLabel(label string) DropOption {
	return func(c *dropConfig) { c.label = label }
}

// DropApply controls whether the target file and ledger are written.
// False plans the drop without touching either.
func DropApply(apply bool) DropOption {
	return func(c *dropConfig) { c.apply = apply }
}

// Drop inserts an anchor marker at the 1-based line of path and appends
// the matching entry to the ledger. Line total+1 appends the marker as
// the new last line.
func (s *AnchorService) Drop(ctx context.Context, path string, line int, description string, opts ...DropOption) (*DropResult, error) {
	cfg := dropConfig{kind: domain.DefaultKind, apply: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	content, err := s.reader.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	lines := domain.SplitLines(content)
	if !domain.CanInsertAt(len(lines), line) {
		return nil, &LineOutOfRangeError{Line: line, Total: len(lines)}
	}

	anchorKey, err := s.anchorKey(ctx, cfg.label)
	if err != nil {
		return nil, err
	}

	style := s.styles.StyleFor(path)
	result := &DropResult{
		Key:        anchorKey,
		Path:       path,
		Line:       line,
		Kind:       cfg.kind,
		Marker:     domain.MarkerText(style, anchorKey, description),
		LedgerPath: s.ledger.Path(),
	}

	if !cfg.apply {
		result.Planned = true
		return result, nil
	}

	updated := strings.Join(domain.InsertLine(lines, line, domain.MarkerLine(style, anchorKey, description)), "")
	if err := s.writer.WriteFile(ctx, path, updated); err != nil {
		return nil, fmt.Errorf("failed to write updated content to %s: %w", path, err)
	}

	record, reinitialized, err := s.ledger.Load(ctx, s.now())
	if err != nil {
		return nil, err
	}
	result.Reinitialized = reinitialized

	now := s.now()
	record.Append(domain.AnchorEntry{
		Key:         anchorKey,
		Path:        path,
		Line:        line,
		Kind:        cfg.kind,
		Description: description,
		Status:      domain.StatusActive,
		Created:     domain.Stamp(now),
	}, now)

	if err := s.ledger.Save(ctx, record); err != nil {
		return nil, err
	}

	slog.Debug("anchor dropped",
		slog.String("key", anchorKey),
		slog.String("path", path),
		slog.Int("line", line))

	return result, nil
}

// anchorKey generates a fresh key, or derives one when a label is set.
func (s *AnchorService) anchorKey(ctx context.Context, label string) (string, error) {
	if label == "" {
		generated, err := s.reserver.Reserve(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to generate anchor key: %w", err)
		}
		return generated, nil
	}

	slugged := s.slugger.Slug(label)
	if slugged == "" {
		return "", &EmptyLabelError{Label: label}
	}
	return slugged, nil
}

// List returns the ledger's entries without modifying the ledger.
func (s *AnchorService) List(ctx context.Context) (*ListResult, error) {
	record, reinitialized, err := s.ledger.Load(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Entries:       record.Anchors,
		LedgerPath:    s.ledger.Path(),
		Reinitialized: reinitialized,
	}, nil
}

// Check verifies that each ledger entry's marker is still present in
// its file at the recorded line. It reads files but writes nothing.
func (s *AnchorService) Check(ctx context.Context) (*CheckResult, error) {
	record, reinitialized, err := s.ledger.Load(ctx, s.now())
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		Checked:       len(record.Anchors),
		Reinitialized: reinitialized,
	}
	for _, entry := range record.Anchors {
		finding, ok, err := s.checkEntry(ctx, entry)
		if err != nil {
			return nil, err
		}
		if ok {
			result.Findings = append(result.Findings, finding)
		}
	}
	return result, nil
}

// checkEntry produces at most one finding for a ledger entry: a missing
// file, a marker that disappeared, or a marker found on another line.
func (s *AnchorService) checkEntry(ctx context.Context, entry domain.AnchorEntry) (domain.Finding, bool, error) {
	content, err := s.reader.ReadFile(ctx, entry.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Finding{
				Type:     domain.FindingMissingFile,
				Severity: domain.SeverityError,
				Key:      entry.Key,
				Path:     entry.Path,
				Line:     entry.Line,
				Message:  fmt.Sprintf("file %s not found", entry.Path),
			}, true, nil
		}
		return domain.Finding{}, false, fmt.Errorf("failed to read file %s: %w", entry.Path, err)
	}

	foundLine, found := domain.FindKey(domain.SplitLines(content), entry.Key)
	if !found {
		return domain.Finding{
			Type:     domain.FindingMissingAnchor,
			Severity: domain.SeverityError,
			Key:      entry.Key,
			Path:     entry.Path,
			Line:     entry.Line,
			Message:  fmt.Sprintf("anchor %s not found in %s", entry.Key, entry.Path),
		}, true, nil
	}
	if foundLine != entry.Line {
		return domain.Finding{
			Type:     domain.FindingLineDrift,
			Severity: domain.SeverityWarning,
			Key:      entry.Key,
			Path:     entry.Path,
			Line:     entry.Line,
			Message:  fmt.Sprintf("anchor %s recorded at %s:%d but found at line %d", entry.Key, entry.Path, entry.Line, foundLine),
		}, true, nil
	}
	return domain.Finding{}, false, nil
}

// Init creates the ledger directory and an empty ledger file when
// absent. A second run is a no-op reporting Created=false.
func (s *AnchorService) Init(ctx context.Context) (*InitResult, error) {
	result := &InitResult{LedgerPath: s.ledger.Path()}

	exists, err := s.ledger.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return result, nil
	}

	if err := s.ledger.Save(ctx, domain.NewAnchorsRecord(s.now())); err != nil {
		return nil, err
	}
	result.Created = true
	return result, nil
}
