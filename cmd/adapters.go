package cmd

import (
	"context"
	"crypto/rand"

	"github.com/eykd/anchormark-go/internal/anchor"
	"github.com/eykd/anchormark-go/internal/comment"
	"github.com/eykd/anchormark-go/internal/config"
	"github.com/eykd/anchormark-go/internal/fs"
	"github.com/eykd/anchormark-go/internal/ledger"
	"github.com/spf13/cobra"
)

// anchorServicer abstracts the anchor.AnchorService methods used by adapters.
type anchorServicer interface {
	Drop(ctx context.Context, path string, line int, description string, opts ...anchor.DropOption) (*anchor.DropResult, error)
	List(ctx context.Context) (*anchor.ListResult, error)
	Check(ctx context.Context) (*anchor.CheckResult, error)
	Init(ctx context.Context) (*anchor.InitResult, error)
}

// --- dropAdapter ---

// dropAdapter converts drop requests into service calls. In compat mode
// (strict=false) anticipated invalid input becomes a rejected result
// instead of an error, matching the original tool's zero-exit surface.
type dropAdapter struct {
	svc    anchorServicer
	strict bool
}

func (a *dropAdapter) Drop(ctx context.Context, req DropRequest, apply bool) (*DropResult, error) {
	var opts []anchor.DropOption
	if req.Kind != "" {
		opts = append(opts, anchor.DropKind(req.Kind))
	}
	if req.Label != "" {
		opts = append(opts, anchor.DropLabel(req.Label))
	}
	if !apply {
		opts = append(opts, anchor.DropApply(false))
	}

	svcResult, err := a.svc.Drop(ctx, req.Path, req.Line, req.Description, opts...)
	if err != nil {
		if msg := compatMessage(err); msg != "" && !a.strict {
			return &DropResult{Path: req.Path, Line: req.Line, Rejected: msg}, nil
		}
		return nil, err
	}

	return &DropResult{
		Key:                 svcResult.Key,
		Path:                svcResult.Path,
		Line:                svcResult.Line,
		Kind:                svcResult.Kind,
		Marker:              svcResult.Marker,
		LedgerPath:          svcResult.LedgerPath,
		LedgerReinitialized: svcResult.Reinitialized,
		Planned:             svcResult.Planned,
	}, nil
}

// --- listAdapter ---

type listAdapter struct {
	svc anchorServicer
}

func (a *listAdapter) List(ctx context.Context) (*ListResult, error) {
	svcResult, err := a.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Anchors:             svcResult.Entries,
		LedgerPath:          svcResult.LedgerPath,
		LedgerReinitialized: svcResult.Reinitialized,
	}, nil
}

// --- checkAdapter ---

type checkAdapter struct {
	svc anchorServicer
}

func (a *checkAdapter) Check(ctx context.Context) (*CheckResult, error) {
	svcResult, err := a.svc.Check(ctx)
	if err != nil {
		return nil, err
	}

	findings := make([]CheckFinding, len(svcResult.Findings))
	for i, f := range svcResult.Findings {
		findings[i] = CheckFinding{
			Type:     FindingType(f.Type),
			Severity: Severity(f.Severity),
			Key:      f.Key,
			Path:     f.Path,
			Line:     f.Line,
			Message:  f.Message,
		}
	}
	return &CheckResult{
		Findings:            findings,
		Checked:             svcResult.Checked,
		LedgerReinitialized: svcResult.Reinitialized,
	}, nil
}

// --- initAdapter ---

type initAdapter struct {
	svc anchorServicer
}

func (a *initAdapter) Init(ctx context.Context) (*InitResult, error) {
	svcResult, err := a.svc.Init(ctx)
	if err != nil {
		return nil, err
	}
	return &InitResult{
		LedgerPath: svcResult.LedgerPath,
		Created:    svcResult.Created,
	}, nil
}

// --- production wiring ---

// wireAnchorService builds the production service from the resolved
// configuration.
func wireAnchorService(cfg *config.Config) *anchor.AnchorService {
	store := &ledger.Store{
		Dir:      cfg.Ledger.Dir,
		File:     cfg.Ledger.File,
		Recovery: recoveryPolicy(cfg.Ledger.Recovery),
	}
	return anchor.NewAnchorService(
		&fs.OSContentReader{},
		&fs.AtomicWriter{},
		&fs.KeyReserver{Rand: rand.Reader},
		comment.NewResolver(cfg.Comments),
		fs.SlugAdapter{},
		store,
	)
}

// recoveryPolicy maps the config enum onto the ledger package's policy.
func recoveryPolicy(name string) ledger.RecoveryPolicy {
	if name == config.RecoveryFail {
		return ledger.FailOnCorrupt
	}
	return ledger.ReinitializeOnCorrupt
}

// lazyRunner wires the production service when a command runs, after
// persistent flags have been parsed, so --config and $AMK_CONFIG take
// effect. It backs every runner interface in the production tree.
type lazyRunner struct {
	resolve func(flagPath string) (*config.Config, string, error)
}

func (r *lazyRunner) service() (anchorServicer, *config.Config, error) {
	cfg, _, err := r.resolve(GetConfigPath())
	if err != nil {
		return nil, nil, err
	}
	return wireAnchorService(cfg), cfg, nil
}

func (r *lazyRunner) Drop(ctx context.Context, req DropRequest, apply bool) (*DropResult, error) {
	svc, cfg, err := r.service()
	if err != nil {
		return nil, err
	}
	a := &dropAdapter{svc: svc, strict: cfg.Exit.Strict()}
	return a.Drop(ctx, req, apply)
}

func (r *lazyRunner) List(ctx context.Context) (*ListResult, error) {
	svc, _, err := r.service()
	if err != nil {
		return nil, err
	}
	a := &listAdapter{svc: svc}
	return a.List(ctx)
}

func (r *lazyRunner) Check(ctx context.Context) (*CheckResult, error) {
	svc, _, err := r.service()
	if err != nil {
		return nil, err
	}
	a := &checkAdapter{svc: svc}
	return a.Check(ctx)
}

func (r *lazyRunner) Init(ctx context.Context) (*InitResult, error) {
	svc, _, err := r.service()
	if err != nil {
		return nil, err
	}
	a := &initAdapter{svc: svc}
	return a.Init(ctx)
}

// BuildCommandTree assembles the root command with all subcommands
// registered. A non-nil service wires adapters around it directly (used
// by tests); nil wires the production path, which resolves configuration
// when a command runs. A nil resolve falls back to config.Resolve.
func BuildCommandTree(svc anchorServicer, resolve func(flagPath string) (*config.Config, string, error)) *cobra.Command {
	root := NewRootCmd()

	if resolve == nil {
		resolve = config.Resolve
	}

	var dropRunner DropRunner
	var listRunner ListRunner
	var checkRunner CheckRunner
	var initRunner InitRunner

	if svc != nil {
		dropRunner = &dropAdapter{svc: svc}
		listRunner = &listAdapter{svc: svc}
		checkRunner = &checkAdapter{svc: svc}
		initRunner = &initAdapter{svc: svc}
	} else {
		lazy := &lazyRunner{resolve: resolve}
		dropRunner = lazy
		listRunner = lazy
		checkRunner = lazy
		initRunner = lazy
	}

	root.AddCommand(NewDropCmd(dropRunner))
	root.AddCommand(NewListCmd(listRunner))
	root.AddCommand(NewCheckCmd(checkRunner))
	root.AddCommand(NewInitCmd(initRunner))

	return root
}
