// Package vaultadd sequences a vault add: resolve the source, classify it,
// put it on disk, register it in the workspace config, patch ignore files
// and ask for a reload.
package vaultadd

import (
	"context"
	"path/filepath"

	"github.com/ironyman/dendron/internal/materialize"
	"github.com/ironyman/dendron/internal/pathutil"
	"github.com/ironyman/dendron/internal/vault"
	"github.com/ironyman/dendron/internal/wsconfig"
	"go.uber.org/zap"
)

type materializer interface {
	Stage(ctx context.Context, url string) (*materialize.Staged, error)
	Discard(s *materialize.Staged)
	Materialize(ctx context.Context, layout vault.Layout, staged *materialize.Staged) (*materialize.Result, error)
}

type configStore interface {
	Load() (*wsconfig.Document, error)
	Update(fn func(wsconfig.Config) (wsconfig.Config, error)) (wsconfig.Config, error)
}

type ignorePatcher interface {
	EnsureRootEntry(wsRoot, vaultRel string) (bool, error)
	EnsureCacheEntry(vaultDir string) (bool, error)
}

// Outcome is what a successful add produced.
type Outcome struct {
	Layout          vault.Layout
	Vaults          []vault.Vault
	WorkspaceRemote *vault.WorkspaceRemote
	// Dir is the absolute vault (or workspace clone) directory.
	Dir string
	// Config is the workspace config as written.
	Config wsconfig.Config
	// Patched lists the ignore files that changed.
	Patched []string
}

// Orchestrator runs vault adds against one workspace root.
type Orchestrator struct {
	resolver     *pathutil.Resolver
	materializer materializer
	store        configStore
	patcher      ignorePatcher
	reloader     Reloader
	logger       *zap.Logger
}

// New creates an Orchestrator. Only the logger may be nil.
func New(resolver *pathutil.Resolver, m materializer, store configStore, patcher ignorePatcher, reloader Reloader, logger *zap.Logger) *Orchestrator {
	if resolver == nil {
		panic("resolver is required")
	}
	if m == nil {
		panic("materializer is required")
	}
	if store == nil {
		panic("store is required")
	}
	if patcher == nil {
		panic("patcher is required")
	}
	if reloader == nil {
		panic("reloader is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		resolver:     resolver,
		materializer: m,
		store:        store,
		patcher:      patcher,
		reloader:     reloader,
		logger:       logger,
	}
}

// Run adds the vault described by req. Every error is a *StageError.
// Config is only written once the content is on disk, and ignore files are
// only patched once config is written; earlier steps are not rolled back.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Outcome, error) {
	o.enter(StageResolve)
	if err := req.Validate(); err != nil {
		return nil, o.fail(StageResolve, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, o.fail(StageResolve, err)
	}

	var resolved pathutil.Resolved
	if req.SourceType == vault.SourceLocal && req.SourcePath != "" {
		r, err := o.resolver.Resolve(req.SourcePath)
		if err != nil {
			return nil, o.fail(StageResolve, err)
		}
		resolved = r
	}

	o.enter(StageClassify)
	current, err := o.loadConfig()
	if err != nil {
		return nil, o.fail(StageClassify, err)
	}
	selfContained := current.SelfContainedVaults
	if req.SelfContained != nil {
		selfContained = *req.SelfContained
	}

	in := vault.ClassifyInput{
		SourceType:           req.SourceType,
		SourcePath:           req.SourcePath,
		SourceName:           req.SourceName,
		RemoteURL:            req.SourcePathRemote,
		Resolved:             resolved,
		SelfContainedEnabled: selfContained,
	}

	// remotes are cloned first so the classifier knows what they hold
	var staged *materialize.Staged
	if req.SourceType == vault.SourceRemote {
		o.enter(StageMaterialize)
		staged, err = o.materializer.Stage(ctx, req.SourcePathRemote)
		if err != nil {
			return nil, o.fail(StageMaterialize, err)
		}
		in.Kind = staged.Kind
	}

	layout, err := vault.Classify(in)
	if err != nil {
		o.materializer.Discard(staged)
		return nil, o.fail(StageClassify, err)
	}
	o.logger.Debug("classified source", zap.String("layout", layoutName(layout)), zap.String("dest", layout.Dest()))

	// a conflicting workspace remote is reported before the clone is placed
	if ws, ok := layout.(vault.RemoteWorkspace); ok {
		wr := &vault.WorkspaceRemote{Name: ws.Name, Remote: *vault.GitRemote(ws.URL)}
		if _, err := wsconfig.Reconcile(current, wsconfig.Addition{WorkspaceRemote: wr}); err != nil {
			o.materializer.Discard(staged)
			return nil, o.fail(StageReconcile, err)
		}
	}

	o.enter(StageMaterialize)
	res, err := o.materializer.Materialize(ctx, layout, staged)
	if err != nil {
		return nil, o.fail(StageMaterialize, err)
	}

	o.enter(StageReconcile)
	add := wsconfig.Addition{Vaults: res.Vaults, WorkspaceRemote: res.WorkspaceRemote}
	cfg, err := o.store.Update(func(old wsconfig.Config) (wsconfig.Config, error) {
		return wsconfig.Reconcile(old, add)
	})
	if err != nil {
		return nil, o.fail(StageReconcile, err)
	}

	out := &Outcome{
		Layout:          layout,
		Vaults:          res.Vaults,
		WorkspaceRemote: res.WorkspaceRemote,
		Dir:             res.Dir,
		Config:          cfg,
	}

	o.enter(StagePatchIgnore)
	if err := o.patchIgnore(layout, res, out); err != nil {
		return nil, o.fail(StagePatchIgnore, err)
	}

	o.enter(StageReload)
	if err := o.reloader.Reload(ctx, cfg); err != nil {
		return nil, o.fail(StageReload, err)
	}

	for _, v := range res.Vaults {
		o.logger.Info("vault added",
			zap.String("fsPath", v.FsPath),
			zap.String("name", v.Name),
			zap.String("workspace", v.Workspace),
		)
	}
	return out, nil
}

// loadConfig reads the managed settings as they are before this add.
func (o *Orchestrator) loadConfig() (wsconfig.Config, error) {
	doc, err := o.store.Load()
	if err != nil {
		return wsconfig.Config{}, err
	}
	return doc.Config()
}

func (o *Orchestrator) patchIgnore(layout vault.Layout, res *materialize.Result, out *Outcome) error {
	root := o.resolver.Root()
	changed, err := o.patcher.EnsureRootEntry(root, layout.Dest())
	if err != nil {
		return err
	}
	if changed {
		out.Patched = append(out.Patched, filepath.Join(root, vault.GitIgnoreFile))
	}

	if !res.Fresh {
		return nil
	}
	changed, err = o.patcher.EnsureCacheEntry(res.Dir)
	if err != nil {
		return err
	}
	if changed {
		out.Patched = append(out.Patched, filepath.Join(res.Dir, vault.GitIgnoreFile))
	}
	return nil
}

func (o *Orchestrator) enter(stage Stage) {
	o.logger.Debug("vault add stage", zap.String("stage", string(stage)))
}

func (o *Orchestrator) fail(stage Stage, err error) error {
	o.logger.Debug("vault add stage failed", zap.String("stage", string(stage)), zap.Error(err))
	return &StageError{Stage: stage, Cause: err}
}

func layoutName(l vault.Layout) string {
	switch l.(type) {
	case vault.PlainLocal:
		return "plain"
	case vault.SelfContainedLocal:
		return "self-contained-local"
	case vault.RemoteVault:
		return "remote"
	case vault.RemoteWorkspace:
		return "remote-workspace"
	default:
		return "unknown"
	}
}
