// Package materialize puts vault content at its destination: it clones
// remotes into a staging directory, probes them, and moves them into place,
// or creates and copies local vaults.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ironyman/dendron/internal/pathutil"
	"github.com/ironyman/dendron/internal/vault"
	"go.uber.org/zap"
)

const stagingPattern = ".dendron.clone-*"

// fileSystem is the filesystem surface the materializer needs.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	Exists(path string) (bool, error)
	ReadFile(path string) ([]byte, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
	EnsureDirs(path string) error
	IsEmptyDir(path string) (bool, error)
	ListDir(path string) ([]string, error)
	CopyDir(src, dst string) error
	Rename(oldPath, newPath string) error
	RemoveAll(path string) error
	MkdirTemp(dir, pattern string) (string, error)
}

// cloner populates dest with a working tree of url.
type cloner interface {
	Clone(ctx context.Context, url, dest string) error
}

// Result describes what was put on disk.
type Result struct {
	// Vaults are the config entries for the new content.
	Vaults []vault.Vault
	// WorkspaceRemote is set for workspace clones.
	WorkspaceRemote *vault.WorkspaceRemote
	// Dir is the absolute directory that was materialized.
	Dir string
	// Fresh is true when Dir was created by this run.
	Fresh bool
}

// Staged is a remote checked out into a temporary directory inside the
// workspace root, waiting to be classified and moved into place.
type Staged struct {
	URL     string
	Dir     string
	Kind    vault.RemoteKind
	Members []vault.Vault
}

// Materializer creates vault directories under one workspace root.
type Materializer struct {
	fs       fileSystem
	cloner   cloner
	resolver *pathutil.Resolver
	logger   *zap.Logger
	seed     bool
	now      func() time.Time
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithSeed controls whether fresh vaults get a root note and schema.
func WithSeed(seed bool) Option {
	return func(m *Materializer) { m.seed = seed }
}

// WithClock overrides the time source used for seeded notes.
func WithClock(now func() time.Time) Option {
	return func(m *Materializer) { m.now = now }
}

// New creates a Materializer for the workspace the resolver is rooted at.
func New(fs fileSystem, cl cloner, resolver *pathutil.Resolver, logger *zap.Logger, opts ...Option) *Materializer {
	if fs == nil {
		panic("fs is required")
	}
	if cl == nil {
		panic("cloner is required")
	}
	if resolver == nil {
		panic("resolver is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Materializer{fs: fs, cloner: cl, resolver: resolver, logger: logger, seed: true, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Stage clones url into a fresh staging directory and probes it. The
// staging directory is removed when cloning or probing fails.
func (m *Materializer) Stage(ctx context.Context, url string) (*Staged, error) {
	dir, err := m.fs.MkdirTemp(m.resolver.Root(), stagingPattern)
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	m.logger.Debug("cloning remote", zap.String("url", url), zap.String("staging", dir))
	if err := m.cloner.Clone(ctx, url, dir); err != nil {
		_ = m.fs.RemoveAll(dir)
		return nil, err
	}

	kind, members, err := m.Probe(dir)
	if err != nil {
		_ = m.fs.RemoveAll(dir)
		return nil, err
	}
	m.logger.Debug("probed remote", zap.String("url", url), zap.Stringer("kind", kind), zap.Int("members", len(members)))
	return &Staged{URL: url, Dir: dir, Kind: kind, Members: members}, nil
}

// Discard removes a staging directory that will not be placed.
func (m *Materializer) Discard(s *Staged) {
	if s != nil {
		_ = m.fs.RemoveAll(s.Dir)
	}
}

// Materialize puts the vault described by layout on disk. Remote layouts
// need the staged clone; it is moved into place or discarded.
func (m *Materializer) Materialize(ctx context.Context, layout vault.Layout, staged *Staged) (*Result, error) {
	switch l := layout.(type) {
	case vault.PlainLocal:
		m.Discard(staged)
		return m.plainLocal(l)
	case vault.SelfContainedLocal:
		m.Discard(staged)
		return m.selfContainedLocal(l)
	case vault.RemoteVault:
		if staged == nil {
			return nil, ErrNotStaged
		}
		return m.remoteVault(l, staged)
	case vault.RemoteWorkspace:
		if staged == nil {
			return nil, ErrNotStaged
		}
		return m.remoteWorkspace(l, staged)
	default:
		m.Discard(staged)
		return nil, fmt.Errorf("unsupported layout %T", layout)
	}
}

func (m *Materializer) plainLocal(l vault.PlainLocal) (*Result, error) {
	res := &Result{
		Vaults: []vault.Vault{{FsPath: l.FsPath, Name: l.Name}},
		Dir:    l.Abs,
	}

	exists, err := m.fs.Exists(l.Abs)
	if err != nil {
		return nil, err
	}
	if exists {
		info, err := m.fs.Stat(l.Abs)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s: %w", l.Abs, ErrNotADirectory)
		}
		empty, err := m.fs.IsEmptyDir(l.Abs)
		if err != nil {
			return nil, err
		}
		if empty {
			if err := m.seedNotes(l.Abs); err != nil {
				return nil, err
			}
		}
		return res, nil
	}

	if !l.Inside {
		return nil, &SourceNotFoundError{Path: l.Abs}
	}
	if err := m.seedNotes(l.Abs); err != nil {
		return nil, err
	}
	res.Fresh = true
	return res, nil
}

func (m *Materializer) selfContainedLocal(l vault.SelfContainedLocal) (*Result, error) {
	rel := l.Dest()
	dest := m.resolver.Abs(rel)
	res := &Result{
		Vaults: []vault.Vault{{FsPath: rel, Name: l.Name, SelfContained: true}},
		Dir:    dest,
		Fresh:  true,
	}

	source := l.Source
	if source != "" && filepath.Clean(source) == dest {
		// already in place; only fill in what is missing
		source = ""
		res.Fresh = false
	} else if source != "" && vault.ContainsPath(filepath.ToSlash(source), filepath.ToSlash(dest)) {
		return nil, fmt.Errorf("%s: %w", source, vault.ErrSourceContainsDestination)
	} else if err := m.ensureEmptyDest(dest); err != nil {
		return nil, err
	}

	if source != "" {
		exists, err := m.fs.Exists(source)
		if err != nil {
			return nil, err
		}
		if !exists {
			if r, _ := m.resolver.Resolve(source); !r.Inside {
				return nil, &SourceNotFoundError{Path: source}
			}
		} else {
			empty, err := m.fs.IsEmptyDir(source)
			if err != nil {
				return nil, err
			}
			if !empty {
				if err := m.copySelfContained(source, dest, l.Name); err != nil {
					// dest was empty or missing before the copy
					_ = m.fs.RemoveAll(dest)
					return nil, err
				}
				return res, nil
			}
		}
	}

	hasConfig, err := m.fs.Exists(filepath.Join(dest, vault.ConfigFile))
	if err != nil {
		return nil, err
	}
	if !hasConfig {
		if err := m.fs.EnsureDirs(dest); err != nil {
			return nil, err
		}
		if err := m.writeVaultConfig(dest, l.Name); err != nil {
			return nil, err
		}
	}
	notes := filepath.Join(dest, vault.NotesDir)
	empty, err := m.fs.IsEmptyDir(notes)
	if err != nil {
		return nil, err
	}
	if empty {
		if err := m.seedNotes(notes); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// copySelfContained copies src into dest. A source that is already a
// self-contained vault is copied verbatim; otherwise its files become the
// notes folder of a new self-contained vault.
func (m *Materializer) copySelfContained(src, dest, name string) error {
	kind, _, err := m.Probe(src)
	if err == nil && kind == vault.KindSelfContained {
		m.logger.Debug("copying self-contained vault", zap.String("from", src), zap.String("to", dest))
		return m.fs.CopyDir(src, dest)
	}

	m.logger.Debug("copying notes into new self-contained vault", zap.String("from", src), zap.String("to", dest))
	if err := m.fs.CopyDir(src, filepath.Join(dest, vault.NotesDir)); err != nil {
		return err
	}
	return m.writeVaultConfig(dest, name)
}

func (m *Materializer) remoteVault(l vault.RemoteVault, staged *Staged) (*Result, error) {
	rel := l.Dest()
	dest, err := m.place(staged, rel)
	if err != nil {
		return nil, err
	}
	return &Result{
		Vaults: []vault.Vault{{
			FsPath:        rel,
			Name:          l.Name,
			SelfContained: l.SelfContained,
			Remote:        vault.GitRemote(l.URL),
		}},
		Dir:   dest,
		Fresh: true,
	}, nil
}

func (m *Materializer) remoteWorkspace(l vault.RemoteWorkspace, staged *Staged) (*Result, error) {
	if len(staged.Members) == 0 {
		m.Discard(staged)
		return nil, &vault.AmbiguousLayoutError{Path: staged.URL, Reason: "workspace lists no vaults"}
	}
	dest, err := m.place(staged, l.Dest())
	if err != nil {
		return nil, err
	}

	members := make([]vault.Vault, 0, len(staged.Members))
	for _, sm := range staged.Members {
		v := vault.Vault{FsPath: sm.FsPath, Name: sm.Name, Workspace: l.Name}
		if len(staged.Members) == 1 && l.MemberName != "" {
			v.Name = l.MemberName
		}
		members = append(members, v)
	}

	return &Result{
		Vaults:          members,
		WorkspaceRemote: &vault.WorkspaceRemote{Name: l.Name, Remote: *vault.GitRemote(l.URL)},
		Dir:             dest,
		Fresh:           true,
	}, nil
}

// place moves the staged clone to the workspace-relative destination rel.
func (m *Materializer) place(staged *Staged, rel string) (string, error) {
	dest := m.resolver.Abs(rel)
	if err := m.ensureEmptyDest(dest); err != nil {
		m.Discard(staged)
		return "", err
	}
	if err := m.fs.RemoveAll(dest); err != nil {
		m.Discard(staged)
		return "", err
	}
	if err := m.fs.Rename(staged.Dir, dest); err != nil {
		m.Discard(staged)
		return "", err
	}
	m.logger.Debug("placed clone", zap.String("dest", dest))
	return dest, nil
}

// ensureEmptyDest fails when dest exists with content.
func (m *Materializer) ensureEmptyDest(dest string) error {
	empty, err := m.fs.IsEmptyDir(dest)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return err
		}
		// a file sits where the directory should go
		return &DestinationNotEmptyError{Path: dest}
	}
	if !empty {
		return &DestinationNotEmptyError{Path: dest}
	}
	return nil
}
