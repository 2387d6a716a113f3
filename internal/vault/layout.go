package vault

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/ironyman/dendron/internal/pathutil"
)

// Layout is the destination layout chosen for a new vault. It is computed
// once by Classify and consumed unchanged by materialization and config
// reconciliation. The concrete types are PlainLocal, SelfContainedLocal,
// RemoteVault and RemoteWorkspace.
type Layout interface {
	// Dest is the destination relative to the workspace root, or an
	// absolute path for plain vaults outside the root.
	Dest() string
	isLayout()
}

// PlainLocal is an existing or new directory registered in place.
type PlainLocal struct {
	FsPath string
	Abs    string
	Name   string
	Inside bool
}

// SelfContainedLocal is a local vault copied or created under
// dependencies/localhost/<name>.
type SelfContainedLocal struct {
	Name string
	// Source is the absolute directory to copy from; empty for a new vault.
	Source string
}

// RemoteVault is a single-vault repository cloned under dependencies/<folder>.
type RemoteVault struct {
	Name          string
	Folder        string
	URL           string
	SelfContained bool
}

// RemoteWorkspace is a multi-vault repository cloned under <name>/ and
// registered as a workspace remote.
type RemoteWorkspace struct {
	Name string
	URL  string
	// MemberName names the member vault when the remote holds exactly one.
	MemberName string
}

func (l PlainLocal) Dest() string { return l.FsPath }

func (l SelfContainedLocal) Dest() string {
	return path.Join(DependenciesDir, LocalDependencyDir, l.Name)
}

func (l RemoteVault) Dest() string { return path.Join(DependenciesDir, l.Folder) }

func (l RemoteWorkspace) Dest() string { return l.Name }

func (PlainLocal) isLayout()         {}
func (SelfContainedLocal) isLayout() {}
func (RemoteVault) isLayout()        {}
func (RemoteWorkspace) isLayout()    {}

// RemoteKind is what a cloned remote turned out to contain.
type RemoteKind int

const (
	// KindRegular has notes at its root and no vault config.
	KindRegular RemoteKind = iota
	// KindSelfContained has a vault config and a notes folder.
	KindSelfContained
	// KindWorkspace has a root config listing several vault folders.
	KindWorkspace
)

func (k RemoteKind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindSelfContained:
		return "self-contained"
	case KindWorkspace:
		return "workspace"
	default:
		return "unknown"
	}
}

// ClassifyInput carries everything the classifier needs. It reads no
// ambient state.
type ClassifyInput struct {
	SourceType SourceType
	SourcePath string
	SourceName string
	RemoteURL  string
	// Resolved is the resolved SourcePath; zero for remotes without one.
	Resolved pathutil.Resolved
	// SelfContainedEnabled mirrors dev.enableSelfContainedVaults.
	SelfContainedEnabled bool
	// Kind is the probed content of a remote; ignored for local sources.
	Kind RemoteKind
}

// Classify picks the destination layout for a new vault.
func Classify(in ClassifyInput) (Layout, error) {
	switch in.SourceType {
	case SourceLocal:
		return classifyLocal(in)
	case SourceRemote:
		return classifyRemote(in)
	default:
		return nil, ErrInvalidSourceType
	}
}

func classifyLocal(in ClassifyInput) (Layout, error) {
	if in.SelfContainedEnabled {
		name := in.SourceName
		if name == "" && in.Resolved.Abs != "" {
			name = filepath.Base(in.Resolved.Abs)
		}
		if !validFolderName(name) {
			return nil, ErrMissingName
		}
		l := SelfContainedLocal{Name: name, Source: in.Resolved.Abs}
		if in.Resolved.Inside {
			if in.Resolved.Rel == "" {
				return nil, ErrSourceIsRoot
			}
			// copying a parent of the destination would walk its own output
			if ContainsPath(in.Resolved.Rel, l.Dest()) {
				return nil, ErrSourceContainsDestination
			}
		}
		return l, nil
	}

	if in.Resolved.Abs == "" {
		return nil, ErrEmptySourcePath
	}
	if in.Resolved.Inside && in.Resolved.Rel == "" {
		return nil, ErrSourceIsRoot
	}

	fsPath := in.Resolved.Abs
	if in.Resolved.Inside {
		fsPath = in.Resolved.Rel
	}
	return PlainLocal{
		FsPath: fsPath,
		Abs:    in.Resolved.Abs,
		Name:   in.SourceName,
		Inside: in.Resolved.Inside,
	}, nil
}

func classifyRemote(in ClassifyInput) (Layout, error) {
	if in.RemoteURL == "" {
		return nil, ErrMissingRemoteURL
	}
	folder := RemoteFolderName(in.SourcePath, in.SourceName, in.RemoteURL)
	if !validFolderName(folder) {
		return nil, ErrMissingName
	}

	if in.Kind == KindWorkspace {
		return RemoteWorkspace{Name: folder, URL: in.RemoteURL, MemberName: in.SourceName}, nil
	}

	name := in.SourceName
	if name == "" {
		name = folder
	}
	return RemoteVault{
		Name:          name,
		Folder:        folder,
		URL:           in.RemoteURL,
		SelfContained: in.Kind == KindSelfContained && in.SelfContainedEnabled,
	}, nil
}

// RemoteFolderName picks the folder a remote is cloned into: the basename
// of an explicit source path, then the explicit name, then the basename of
// the remote URL. When the URL is a plain directory standing in for a
// remote, its directory name is all there is to go on.
func RemoteFolderName(sourcePath, sourceName, remoteURL string) string {
	if sourcePath != "" {
		return filepath.Base(filepath.Clean(sourcePath))
	}
	if sourceName != "" {
		return sourceName
	}
	return NameFromURL(remoteURL)
}

// NameFromURL derives a repository name from a git URL or a local path:
// "https://github.com/org/notes.git" and "git@host:org/notes.git" both give
// "notes".
func NameFromURL(url string) string {
	u := strings.TrimRight(strings.TrimSpace(url), "/\\")
	if i := strings.LastIndexAny(u, "/\\:"); i >= 0 {
		u = u[i+1:]
	}
	return strings.TrimSuffix(u, ".git")
}

// ContainsPath reports whether child lies strictly below parent. Both are
// slash-separated paths of the same kind, either relative or absolute.
func ContainsPath(parent, child string) bool {
	parent, child = path.Clean(parent), path.Clean(child)
	if parent == child {
		return false
	}
	if parent == "/" {
		return strings.HasPrefix(child, "/")
	}
	return strings.HasPrefix(child, parent+"/")
}

func validFolderName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\\")
}
