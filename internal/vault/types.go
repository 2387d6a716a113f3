// Package vault holds the vault data model, the on-disk layout conventions
// and the classifier that decides where a new vault lives.
package vault

import "path"

// Folder and file names fixed by the workspace layout.
const (
	DependenciesDir    = "dependencies"
	LocalDependencyDir = "localhost"
	NotesDir           = "notes"
	ConfigFile         = "dendron.yml"
	GitIgnoreFile      = ".gitignore"
	CacheIgnorePattern = ".dendron.cache.*"
	RemoteTypeGit      = "git"
)

// SourceType is where the vault content comes from.
type SourceType string

const (
	SourceLocal  SourceType = "local"
	SourceRemote SourceType = "remote"
)

// Valid reports whether t is a known source type.
func (t SourceType) Valid() bool {
	return t == SourceLocal || t == SourceRemote
}

// Remote describes where a vault or workspace remote was cloned from.
type Remote struct {
	Type string `mapstructure:"type"`
	URL  string `mapstructure:"url"`
}

// GitRemote returns a git remote for url.
func GitRemote(url string) *Remote {
	return &Remote{Type: RemoteTypeGit, URL: url}
}

// Vault is a content root registered in the workspace configuration.
type Vault struct {
	FsPath        string  `mapstructure:"fsPath"`
	Name          string  `mapstructure:"name"`
	Workspace     string  `mapstructure:"workspace"`
	SelfContained bool    `mapstructure:"selfContained"`
	Remote        *Remote `mapstructure:"remote"`

	// Extra keeps settings this tool does not manage (visibility, sync, ...)
	// so they survive a load/save cycle.
	Extra map[string]any `mapstructure:",remain"`
}

// Key is the identity of a vault within one workspace configuration.
type Key struct {
	Workspace string
	FsPath    string
}

// Key returns the (workspace, fsPath) identity of v. The path is cleaned so
// "vault/" and "./vault" collide with "vault".
func (v Vault) Key() Key {
	return Key{Workspace: v.Workspace, FsPath: path.Clean(v.FsPath)}
}

// DisplayName returns the name, falling back to the last path segment.
func (v Vault) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	return path.Base(v.FsPath)
}

// RelPath returns the vault location relative to the workspace root.
// Workspace members live inside their workspace remote's folder.
func (v Vault) RelPath() string {
	if v.Workspace != "" {
		return path.Join(v.Workspace, v.FsPath)
	}
	return v.FsPath
}

// WorkspaceRemote is a named remote that hosts several vaults plus its own
// configuration.
type WorkspaceRemote struct {
	Name   string
	Remote Remote
}
