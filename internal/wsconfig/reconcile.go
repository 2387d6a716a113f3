package wsconfig

import (
	"maps"

	"github.com/ironyman/dendron/internal/vault"
)

// Config is the part of the workspace document this tool manages.
type Config struct {
	Vaults     []vault.Vault
	Workspaces map[string]WorkspaceEntry
	// SelfContainedVaults mirrors dev.enableSelfContainedVaults.
	SelfContainedVaults bool
}

// WorkspaceEntry is one value of the workspaces mapping.
type WorkspaceEntry struct {
	Remote vault.Remote   `mapstructure:"remote"`
	Extra  map[string]any `mapstructure:",remain"`
}

// Addition is what a vault add contributes to the config.
type Addition struct {
	Vaults          []vault.Vault
	WorkspaceRemote *vault.WorkspaceRemote
}

// Reconcile returns a new config with add merged into old. New vaults go
// last in their given order. old is not modified. Collisions between the
// new vaults and anything already registered are reported without
// producing a config.
func Reconcile(old Config, add Addition) (Config, error) {
	next := Config{
		Vaults:              make([]vault.Vault, 0, len(old.Vaults)+len(add.Vaults)),
		Workspaces:          maps.Clone(old.Workspaces),
		SelfContainedVaults: old.SelfContainedVaults,
	}
	next.Vaults = append(next.Vaults, old.Vaults...)
	if next.Workspaces == nil {
		next.Workspaces = map[string]WorkspaceEntry{}
	}

	if wr := add.WorkspaceRemote; wr != nil {
		existing, ok := next.Workspaces[wr.Name]
		if ok && existing.Remote.URL != wr.Remote.URL {
			return Config{}, &WorkspaceRemoteConflictError{Name: wr.Name, ExistingURL: existing.Remote.URL, URL: wr.Remote.URL}
		}
		existing.Remote = wr.Remote
		next.Workspaces[wr.Name] = existing
	}

	keys := make(map[vault.Key]struct{}, len(next.Vaults))
	names := make(map[string]struct{}, len(next.Vaults))
	for _, v := range next.Vaults {
		keys[v.Key()] = struct{}{}
		if v.Name != "" {
			names[v.Name] = struct{}{}
		}
	}

	for _, v := range add.Vaults {
		if v.FsPath == "" {
			return Config{}, ErrEmptyFsPath
		}
		if _, dup := keys[v.Key()]; dup {
			return Config{}, &DuplicateVaultError{Workspace: v.Workspace, FsPath: v.FsPath}
		}
		if v.Name != "" {
			if _, dup := names[v.Name]; dup {
				return Config{}, &DuplicateNameError{Name: v.Name}
			}
			names[v.Name] = struct{}{}
		}
		if v.Workspace != "" {
			if _, ok := next.Workspaces[v.Workspace]; !ok {
				return Config{}, &MissingWorkspaceRemoteError{Workspace: v.Workspace}
			}
		}
		keys[v.Key()] = struct{}{}
		next.Vaults = append(next.Vaults, v)
	}

	return next, nil
}

// FindByName returns the vault called name.
func (c Config) FindByName(name string) (vault.Vault, bool) {
	for _, v := range c.Vaults {
		if v.Name == name {
			return v, true
		}
	}
	return vault.Vault{}, false
}
