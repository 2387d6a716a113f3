package materialize

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/ironyman/dendron/internal/vault"
	"github.com/ironyman/dendron/internal/wsconfig"
)

// Probe inspects a checked-out remote and reports what it holds.
//
//   - no vault config but markdown notes (or a notes folder) at the root:
//     a regular vault
//   - a config listing vaults other than ".": a workspace; those vaults are
//     returned as members
//   - a config plus a notes folder: a self-contained vault
//
// Anything else is ambiguous.
func (m *Materializer) Probe(dir string) (vault.RemoteKind, []vault.Vault, error) {
	configPath := filepath.Join(dir, vault.ConfigFile)
	hasConfig, err := m.fs.Exists(configPath)
	if err != nil {
		return 0, nil, err
	}
	if !hasConfig {
		notes, err := m.hasNotes(dir)
		if err != nil {
			return 0, nil, err
		}
		if !notes {
			return 0, nil, &vault.AmbiguousLayoutError{
				Path:   dir,
				Reason: "has no " + vault.ConfigFile + ", no markdown notes and no " + vault.NotesDir + " folder",
			}
		}
		return vault.KindRegular, nil, nil
	}

	data, err := m.fs.ReadFile(configPath)
	if err != nil {
		return 0, nil, err
	}
	doc, err := wsconfig.Parse(data)
	if err != nil {
		return 0, nil, &vault.AmbiguousLayoutError{Path: dir, Reason: "unreadable " + vault.ConfigFile + ": " + err.Error()}
	}
	cfg, err := doc.Config()
	if err != nil {
		return 0, nil, &vault.AmbiguousLayoutError{Path: dir, Reason: err.Error()}
	}

	var members []vault.Vault
	for _, v := range cfg.Vaults {
		if path.Clean(v.FsPath) != "." {
			members = append(members, v)
		}
	}
	if len(members) > 0 {
		return vault.KindWorkspace, members, nil
	}

	info, err := m.fs.Stat(filepath.Join(dir, vault.NotesDir))
	if err == nil && info.IsDir() {
		return vault.KindSelfContained, nil, nil
	}
	return 0, nil, &vault.AmbiguousLayoutError{
		Path:   dir,
		Reason: "has " + vault.ConfigFile + " but neither a " + vault.NotesDir + " folder nor member vaults",
	}
}

// hasNotes reports whether dir holds a markdown note or a notes folder.
func (m *Materializer) hasNotes(dir string) (bool, error) {
	names, err := m.fs.ListDir(dir)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if strings.HasSuffix(strings.ToLower(name), ".md") {
			return true, nil
		}
		if name == vault.NotesDir {
			if info, err := m.fs.Stat(filepath.Join(dir, name)); err == nil && info.IsDir() {
				return true, nil
			}
		}
	}
	return false, nil
}
