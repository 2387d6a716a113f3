package materialize

import (
	"fmt"
	"path/filepath"

	"github.com/ironyman/dendron/internal/vault"
	"github.com/ironyman/dendron/internal/wsconfig"
)

const (
	rootNote   = "root.md"
	rootSchema = "root.schema.yml"
)

// seedNotes writes a root note and root schema into dir.
func (m *Materializer) seedNotes(dir string) error {
	if !m.seed {
		return m.fs.EnsureDirs(dir)
	}
	if err := m.fs.EnsureDirs(dir); err != nil {
		return err
	}

	ts := m.now().UnixMilli()
	note := fmt.Sprintf("---\nid: root\ntitle: root\ndesc: ''\nupdated: %d\ncreated: %d\n---\n", ts, ts)
	if err := m.fs.WriteFileAtomic(filepath.Join(dir, rootNote), []byte(note), 0o644); err != nil {
		return err
	}

	schema := "version: 1\nschemas:\n  - id: root\n    title: root\n    parent: root\n    children: []\n"
	return m.fs.WriteFileAtomic(filepath.Join(dir, rootSchema), []byte(schema), 0o644)
}

// writeVaultConfig writes the config file that makes dir a self-contained
// vault named name.
func (m *Materializer) writeVaultConfig(dir, name string) error {
	doc := wsconfig.NewDocument()
	doc.SetSelfContainedVaults(true)
	cfg := wsconfig.Config{
		Vaults: []vault.Vault{{FsPath: ".", Name: name, SelfContained: true}},
	}
	if err := doc.Apply(cfg); err != nil {
		return err
	}
	data, err := doc.Bytes()
	if err != nil {
		return err
	}
	return m.fs.WriteFileAtomic(filepath.Join(dir, vault.ConfigFile), data, 0o644)
}
