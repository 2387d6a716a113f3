package wsconfig

import (
	"testing"

	"github.com/ironyman/dendron/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentDoc = `version: 5
dev:
  enableSelfContainedVaults: true
# workspace settings
workspace:
  vaults:
    - fsPath: vault1
      visibility: private # keep me
  workspaces:
    shared:
      remote:
        type: git
        url: https://example.com/shared.git
  enableAutoCreateOnDefinition: false
publishing:
  siteUrl: https://example.com
`

func TestParse_DecodesManagedSettings(t *testing.T) {
	doc, err := Parse([]byte(currentDoc))
	require.NoError(t, err)

	cfg, err := doc.Config()
	require.NoError(t, err)

	assert.True(t, cfg.SelfContainedVaults)
	require.Len(t, cfg.Vaults, 1)
	assert.Equal(t, "vault1", cfg.Vaults[0].FsPath)
	assert.Equal(t, map[string]any{"visibility": "private"}, cfg.Vaults[0].Extra)
	assert.Equal(t, "https://example.com/shared.git", cfg.Workspaces["shared"].Remote.URL)
}

func TestApply_PreservesUnrelatedSettings(t *testing.T) {
	doc, err := Parse([]byte(currentDoc))
	require.NoError(t, err)
	cfg, err := doc.Config()
	require.NoError(t, err)

	next, err := Reconcile(cfg, Addition{
		WorkspaceRemote: &vault.WorkspaceRemote{Name: "wsRemote", Remote: vault.Remote{Type: "git", URL: "/tmp/r"}},
		Vaults:          []vault.Vault{{FsPath: "vault", Workspace: "wsRemote", Name: "dendron"}},
	})
	require.NoError(t, err)
	require.NoError(t, doc.Apply(next))

	out, err := doc.Bytes()
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "siteUrl: https://example.com")
	assert.Contains(t, text, "enableAutoCreateOnDefinition: false")
	assert.Contains(t, text, "# keep me")
	assert.Contains(t, text, "# workspace settings")

	reparsed, err := Parse(out)
	require.NoError(t, err)
	got, err := reparsed.Config()
	require.NoError(t, err)

	require.Len(t, got.Vaults, 2)
	assert.Equal(t, vault.Vault{FsPath: "vault", Workspace: "wsRemote", Name: "dendron"}, got.Vaults[1])
	assert.Equal(t, "/tmp/r", got.Workspaces["wsRemote"].Remote.URL)
	assert.Equal(t, "https://example.com/shared.git", got.Workspaces["shared"].Remote.URL)
	assert.True(t, got.SelfContainedVaults)
}

func TestApply_EncodesRemoteAndSelfContained(t *testing.T) {
	doc := NewDocument()
	cfg, err := doc.Config()
	require.NoError(t, err)
	assert.Empty(t, cfg.Vaults)

	cfg.Vaults = append(cfg.Vaults, vault.Vault{
		FsPath:        "dependencies/remote1",
		Name:          "remote1",
		SelfContained: true,
		Remote:        vault.GitRemote("/tmp/remote1"),
	})
	require.NoError(t, doc.Apply(cfg))

	out, err := doc.Bytes()
	require.NoError(t, err)
	reparsed, err := Parse(out)
	require.NoError(t, err)
	got, err := reparsed.Config()
	require.NoError(t, err)

	require.Len(t, got.Vaults, 1)
	assert.Equal(t, cfg.Vaults[0], got.Vaults[0])
	assert.Contains(t, string(out), "version: 5")
	assert.Contains(t, string(out), "workspace:")
}

func TestLegacyDocument_WritesInPlace(t *testing.T) {
	legacy := "version: 1\nvaults:\n  - fsPath: vault1\n"
	doc, err := Parse([]byte(legacy))
	require.NoError(t, err)
	cfg, err := doc.Config()
	require.NoError(t, err)
	require.Len(t, cfg.Vaults, 1)

	cfg.Vaults = append(cfg.Vaults, vault.Vault{FsPath: "vault2"})
	require.NoError(t, doc.Apply(cfg))

	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "workspace:")

	reparsed, err := Parse(out)
	require.NoError(t, err)
	got, err := reparsed.Config()
	require.NoError(t, err)
	assert.Len(t, got.Vaults, 2)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"not yaml":          "workspace: [",
		"scalar root":       "just a string",
		"vaults not a list": "workspace:\n  vaults: nope\n",
		"vault not a map":   "workspace:\n  vaults:\n    - vault1\n",
		"vault no fsPath":   "workspace:\n  vaults:\n    - name: x\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	doc, err := Parse(nil)
	require.NoError(t, err)
	cfg, err := doc.Config()
	require.NoError(t, err)
	assert.Empty(t, cfg.Vaults)
	assert.False(t, cfg.SelfContainedVaults)
}

func TestSetSelfContainedVaults(t *testing.T) {
	doc := NewDocument()
	doc.SetSelfContainedVaults(true)

	out, err := doc.Bytes()
	require.NoError(t, err)
	reparsed, err := Parse(out)
	require.NoError(t, err)
	cfg, err := reparsed.Config()
	require.NoError(t, err)
	assert.True(t, cfg.SelfContainedVaults)

	reparsed.SetSelfContainedVaults(false)
	cfg, err = reparsed.Config()
	require.NoError(t, err)
	assert.False(t, cfg.SelfContainedVaults)
}
