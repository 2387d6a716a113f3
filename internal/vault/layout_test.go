package vault

import (
	"testing"

	"github.com/ironyman/dendron/internal/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	inside := pathutil.Resolved{Abs: "/ws/vault2", Inside: true, Rel: "vault2"}
	outside := pathutil.Resolved{Abs: "/tmp/abc123"}

	tests := []struct {
		name     string
		in       ClassifyInput
		expected Layout
		dest     string
	}{
		{
			name:     "local inside root stays in place",
			in:       ClassifyInput{SourceType: SourceLocal, SourcePath: "vault2", Resolved: inside},
			expected: PlainLocal{FsPath: "vault2", Abs: "/ws/vault2", Inside: true},
			dest:     "vault2",
		},
		{
			name:     "local outside root is referenced by absolute path",
			in:       ClassifyInput{SourceType: SourceLocal, SourcePath: "/tmp/abc123", Resolved: outside, SourceName: "tmp"},
			expected: PlainLocal{FsPath: "/tmp/abc123", Abs: "/tmp/abc123", Name: "tmp"},
			dest:     "/tmp/abc123",
		},
		{
			name:     "local self-contained is relocated under localhost",
			in:       ClassifyInput{SourceType: SourceLocal, SourcePath: "/tmp/abc123", Resolved: outside, SelfContainedEnabled: true},
			expected: SelfContainedLocal{Name: "abc123", Source: "/tmp/abc123"},
			dest:     "dependencies/localhost/abc123",
		},
		{
			name:     "local self-contained new vault by name",
			in:       ClassifyInput{SourceType: SourceLocal, SourceName: "my-vault", SelfContainedEnabled: true},
			expected: SelfContainedLocal{Name: "my-vault"},
			dest:     "dependencies/localhost/my-vault",
		},
		{
			name:     "remote regular vault",
			in:       ClassifyInput{SourceType: SourceRemote, RemoteURL: "https://github.com/org/notes.git", Kind: KindRegular},
			expected: RemoteVault{Name: "notes", Folder: "notes", URL: "https://github.com/org/notes.git"},
			dest:     "dependencies/notes",
		},
		{
			name:     "remote self-contained vault with flag on",
			in:       ClassifyInput{SourceType: SourceRemote, RemoteURL: "/tmp/remote1", Kind: KindSelfContained, SelfContainedEnabled: true},
			expected: RemoteVault{Name: "remote1", Folder: "remote1", URL: "/tmp/remote1", SelfContained: true},
			dest:     "dependencies/remote1",
		},
		{
			name:     "remote self-contained vault with flag off is plain",
			in:       ClassifyInput{SourceType: SourceRemote, RemoteURL: "/tmp/remote1", Kind: KindSelfContained},
			expected: RemoteVault{Name: "remote1", Folder: "remote1", URL: "/tmp/remote1"},
			dest:     "dependencies/remote1",
		},
		{
			name:     "remote workspace uses source path as workspace name",
			in:       ClassifyInput{SourceType: SourceRemote, SourcePath: "wsRemote", SourceName: "dendron", RemoteURL: "/tmp/r", Kind: KindWorkspace},
			expected: RemoteWorkspace{Name: "wsRemote", URL: "/tmp/r", MemberName: "dendron"},
			dest:     "wsRemote",
		},
		{
			name:     "remote workspace falls back to url basename",
			in:       ClassifyInput{SourceType: SourceRemote, RemoteURL: "/tmp/r", Kind: KindWorkspace, SelfContainedEnabled: true},
			expected: RemoteWorkspace{Name: "r", URL: "/tmp/r"},
			dest:     "r",
		},
		{
			name:     "explicit name is used for folder and vault",
			in:       ClassifyInput{SourceType: SourceRemote, SourceName: "mine", RemoteURL: "git@github.com:org/notes.git"},
			expected: RemoteVault{Name: "mine", Folder: "mine", URL: "git@github.com:org/notes.git"},
			dest:     "dependencies/mine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.dest, got.Dest())
		})
	}
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   ClassifyInput
		err  error
	}{
		{"unknown source type", ClassifyInput{SourceType: "ftp"}, ErrInvalidSourceType},
		{"local without path", ClassifyInput{SourceType: SourceLocal}, ErrEmptySourcePath},
		{"local is the root", ClassifyInput{SourceType: SourceLocal, Resolved: pathutil.Resolved{Abs: "/ws", Inside: true}}, ErrSourceIsRoot},
		{"self-contained without name", ClassifyInput{SourceType: SourceLocal, SelfContainedEnabled: true}, ErrMissingName},
		{"self-contained from the root", ClassifyInput{SourceType: SourceLocal, SourceName: "x", SelfContainedEnabled: true, Resolved: pathutil.Resolved{Abs: "/ws", Inside: true}}, ErrSourceIsRoot},
		{"self-contained from dependencies", ClassifyInput{SourceType: SourceLocal, SourceName: "deps", SelfContainedEnabled: true, Resolved: pathutil.Resolved{Abs: "/ws/dependencies", Inside: true, Rel: "dependencies"}}, ErrSourceContainsDestination},
		{"self-contained from localhost", ClassifyInput{SourceType: SourceLocal, SelfContainedEnabled: true, Resolved: pathutil.Resolved{Abs: "/ws/dependencies/localhost", Inside: true, Rel: "dependencies/localhost"}}, ErrSourceContainsDestination},
		{"remote without url", ClassifyInput{SourceType: SourceRemote}, ErrMissingRemoteURL},
		{"remote url without name", ClassifyInput{SourceType: SourceRemote, RemoteURL: "/"}, ErrMissingName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.in)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNameFromURL(t *testing.T) {
	tests := map[string]string{
		"https://github.com/org/notes.git": "notes",
		"https://github.com/org/notes":     "notes",
		"git@github.com:org/notes.git":     "notes",
		"git@github.com:notes.git":         "notes",
		"/tmp/tmp-123-abc/":                "tmp-123-abc",
		"file:///srv/git/vault.git":        "vault",
	}
	for in, want := range tests {
		assert.Equal(t, want, NameFromURL(in), in)
	}
}

func TestVaultKeyAndPaths(t *testing.T) {
	a := Vault{FsPath: "vault/"}
	b := Vault{FsPath: "./vault"}
	assert.Equal(t, a.Key(), b.Key())

	member := Vault{FsPath: "vault", Workspace: "wsRemote"}
	assert.NotEqual(t, a.Key(), member.Key())
	assert.Equal(t, "wsRemote/vault", member.RelPath())
	assert.Equal(t, "vault", member.DisplayName())
	assert.Equal(t, "named", Vault{FsPath: "x", Name: "named"}.DisplayName())
}

func TestClassify_SelfContainedInPlace(t *testing.T) {
	in := ClassifyInput{
		SourceType:           SourceLocal,
		SelfContainedEnabled: true,
		Resolved:             pathutil.Resolved{Abs: "/ws/dependencies/localhost/mine", Inside: true, Rel: "dependencies/localhost/mine"},
	}

	layout, err := Classify(in)

	require.NoError(t, err)
	assert.Equal(t, SelfContainedLocal{Name: "mine", Source: "/ws/dependencies/localhost/mine"}, layout)
}

func TestContainsPath(t *testing.T) {
	assert.True(t, ContainsPath("dependencies", "dependencies/localhost/x"))
	assert.True(t, ContainsPath("/", "/tmp"))
	assert.True(t, ContainsPath("/ws/a/", "/ws/a/b"))
	assert.False(t, ContainsPath("dependencies/localhost/x", "dependencies/localhost/x"))
	assert.False(t, ContainsPath("dep", "dependencies/localhost/x"))
	assert.False(t, ContainsPath("dependencies/localhost/x", "dependencies"))
}

func TestRemoteFolderName(t *testing.T) {
	url := "https://github.com/org/notes.git"
	assert.Equal(t, "wsRemote", RemoteFolderName("sub/wsRemote", "dendron", url))
	assert.Equal(t, "dendron", RemoteFolderName("", "dendron", url))
	assert.Equal(t, "notes", RemoteFolderName("", "", url))
	assert.Equal(t, "notes", RemoteFolderName("", "", "git@host:org/notes.git"))
}
