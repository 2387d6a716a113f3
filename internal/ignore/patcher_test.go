package ignore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironyman/dendron/internal/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countLines(t *testing.T, path, entry string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	n := 0
	for _, line := range strings.Split(string(data), "\n") {
		if line == entry {
			n++
		}
	}
	return n
}

func TestEnsure_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	p := NewPatcher(fsutil.NewOSFileSystem())

	added, err := p.Ensure(path, "vault2")

	require.NoError(t, err)
	assert.True(t, added)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "vault2\n", string(data))
}

func TestEnsure_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	p := NewPatcher(fsutil.NewOSFileSystem())

	_, err := p.Ensure(path, ".dendron.cache.*")
	require.NoError(t, err)
	added, err := p.Ensure(path, ".dendron.cache.*")
	require.NoError(t, err)

	assert.False(t, added)
	assert.Equal(t, 1, countLines(t, path, ".dendron.cache.*"))
}

func TestEnsure_PreexistingEntryWithoutNewline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("vaultRemote"), 0o644))
	p := NewPatcher(fsutil.NewOSFileSystem())

	added, err := p.Ensure(path, "vaultRemote")

	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, countLines(t, path, "vaultRemote"))
}

func TestEnsure_AppendsOnNewLineAndKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("node_modules\r\n.DS_Store"), 0o644))
	p := NewPatcher(fsutil.NewOSFileSystem())

	added, err := p.Ensure(path, "vault2")

	require.NoError(t, err)
	assert.True(t, added)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "node_modules\r\n.DS_Store\nvault2\n", string(data))

	_, err = p.Ensure(path, "node_modules")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(mustRead(t, path), "node_modules"))
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestEnsure_EmptyEntry(t *testing.T) {
	p := NewPatcher(fsutil.NewOSFileSystem())
	_, err := p.Ensure(filepath.Join(t.TempDir(), ".gitignore"), "  ")
	assert.ErrorIs(t, err, ErrEmptyEntry)
}

func TestEnsureRootEntry(t *testing.T) {
	root := t.TempDir()
	p := NewPatcher(fsutil.NewOSFileSystem())

	added, err := p.EnsureRootEntry(root, "wsRemote/vault")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, countLines(t, filepath.Join(root, ".gitignore"), "wsRemote"))

	added, err = p.EnsureRootEntry(root, "/tmp/outside")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestEnsureCacheEntry(t *testing.T) {
	vaultDir := t.TempDir()
	p := NewPatcher(fsutil.NewOSFileSystem())

	for i := 0; i < 2; i++ {
		_, err := p.EnsureCacheEntry(vaultDir)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, countLines(t, filepath.Join(vaultDir, ".gitignore"), ".dendron.cache.*"))
}

type stubFS struct {
	readErr  error
	writeErr error
}

func (s stubFS) ReadFile(string) ([]byte, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return nil, os.ErrNotExist
}

func (s stubFS) WriteFileAtomic(string, []byte, os.FileMode) error { return s.writeErr }

func TestEnsure_Errors(t *testing.T) {
	_, err := NewPatcher(stubFS{readErr: os.ErrPermission}).Ensure("/ws/.gitignore", "x")
	var readErr *ReadError
	assert.ErrorAs(t, err, &readErr)

	_, err = NewPatcher(stubFS{writeErr: errors.New("disk full")}).Ensure("/ws/.gitignore", "x")
	var writeErr *WriteError
	assert.ErrorAs(t, err, &writeErr)
}
