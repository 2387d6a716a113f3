// Package ignore keeps .gitignore files in step with registered vaults.
package ignore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironyman/dendron/internal/pathutil"
	"github.com/ironyman/dendron/internal/vault"
)

// fileSystem defines the minimal filesystem interface needed by the patcher.
type fileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
}

// Patcher appends entries to ignore files. Existing lines are never removed
// or reordered and an entry is written at most once.
type Patcher struct {
	fs fileSystem
}

// NewPatcher creates a patcher over fs.
func NewPatcher(fs fileSystem) *Patcher {
	if fs == nil {
		panic("fs is required")
	}
	return &Patcher{fs: fs}
}

// Ensure makes entry a line of the ignore file at path, creating the file
// if needed. It reports whether the file changed.
func (p *Patcher) Ensure(path, entry string) (bool, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return false, ErrEmptyEntry
	}

	data, err := p.fs.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, &ReadError{Path: path, Cause: err}
	}

	text := string(data)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == entry {
			return false, nil
		}
	}

	var b strings.Builder
	b.WriteString(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(entry)
	b.WriteString("\n")

	if err := p.fs.WriteFileAtomic(path, []byte(b.String()), 0o644); err != nil {
		return false, &WriteError{Path: path, Cause: err}
	}
	return true, nil
}

// EnsureRootEntry adds the top-level folder of a workspace-relative vault
// path to <wsRoot>/.gitignore. Paths outside the root are skipped.
func (p *Patcher) EnsureRootEntry(wsRoot, vaultRel string) (bool, error) {
	top := pathutil.TopLevel(vaultRel)
	if top == "" {
		return false, nil
	}
	return p.Ensure(filepath.Join(wsRoot, vault.GitIgnoreFile), top)
}

// EnsureCacheEntry excludes the vault cache file in <vaultDir>/.gitignore.
func (p *Patcher) EnsureCacheEntry(vaultDir string) (bool, error) {
	return p.Ensure(filepath.Join(vaultDir, vault.GitIgnoreFile), vault.CacheIgnorePattern)
}
