// Package gitfixture builds throwaway git repositories shaped like vaults
// and workspaces for tests.
package gitfixture

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const rootNote = "---\nid: root\ntitle: root\n---\nremote note\n"

// Repo writes files into dir, initialises a repository there and commits
// everything.
func Repo(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init %s: %v", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(files[name]), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := wt.Add(name); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "fixture", Email: "fixture@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return dir
}

// RegularVault is a repository with notes at its root and no vault config.
func RegularVault(t *testing.T, dir string) string {
	return Repo(t, dir, map[string]string{"root.md": rootNote})
}

// SelfContainedVault is a repository with a vault config and a notes folder.
func SelfContainedVault(t *testing.T, dir string) string {
	config := "version: 5\ndev:\n  enableSelfContainedVaults: true\nworkspace:\n  vaults:\n    - fsPath: .\n      selfContained: true\n"
	return Repo(t, dir, map[string]string{
		"dendron.yml":   config,
		"notes/root.md": rootNote,
	})
}

// Workspace is a repository whose config lists the given vault folders,
// each holding a root note.
func Workspace(t *testing.T, dir string, vaults ...string) string {
	var b strings.Builder
	b.WriteString("version: 5\nworkspace:\n  vaults:\n")
	files := map[string]string{}
	for _, v := range vaults {
		b.WriteString("    - fsPath: " + v + "\n")
		files[v+"/root.md"] = rootNote
	}
	files["dendron.yml"] = b.String()
	return Repo(t, dir, files)
}
