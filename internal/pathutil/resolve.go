// Package pathutil resolves user-supplied vault source paths against a
// workspace root.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolved is a source path placed relative to the workspace root.
type Resolved struct {
	// Abs is the cleaned absolute path.
	Abs string
	// Inside is true when Abs is the workspace root or nested below it.
	Inside bool
	// Rel is the slash-separated workspace-relative path. Empty when the
	// path is the root itself or lies outside it.
	Rel string
}

// Resolver provides path resolution against a workspace root.
type Resolver struct {
	workspaceRoot string
}

// NewResolver creates a new path resolver for the given workspace.
func NewResolver(workspaceRoot string) *Resolver {
	return &Resolver{
		workspaceRoot: filepath.Clean(workspaceRoot),
	}
}

// Root returns the workspace root the resolver was built with.
func (r *Resolver) Root() string {
	return r.workspaceRoot
}

// CanonicaliseRoot canonicalises a workspace root path by making it absolute and resolving symlinks.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &WorkspaceRootError{Root: absRoot, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &WorkspaceRootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &WorkspaceRootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &WorkspaceRootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Resolve turns a raw source path into an absolute path and classifies it
// as inside or outside the workspace root. Relative paths are joined onto
// the root. It never fails on paths that do not exist; existence is checked
// by whoever materializes the path.
func (r *Resolver) Resolve(sourcePath string) (Resolved, error) {
	if r.workspaceRoot == "" || r.workspaceRoot == "." {
		return Resolved{}, ErrWorkspaceRootNotSet
	}
	if strings.TrimSpace(sourcePath) == "" {
		return Resolved{}, ErrEmptyPath
	}

	var abs string
	if filepath.IsAbs(sourcePath) {
		abs = filepath.Clean(sourcePath)
	} else {
		abs = filepath.Clean(filepath.Join(r.workspaceRoot, sourcePath))
	}

	// Containment: the root itself or a child of the root
	if abs != r.workspaceRoot && !strings.HasPrefix(abs, r.workspaceRoot+string(filepath.Separator)) {
		return Resolved{Abs: abs}, nil
	}

	rel, err := filepath.Rel(r.workspaceRoot, abs)
	if err != nil {
		return Resolved{Abs: abs}, nil
	}
	if rel == "." {
		rel = ""
	}
	return Resolved{Abs: abs, Inside: true, Rel: filepath.ToSlash(rel)}, nil
}

// Abs joins a workspace-relative fsPath onto the root. Absolute paths are
// returned cleaned.
func (r *Resolver) Abs(fsPath string) string {
	if filepath.IsAbs(fsPath) {
		return filepath.Clean(fsPath)
	}
	return filepath.Join(r.workspaceRoot, filepath.FromSlash(fsPath))
}

// TopLevel returns the first segment of a workspace-relative path, or ""
// when the path is empty, absolute or escapes the root.
func TopLevel(rel string) string {
	rel = filepath.ToSlash(filepath.Clean(filepath.FromSlash(rel)))
	if rel == "." || rel == "" || strings.HasPrefix(rel, "/") || rel == ".." || strings.HasPrefix(rel, "../") {
		return ""
	}
	first, _, _ := strings.Cut(rel, "/")
	return first
}
