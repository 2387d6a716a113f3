package ignore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/ironyman/dendron/internal/vault"
)

// Matcher answers whether a workspace-relative path is already excluded by
// the patterns of one .gitignore file.
type Matcher struct {
	matcher gitignore.Matcher
}

// LoadMatcher parses <dir>/.gitignore. A missing file gives a matcher that
// never ignores.
func LoadMatcher(fs fileSystem, dir string) (*Matcher, error) {
	path := filepath.Join(dir, vault.GitIgnoreFile)
	data, err := fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Matcher{}, nil
		}
		return nil, &ReadError{Path: path, Cause: err}
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return &Matcher{matcher: gitignore.NewMatcher(patterns)}, nil
}

// Ignored reports whether rel matches the loaded patterns.
func (m *Matcher) Ignored(rel string, isDir bool) bool {
	if m.matcher == nil {
		return false
	}
	segments := splitPath(rel)
	if len(segments) == 0 {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

// splitPath splits a path into segments for gitignore matching, dropping
// empty and "." segments.
func splitPath(path string) []string {
	var segments []string
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
