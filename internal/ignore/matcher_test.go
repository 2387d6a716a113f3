package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ironyman/dendron/internal/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher(t *testing.T) {
	root := t.TempDir()
	content := "# deps\ndependencies/\n*.log\n\nvault2\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(content), 0o644))

	m, err := LoadMatcher(fsutil.NewOSFileSystem(), root)
	require.NoError(t, err)

	tests := []struct {
		path    string
		isDir   bool
		ignored bool
	}{
		{"dependencies", true, true},
		{"dependencies/localhost/v", true, true},
		{"vault2", true, true},
		{"debug.log", false, true},
		{"vault3", true, false},
		{"", true, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ignored, m.Ignored(tt.path, tt.isDir), tt.path)
	}
}

func TestMatcher_MissingFile(t *testing.T) {
	m, err := LoadMatcher(fsutil.NewOSFileSystem(), t.TempDir())
	require.NoError(t, err)
	assert.False(t, m.Ignored("anything", true))
}
