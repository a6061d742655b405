package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRepoRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, FindRepoRoot(nested))
	assert.Equal(t, root, FindRepoRoot(root))
}

func TestFindRepoRootWithoutGit(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, FindRepoRoot(dir))
}
