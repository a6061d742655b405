package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codegraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
project:
  root: /src/app
  languages: [golang, python]
  ignore: ["gen/"]
output:
  dir: /tmp/out
  graphml: true
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/src/app", cfg.Project.Root)
	assert.Equal(t, []string{"golang", "python"}, cfg.Project.Languages)
	assert.Equal(t, []string{"gen/"}, cfg.Project.Ignore)
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.True(t, cfg.Output.GraphML)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Project.Root)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, filepath.Join("output", "codegraph.db"), cfg.Output.DBPath)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("CODEGRAPH_ROOT", "/elsewhere")
	t.Setenv("CODEGRAPH_DB_PATH", "/var/db/code.db")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere", cfg.Project.Root)
	assert.Equal(t, "/var/db/code.db", cfg.Output.DBPath)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
