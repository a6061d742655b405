package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/internal/config"
)

const sampleSource = `package main

func Greet() string {
	return "hi"
}

func main() {
	Greet()
}
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte(sampleSource), 0o644))

	cfg := config.Default()
	cfg.Project.Root = root
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")
	cfg.Output.DBPath = filepath.Join(cfg.Output.Dir, "codegraph.db")
	return cfg
}

func TestScannerRun(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	report, err := NewScanner(cfg).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.FilesScanned)
	assert.Equal(t, 1, report.FilesExtracted)
	assert.Zero(t, report.ExtractErrors)
	assert.Equal(t, []string{"golang"}, report.Languages)
	assert.GreaterOrEqual(t, report.Graph.Nodes, 2)

	t.Run("fdep mirror", func(t *testing.T) {
		assert.FileExists(t, filepath.Join(cfg.Output.Dir, "fdep", "main.go.json"))
	})

	t.Run("artifacts", func(t *testing.T) {
		assert.FileExists(t, filepath.Join(cfg.Output.Dir, "graph.graphml"))
		assert.FileExists(t, filepath.Join(cfg.Output.Dir, "graph.gob"))
		assert.FileExists(t, cfg.Output.DBPath)
	})

	t.Run("graph content", func(t *testing.T) {
		g, err := LoadGraph(ctx, cfg)
		require.NoError(t, err)
		assert.True(t, g.HasNode("main.go::Greet"))
		assert.True(t, g.HasNode("main.go::main"))
		rel, ok := g.Relation("main.go::main", "main.go::Greet")
		require.True(t, ok)
		assert.Equal(t, "calls", rel)

		// Impact queries and the sqlite file index key on this attribute.
		n := g.Node("main.go::Greet")
		require.NotNil(t, n)
		assert.Equal(t, "main.go", n.Attrs["file_path"])
	})
}

func TestScannerBuildWithoutExtract(t *testing.T) {
	cfg := testConfig(t)
	_, _, err := NewScanner(cfg).Build(context.Background())
	assert.Error(t, err)
}

func TestLoadGraphFallsBackToStore(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	_, err := NewScanner(cfg).Run(ctx)
	require.NoError(t, err)

	// Remove the snapshot so the loader has to go through sqlite.
	require.NoError(t, os.Remove(filepath.Join(cfg.Output.Dir, "graph.gob")))

	g, err := LoadGraph(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, g.HasNode("main.go::Greet"))
}
