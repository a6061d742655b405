package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/internal/graph"
)

func testServer() *Server {
	g := graph.NewGraph()
	g.AddNode("app.py::main", "function", map[string]any{"file_path": "app.py"})
	g.AddNode("app.py::Worker", "class", map[string]any{"file_path": "app.py"})
	g.AddNode("util.py::slug", "function", map[string]any{"file_path": "util.py"})
	g.SetEdge("app.py::main", "app.py::Worker", "instantiates")
	g.SetEdge("app.py::Worker", "util.py::slug", "calls")
	return New("codegraph", "test", g)
}

func TestGetNode(t *testing.T) {
	s := testServer()

	text, err := s.getNode("app.py::main")
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "function", out["category"])
	assert.Equal(t, float64(1), out["out_count"])
	assert.Equal(t, float64(0), out["in_count"])

	_, err = s.getNode("nope")
	assert.Error(t, err)
}

func TestListNeighbors(t *testing.T) {
	s := testServer()

	text, err := s.listNeighbors("app.py::Worker")
	require.NoError(t, err)
	assert.Contains(t, text, `"util.py::slug"`)
	assert.Contains(t, text, `"calls"`)
	assert.Contains(t, text, `"app.py::main"`)
}

func TestFindPath(t *testing.T) {
	s := testServer()

	text, err := s.findPath("app.py::main", "util.py::slug")
	require.NoError(t, err)

	var out struct {
		Path   []string `json:"path"`
		Length int      `json:"length"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, []string{"app.py::main", "app.py::Worker", "util.py::slug"}, out.Path)
	assert.Equal(t, 2, out.Length)

	text, err = s.findPath("util.py::slug", "app.py::main")
	require.NoError(t, err)
	assert.Contains(t, text, "No path")
}

func TestSubgraphTool(t *testing.T) {
	s := testServer()

	text, err := s.subgraph("app.py::main", 1, "out")
	require.NoError(t, err)
	assert.Contains(t, text, "app.py::Worker")
	assert.NotContains(t, text, "util.py::slug")

	_, err = s.subgraph("app.py::main", 1, "sideways")
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	s := testServer()
	assert.Contains(t, s.stats(), `"Nodes": 3`)
}
