package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/internal/graph"
)

// a -> b -> c -> d, plus a -> c shortcut and e -> b side entry.
func testGraph() *graph.Graph {
	g := graph.NewGraph()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		g.AddNode(id, "function", map[string]any{"name": id})
	}
	g.SetEdge("a", "b", "calls")
	g.SetEdge("b", "c", "calls")
	g.SetEdge("c", "d", "uses_type")
	g.SetEdge("a", "c", "instantiates")
	g.SetEdge("e", "b", "calls")
	return g
}

func TestNeighbors(t *testing.T) {
	g := testGraph()

	n, err := Neighbors(g, "b")
	require.NoError(t, err)
	assert.Equal(t, []Neighbor{{ID: "c", Relation: "calls"}}, n.Out)
	assert.Equal(t, []Neighbor{
		{ID: "a", Relation: "calls"},
		{ID: "e", Relation: "calls"},
	}, n.In)

	_, err = Neighbors(g, "zzz")
	assert.Error(t, err)
}

func TestShortestPath(t *testing.T) {
	g := testGraph()

	t.Run("takes the shortcut", func(t *testing.T) {
		path, err := ShortestPath(g, "a", "d")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c", "d"}, path)
	})

	t.Run("trivial path", func(t *testing.T) {
		path, err := ShortestPath(g, "a", "a")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, path)
	})

	t.Run("unreachable is nil, not an error", func(t *testing.T) {
		path, err := ShortestPath(g, "d", "a")
		require.NoError(t, err)
		assert.Nil(t, path)
	})

	t.Run("unknown endpoint errors", func(t *testing.T) {
		_, err := ShortestPath(g, "a", "zzz")
		assert.Error(t, err)
	})
}

func TestTraverse(t *testing.T) {
	g := testGraph()

	t.Run("outgoing bounded", func(t *testing.T) {
		visits, err := Traverse(g, "a", 1, DirOut)
		require.NoError(t, err)
		assert.Equal(t, []Visit{{ID: "b", Depth: 1}, {ID: "c", Depth: 1}}, visits)
	})

	t.Run("deeper", func(t *testing.T) {
		visits, err := Traverse(g, "a", 3, DirOut)
		require.NoError(t, err)
		assert.Equal(t, []Visit{
			{ID: "b", Depth: 1},
			{ID: "c", Depth: 1},
			{ID: "d", Depth: 2},
		}, visits)
	})

	t.Run("incoming", func(t *testing.T) {
		visits, err := Traverse(g, "b", 1, DirIn)
		require.NoError(t, err)
		assert.Equal(t, []Visit{{ID: "a", Depth: 1}, {ID: "e", Depth: 1}}, visits)
	})

	t.Run("both directions", func(t *testing.T) {
		visits, err := Traverse(g, "c", 1, DirBoth)
		require.NoError(t, err)
		assert.Equal(t, []Visit{
			{ID: "a", Depth: 1},
			{ID: "b", Depth: 1},
			{ID: "d", Depth: 1},
		}, visits)
	})

	t.Run("zero depth reaches nothing", func(t *testing.T) {
		visits, err := Traverse(g, "a", 0, DirOut)
		require.NoError(t, err)
		assert.Empty(t, visits)
	})
}

func TestSubgraph(t *testing.T) {
	g := testGraph()

	sub, err := Subgraph(g, "a", 1, DirOut)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, sub.NodeIDs())
	// Edges between kept nodes survive, including the b -> c hop that the
	// BFS frontier itself never traversed.
	assert.Equal(t, []graph.Edge{
		{From: "a", To: "b", Relation: "calls"},
		{From: "a", To: "c", Relation: "instantiates"},
		{From: "b", To: "c", Relation: "calls"},
	}, sub.Edges())

	// Attrs are carried over.
	require.NotNil(t, sub.Node("b"))
	assert.Equal(t, "b", sub.Node("b").Attrs["name"])
}
