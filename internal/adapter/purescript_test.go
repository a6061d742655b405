package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const purescriptFixture = `[
  {"kind":"import","module":"Data.Maybe","file_path":"src/Main.purs",
   "code":"import Data.Maybe (fromMaybe, Maybe(Just, Nothing))"},
  {"kind":"import","module":"App.Render","file_path":"src/Main.purs",
   "code":"import App.Render (class Render, render)"},
  {"kind":"function","name":"main","module":"Main","file_path":"src/Main.purs",
   "type_signature":"main :: Effect Unit","start_line":8,"end_line":14,
   "function_calls":[
     {"name":"fromMaybe","resolved_callee":"Data.Maybe.purs::fromMaybe"},
     {"name":"greet","resolved_callee":"Main.purs::greet"}
   ]},
  {"kind":"function","name":"greet","module":"Main","file_path":"src/Main.purs",
   "start_line":16,"end_line":18,
   "type_dependencies":["Greeting"]},
  {"kind":"type_alias","name":"Greeting","module":"Main","file_path":"src/Main.purs",
   "start_line":4,"end_line":4,"type_dependencies":["String"]},
  {"kind":"data_declaration","name":"Mode","module":"Main","file_path":"src/Main.purs",
   "start_line":5,"end_line":6,
   "constructors":[{"name":"Quiet"},{"name":"Loud"}]},
  {"kind":"class_instance","name":"renderMode","instance_name":"Render",
   "module":"Main","file_path":"src/Main.purs","start_line":20,"end_line":22}
]`

func TestAdaptPureScript(t *testing.T) {
	comps := decodeComps(t, purescriptFixture)
	s, err := Adapt("purescript", comps)
	require.NoError(t, err)

	t.Run("module qualified ids keep the extension", func(t *testing.T) {
		n := findNode(s, "Main.purs::main")
		require.NotNil(t, n)
		assert.Equal(t, "function", n.Category)
		assert.Equal(t, "main :: Effect Unit", n.Attrs["signature"])
	})

	t.Run("module level import edges", func(t *testing.T) {
		assert.True(t, hasEdge(s, "Main", "Data.Maybe", "imports"))
		assert.True(t, hasEdge(s, "Main", "App.Render", "imports"))
	})

	t.Run("symbol level import edges", func(t *testing.T) {
		assert.True(t, hasEdge(s,
			"Main.purs::fromMaybe", "Data.Maybe.purs::fromMaybe", "imports"))
		// Constructor lists expand to the type and each constructor.
		assert.True(t, hasEdge(s, "Main.purs::Maybe", "Data.Maybe.purs::Maybe", "imports"))
		assert.True(t, hasEdge(s, "Main.purs::Just", "Data.Maybe.purs::Just", "imports"))
		// The `class` keyword is stripped from class imports.
		assert.True(t, hasEdge(s, "Main.purs::Render", "App.Render.purs::Render", "imports"))
	})

	t.Run("resolved calls", func(t *testing.T) {
		assert.True(t, hasEdge(s, "Main.purs::main", "Data.Maybe.purs::fromMaybe", "calls"))
		assert.True(t, hasEdge(s, "Main.purs::main", "Main.purs::greet", "calls"))
	})

	t.Run("type dependencies", func(t *testing.T) {
		assert.True(t, hasEdge(s, "Main.purs::greet", "Main.purs::Greeting", "type_dependency"))
	})

	t.Run("instance implements its class", func(t *testing.T) {
		assert.True(t, hasEdge(s, "Main.purs::renderMode", "Main.purs::Render", "implements"))
	})

	t.Run("data declaration keeps constructors", func(t *testing.T) {
		n := findNode(s, "Main.purs::Mode")
		require.NotNil(t, n)
		assert.Equal(t, "data_declaration", n.Category)
	})

	t.Run("imports emit no nodes of their own", func(t *testing.T) {
		for _, n := range s.Nodes {
			assert.NotEqual(t, "import", n.Category, n.ID)
		}
	})
}
