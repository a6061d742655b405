package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pythonFixture = `[
  {"kind":"class","name":"Person","file_path":"models.py","start_line":1,"end_line":12},
  {"kind":"method","name":"greet","class":"Person","file_path":"models.py",
   "start_line":4,"end_line":6,
   "parameters":[{"name":"self"},{"name":"loud","annotation":"bool"}],"returns":"str"},
  {"kind":"class","name":"Student","file_path":"models.py","bases":["Person"],
   "start_line":14,"end_line":20},
  {"kind":"import","name":"slugify","from":"utils.text","file_path":"app.py"},
  {"kind":"function","name":"main","file_path":"app.py","start_line":3,"end_line":9,
   "decorators":["cli.command"],
   "function_calls":[
     {"name":"slugify","resolved_callee":"app.py::slugify"},
     {"name":"report","resolved_callee":"app.py::report"}
   ]},
  {"kind":"function","name":"report","file_path":"app.py","start_line":11,"end_line":14},
  {"kind":"lambda","file_path":"app.py","start_line":16,"end_line":16}
]`

func TestAdaptPython(t *testing.T) {
	comps := decodeComps(t, pythonFixture)
	s, err := Adapt("python", comps)
	require.NoError(t, err)

	t.Run("method ids are class qualified", func(t *testing.T) {
		n := findNode(s, "models.py::Person.greet")
		require.NotNil(t, n)
		assert.Equal(t, "method", n.Category)
		assert.Equal(t, "str", n.Attrs["returns"])
		assert.Equal(t, "models.py", n.Attrs["file_path"])
	})

	t.Run("inheritance", func(t *testing.T) {
		assert.True(t, hasEdge(s, "models.py::Student", "models.py::Person", "extends"))
	})

	t.Run("imported callee rewritten to source module", func(t *testing.T) {
		assert.True(t, hasEdge(s, "app.py::main", "utils/text.py::slugify", "calls"))
		assert.False(t, hasEdge(s, "app.py::main", "app.py::slugify", "calls"))
	})

	t.Run("local callee kept", func(t *testing.T) {
		assert.True(t, hasEdge(s, "app.py::main", "app.py::report", "calls"))
	})

	t.Run("anonymous constructs keyed by kind and line", func(t *testing.T) {
		require.NotNil(t, findNode(s, "app.py::lambda.16"))
	})

	t.Run("decorators kept as attrs", func(t *testing.T) {
		n := findNode(s, "app.py::main")
		require.NotNil(t, n)
		assert.Equal(t, []string{"cli.command"}, n.Attrs["decorators"])
	})

	t.Run("unresolved base becomes external type", func(t *testing.T) {
		orphan := decodeComps(t, `[
		  {"kind":"class","name":"Job","file_path":"jobs.py","bases":["Task"],
		   "start_line":1,"end_line":5}
		]`)
		out, err := Adapt("python", orphan)
		require.NoError(t, err)
		stub := findNode(out, "jobs.py::Task")
		require.NotNil(t, stub)
		assert.Equal(t, CategoryExternalType, stub.Category)
	})
}
