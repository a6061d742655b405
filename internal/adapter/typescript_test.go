package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tsFixture = `[
  {"kind":"import","module":"src/app.ts",
   "statement":"import { Greeter as G } from './lib/greeter'"},
  {"kind":"import","module":"src/app.ts",
   "statement":"import Logger from './logging'"},
  {"kind":"export","module":"src/logging.ts","name":"ConsoleLogger","default":true},
  {"kind":"class","module":"src/lib/greeter.ts","name":"Greeter","start_line":1,"end_line":10},
  {"kind":"class","module":"src/logging.ts","name":"ConsoleLogger","start_line":1,"end_line":8},
  {"kind":"class","module":"src/app.ts","name":"App","bases":["G"],"implements":["Runnable"],
   "start_line":3,"end_line":20},
  {"kind":"method","module":"src/app.ts","class":"App","name":"run","start_line":5,"end_line":12,
   "function_calls":[
     {"name":"G.create","resolved_callee":"src/app.ts::G.create"},
     {"name":"Logger","resolved_callee":"src/app.ts::Logger"},
     {"name":"localHelper","resolved_callee":"src/app.ts::localHelper"}
   ]},
  {"kind":"function","module":"src/app.ts","name":"localHelper","start_line":22,"end_line":24},
  {"kind":"namespace","module":"src/util.ts","name":"Dates",
   "exports":[{"name":"format"},"parse"],"start_line":1,"end_line":30},
  {"kind":"type_alias","module":"src/util.ts","name":"Stamp",
   "type_dependencies":["Instant"],"start_line":32,"end_line":32},
  {"kind":"edge","from":"src/util.ts::Stamp","to":"src/util.ts::Brand","relation":"type_dependency"}
]`

func TestAdaptTypeScript(t *testing.T) {
	comps := decodeComps(t, tsFixture)
	s, err := Adapt("typescript", comps)
	require.NoError(t, err)

	t.Run("aliased import resolves to defining module", func(t *testing.T) {
		assert.True(t, hasEdge(s, "src/app.ts::App", "src/lib/greeter.ts::Greeter", "extends"))
	})

	t.Run("property access through alias", func(t *testing.T) {
		assert.True(t, hasEdge(s, "src/app.ts::App::run", "src/lib/greeter.ts::create", "calls"))
	})

	t.Run("default import resolves to declared name", func(t *testing.T) {
		assert.True(t, hasEdge(s, "src/app.ts::App::run", "src/logging.ts::ConsoleLogger", "calls"))
	})

	t.Run("same file hint trusted for local names", func(t *testing.T) {
		assert.True(t, hasEdge(s, "src/app.ts::App::run", "src/app.ts::localHelper", "calls"))
	})

	t.Run("implements against current module", func(t *testing.T) {
		assert.True(t, hasEdge(s, "src/app.ts::App", "src/app.ts::Runnable", "implements"))
	})

	t.Run("class defines members", func(t *testing.T) {
		assert.True(t, hasEdge(s, "src/app.ts::App", "src/app.ts::App::run", "defines"))
	})

	t.Run("nodes carry their source file", func(t *testing.T) {
		n := findNode(s, "src/app.ts::App")
		require.NotNil(t, n)
		assert.Equal(t, "src/app.ts", n.Attrs["file_path"])
	})

	t.Run("namespace exports", func(t *testing.T) {
		assert.True(t, hasEdge(s, "src/util.ts::Dates", "src/util.ts::format", "exports"))
		assert.True(t, hasEdge(s, "src/util.ts::Dates", "src/util.ts::parse", "exports"))
	})

	t.Run("type alias dependencies", func(t *testing.T) {
		assert.True(t, hasEdge(s, "src/util.ts::Stamp", "src/util.ts::Instant", "type_dependency"))
	})

	t.Run("edge records pass through", func(t *testing.T) {
		assert.True(t, hasEdge(s, "src/util.ts::Stamp", "src/util.ts::Brand", "type_dependency"))
	})

	t.Run("closure covers every endpoint", func(t *testing.T) {
		for _, e := range s.Edges {
			assert.NotNil(t, findNode(s, e.From), e.From)
			assert.NotNil(t, findNode(s, e.To), e.To)
		}
	})
}

func TestResolveTSCallPrefersImportOverHint(t *testing.T) {
	// The extractor qualifies callees against the calling file; an imported
	// name must win over that same-file hint.
	comps := decodeComps(t, `[
	  {"kind":"import","module":"a.ts","statement":"import { helper } from './b'"},
	  {"kind":"function","module":"b.ts","name":"helper","start_line":1,"end_line":2},
	  {"kind":"function","module":"a.ts","name":"caller","start_line":1,"end_line":4,
	   "function_calls":[{"name":"helper","resolved_callee":"a.ts::helper"}]}
	]`)
	s, err := Adapt("typescript", comps)
	require.NoError(t, err)
	assert.True(t, hasEdge(s, "a.ts::caller", "b.ts::helper", "calls"))
	assert.False(t, hasEdge(s, "a.ts::caller", "a.ts::helper", "calls"))
}
