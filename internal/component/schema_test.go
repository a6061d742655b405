package component

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, data string) Raw {
	t.Helper()
	var r Raw
	require.NoError(t, json.Unmarshal([]byte(data), &r))
	return r
}

func TestRawKindTags(t *testing.T) {
	r := decode(t, `{"kind":"function","type":"int"}`)
	assert.Equal(t, "function", r.EffectiveKind())
	assert.Equal(t, "int", r.TypeTag)

	r = decode(t, `{"type":"function_item"}`)
	assert.Equal(t, "function_item", r.EffectiveKind())
}

func TestRawLocationShapes(t *testing.T) {
	flat := decode(t, `{"start_line":3,"end_line":9}`)
	assert.Equal(t, 3, flat.Start())
	assert.Equal(t, 9, flat.End())

	span := decode(t, `{"span":{"start_line":4,"end_line":8}}`)
	assert.Equal(t, 4, span.Start())
	assert.Equal(t, 8, span.End())

	loc := decode(t, `{"location":{"start":5,"end":7}}`)
	assert.Equal(t, 5, loc.Start())
	assert.Equal(t, 7, loc.End())

	var none Raw
	assert.Equal(t, 0, none.Start())
}

func TestCallRefShapes(t *testing.T) {
	t.Run("bare string", func(t *testing.T) {
		r := decode(t, `{"function_calls":["helper","other"]}`)
		require.Len(t, r.FunctionCalls, 2)
		assert.Equal(t, "helper", r.FunctionCalls[0].Callee())
	})

	t.Run("object with hints", func(t *testing.T) {
		r := decode(t, `{"function_calls":[
		  {"receiver":"this","property":"run"},
		  {"type":"qualified","modules":["Data.Text"],"base":"pack"}
		]}`)
		require.Len(t, r.FunctionCalls, 2)
		assert.Equal(t, "this", r.FunctionCalls[0].Receiver)
		assert.Equal(t, "pack", r.FunctionCalls[1].Callee())
	})

	t.Run("malformed entry fails the record", func(t *testing.T) {
		var r Raw
		err := json.Unmarshal([]byte(`{"function_calls":[42]}`), &r)
		assert.Error(t, err)
	})
}

func TestParamShapes(t *testing.T) {
	r := decode(t, `{"parameters":["ctx",{"name":"count","annotation":"int"}]}`)
	require.Len(t, r.Parameters, 2)
	assert.Equal(t, "ctx", r.Parameters[0].Name)
	assert.Equal(t, "count", r.Parameters[1].Name)
	assert.Equal(t, "int", r.Parameters[1].Annotation)
}

func TestImportSetShapes(t *testing.T) {
	paths := decode(t, `{"imports":["std::io","std::fmt"]}`)
	require.NotNil(t, paths.Imports)
	assert.Equal(t, []string{"std::io", "std::fmt"}, paths.Imports.Paths)

	aliases := decode(t, `{"imports":{"fromMaybe":"Data.Maybe"}}`)
	require.NotNil(t, aliases.Imports)
	assert.Equal(t, "Data.Maybe", aliases.Imports.Aliases["fromMaybe"])
}

func TestExportShapes(t *testing.T) {
	r := decode(t, `{"exports":["run",{"name":"format"}]}`)
	require.Len(t, r.Exports, 2)
	assert.Equal(t, "run", r.Exports[0].Name)
	assert.Equal(t, "format", r.Exports[1].Name)
}

func TestValueString(t *testing.T) {
	hello := decode(t, `{"value":"hello"}`)
	assert.Equal(t, "hello", hello.ValueString())
	num := decode(t, `{"value":42}`)
	assert.Equal(t, "42", num.ValueString())
	assert.Equal(t, "", new(Raw).ValueString())
}

func TestTypeRefShapes(t *testing.T) {
	r := decode(t, `{"types_used":["Config",{"name":"Server","module_name":"crate::net::Server"}]}`)
	require.Len(t, r.TypesUsed, 2)
	assert.Equal(t, "Config", r.TypesUsed[0].Name)
	assert.Equal(t, "crate::net::Server", r.TypesUsed[1].ModuleName)
}
