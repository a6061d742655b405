package extractor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/internal/component"
)

func extractSample(t *testing.T) map[string]component.Raw {
	t.Helper()
	ext := NewGoExtractor()
	comps, err := ext.ExtractFile(context.Background(),
		filepath.Join("testdata", "sample.go"), "testdata/sample.go")
	require.NoError(t, err)

	byName := make(map[string]component.Raw, len(comps))
	for _, c := range comps {
		byName[c.Name] = c
	}
	return byName
}

func TestGoExtractor(t *testing.T) {
	byName := extractSample(t)

	t.Run("overall count", func(t *testing.T) {
		assert.Len(t, byName, 10)
	})

	t.Run("constants and variables", func(t *testing.T) {
		version, ok := byName["SchemaVersion"]
		require.True(t, ok)
		assert.Equal(t, "constant", version.Kind)
		assert.Equal(t, `"1.0.0"`, version.ValueString())

		maxDepth, ok := byName["MaxDepth"]
		require.True(t, ok)
		assert.Equal(t, "32", maxDepth.ValueString())

		relation, ok := byName["DefaultRelation"]
		require.True(t, ok)
		assert.Equal(t, "variable", relation.Kind)
		assert.Equal(t, `"calls"`, relation.ValueString())
	})

	t.Run("functions", func(t *testing.T) {
		fn, ok := byName["Connect"]
		require.True(t, ok)
		assert.Equal(t, "function", fn.Kind)
		require.Len(t, fn.Parameters, 2)
		assert.Equal(t, "a", fn.Parameters[0].Name)
		assert.Equal(t, "int", fn.ParameterTypes["a"])
		assert.Equal(t, "string", fn.ParameterTypes["b"])
		assert.Equal(t, "bool", fn.ReturnType)

		require.Len(t, fn.FunctionCalls, 1)
		assert.Equal(t, "Describe", fn.FunctionCalls[0].Callee())
	})

	t.Run("methods", func(t *testing.T) {
		m, ok := byName["Render"]
		require.True(t, ok)
		assert.Equal(t, "method", m.Kind)
		assert.Equal(t, "testdata/sample.go::Node", m.ReceiverType)

		// fmt.Println survives, make() does not.
		callees := make([]string, 0, len(m.FunctionCalls))
		for _, c := range m.FunctionCalls {
			callees = append(callees, c.Callee())
		}
		assert.Equal(t, []string{"fmt.Println"}, callees)

		// The composite literal's type is a local dependency.
		assert.Contains(t, m.TypeDependencies, "testdata/sample.go::Span")
	})

	t.Run("structs", func(t *testing.T) {
		node, ok := byName["Node"]
		require.True(t, ok)
		assert.Equal(t, "struct", node.Kind)
		assert.Equal(t, []string{"testdata/sample.go::Span", "string", "int"}, node.FieldTypes)
		assert.Equal(t, []string{"Render"}, node.Methods)

		span, ok := byName["Span"]
		require.True(t, ok)
		assert.Equal(t, "struct", span.Kind)
	})

	t.Run("interfaces", func(t *testing.T) {
		w, ok := byName["Walker"]
		require.True(t, ok)
		assert.Equal(t, "interface", w.Kind)
		assert.Equal(t, []string{"fmt.Stringer"}, w.TypeDependencies)
	})

	t.Run("lines and code", func(t *testing.T) {
		fn := byName["Describe"]
		assert.Greater(t, fn.StartLine, 0)
		assert.GreaterOrEqual(t, fn.EndLine, fn.StartLine)
		assert.Contains(t, fn.Code, "func Describe")
	})
}

func TestGoExtractorBrokenSource(t *testing.T) {
	// Tree-sitter is error-tolerant: half-written code still yields the
	// declarations it can see.
	ext := NewGoExtractor()
	comps, err := ext.Extract(context.Background(),
		[]byte("package x\n\nfunc ok() {}\n\nfunc broken( {"), "x.go")
	require.NoError(t, err)

	var names []string
	for _, c := range comps {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "ok")
}

func TestGoExtractorMissingFile(t *testing.T) {
	ext := NewGoExtractor()
	_, err := ext.ExtractFile(context.Background(), "does/not/exist.go", "exist.go")
	assert.Error(t, err)
}
