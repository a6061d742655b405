package adapter

import (
	"fmt"
	"strings"

	"codegraph/internal/component"
)

// Anonymous constructs get ids keyed by kind and start line instead of a
// name; these kinds come straight from the Python extractor.
var pythonAnonymousKinds = map[string]bool{
	"lambda":               true,
	"yield":                true,
	"list_comprehension":   true,
	"set_comprehension":    true,
	"dict_comprehension":   true,
	"generator_expression": true,
}

// AdaptPython resolves Python components. Ids are `file::name`, with methods
// member-qualified as `file::Class.name` and anonymous constructs as
// `file::kind.line`.
func AdaptPython(ctx Context, comps []component.Raw) Schema {
	b := NewBuilder()

	// Import table, one per file: local name -> dotted source module.
	importMap := make(map[string]map[string]string)
	for i := range comps {
		comp := &comps[i]
		if comp.Kind != "import" || comp.Name == "" || comp.From == "" {
			continue
		}
		file := comp.FilePath
		if importMap[file] == nil {
			importMap[file] = make(map[string]string)
		}
		importMap[file][comp.Name] = comp.From
	}

	for i := range comps {
		comp := &comps[i]
		id := pythonNodeID(ctx, comp)
		attrs := map[string]any{
			"file_path": pythonModuleOf(ctx, comp),
			"location": map[string]any{
				"start":  comp.Start(),
				"end":    comp.End(),
				"module": comp.Module,
			},
		}
		if len(comp.Decorators) > 0 {
			attrs["decorators"] = comp.Decorators
		}
		if len(comp.Parameters) > 0 {
			attrs["parameters"] = comp.Parameters
		}
		if comp.Returns != "" {
			attrs["returns"] = comp.Returns
		}
		if comp.Annotation != "" {
			attrs["annotation"] = comp.Annotation
		}
		b.AddNode(id, comp.Kind, attrs)
	}

	// Inheritance: a base resolves against the declaring file; unresolved
	// bases become stubs during closure.
	for i := range comps {
		comp := &comps[i]
		if comp.Kind != "class" || len(comp.Bases) == 0 {
			continue
		}
		from := pythonNodeID(ctx, comp)
		for _, base := range comp.Bases {
			if base == "" {
				continue
			}
			b.AddEdge(from, joinID(pythonModuleOf(ctx, comp), base), "extends")
		}
	}

	for i := range comps {
		comp := &comps[i]
		if len(comp.FunctionCalls) == 0 {
			continue
		}
		from := pythonNodeID(ctx, comp)
		for _, call := range comp.FunctionCalls {
			target := call.ResolvedCallee
			if target == "" {
				continue
			}
			// The extractor resolves callees within the file; rewrite the
			// target when the callee was imported from another module.
			parts := strings.SplitN(target, "::", 2)
			if len(parts) == 2 {
				if mod, ok := importMap[comp.FilePath][parts[1]]; ok {
					path := strings.ReplaceAll(mod, ".", "/") + ".py"
					target = path + "::" + parts[1]
				}
			}
			if from != target {
				b.AddEdge(from, target, "calls")
			}
		}
	}

	return b.Finish()
}

func pythonModuleOf(ctx Context, comp *component.Raw) string {
	if comp.FilePath != "" {
		return comp.FilePath
	}
	if comp.Module != "" {
		return comp.Module
	}
	return ctx.CurrentFile
}

func pythonNodeID(ctx Context, comp *component.Raw) string {
	module := pythonModuleOf(ctx, comp)
	kind := comp.Kind
	switch {
	case (kind == "method" || kind == "async_method") && comp.Class != "" && comp.Name != "":
		return joinID(module, comp.Class+"."+comp.Name)
	case pythonAnonymousKinds[kind]:
		return joinID(module, fmt.Sprintf("%s.%d", kind, comp.Start()))
	case comp.Name != "":
		return joinID(module, comp.Name)
	}
	return joinID(module, fmt.Sprintf("%s.%d", kind, comp.Start()))
}

// joinID concatenates non-empty scope segments with the `::` separator.
func joinID(segments ...string) string {
	parts := segments[:0:0]
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "::")
}
