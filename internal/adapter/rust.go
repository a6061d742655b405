package adapter

import (
	"fmt"
	"strings"

	"codegraph/internal/component"
)

var rustItemKinds = map[string]bool{
	"function_item": true,
	"struct_item":   true,
	"enum_item":     true,
	"trait_item":    true,
	"impl_item":     true,
	"mod_item":      true,
}

type rustItem struct {
	comp *component.Raw
	fq   string
}

// AdaptRust resolves Rust components. Records nest via `children`; the
// module path is accumulated from enclosing mod items. Ids are
// `module_path::name`, with impl items disambiguated by `@start_line` since
// several impls of the same name can share a module.
func AdaptRust(ctx Context, comps []component.Raw) Schema {
	b := NewBuilder()

	var items []rustItem
	var flatten func(batch []component.Raw, modulePath []string)
	flatten = func(batch []component.Raw, modulePath []string) {
		for i := range batch {
			comp := &batch[i]
			path := modulePath
			if comp.EffectiveKind() == "mod_item" && comp.Name != "" {
				path = append(append([]string{}, modulePath...), comp.Name)
			}
			if len(comp.Children) > 0 {
				flatten(comp.Children, path)
			}
			items = append(items, rustItem{comp: comp, fq: rustFQ(comp, modulePath)})
		}
	}
	flatten(comps, nil)

	for _, item := range items {
		comp := item.comp
		if !rustItemKinds[comp.EffectiveKind()] || item.fq == "" {
			continue
		}
		b.AddNode(item.fq, comp.EffectiveKind(), map[string]any{
			"name":      comp.Name,
			"file_path": comp.FilePath,
			"start":     comp.Start(),
			"end":       comp.End(),
		})
	}

	for _, item := range items {
		comp := item.comp
		from := item.fq
		if from == "" {
			from = comp.Name
		}
		if from == "" {
			continue
		}

		for _, call := range comp.FunctionCalls {
			target := call.Name
			if call.ModuleName != "" && call.ModuleName != call.Name {
				target = call.ModuleName
			}
			b.AddEdge(from, target, "calls")
		}
		for _, call := range comp.MethodCalls {
			target := call.ModuleName
			if target == "" {
				if call.Receiver != "" {
					target = call.Receiver + "::" + call.Method
				} else {
					target = call.Method
				}
			}
			b.AddEdge(from, target, "calls")
		}
		for _, call := range comp.MacroCalls {
			target := call.ModuleName
			if target == "" {
				target = call.Name
			}
			b.AddEdge(from, target, "calls")
		}
		if comp.EffectiveKind() == "use_declaration" && comp.Imports != nil {
			for _, path := range comp.Imports.Paths {
				b.AddEdge(from, path, "imports")
			}
		}
		for _, typ := range comp.TypesUsed {
			target := typ.ModuleName
			if target == "" {
				target = typ.Name
			}
			b.AddEdge(from, target, "uses_type")
		}
	}

	return b.Finish()
}

// rustFQ derives the fully qualified id for one item given the module path of
// its enclosing scope.
func rustFQ(comp *component.Raw, modulePath []string) string {
	kind := comp.EffectiveKind()
	if !rustItemKinds[kind] {
		return ""
	}
	name := comp.Name
	if name == "" {
		name = "<unnamed>"
	}
	fq := name
	if comp.ResolvedModulePath != "" {
		fq = comp.ResolvedModulePath + "::" + name
	} else if len(modulePath) > 0 {
		fq = strings.Join(modulePath, "::") + "::" + name
	}
	if kind == "impl_item" {
		fq = fmt.Sprintf("%s@%d", fq, comp.Start())
	}
	return fq
}
