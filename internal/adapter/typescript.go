package adapter

import (
	"strings"

	"codegraph/internal/component"
)

var tsExts = []string{".ts", ".tsx"}

// AdaptTypeScript resolves TypeScript components. Ids are module-qualified
// (`module::name`, members `module::Class::name`); imported references are
// rewritten through the per-file import table so an aliased import resolves
// to the id the defining module's own declaration receives.
func AdaptTypeScript(ctx Context, comps []component.Raw) Schema {
	b := NewBuilder()

	imports := make(importTable)
	exports := make(exportIndex)
	for i := range comps {
		comp := &comps[i]
		switch comp.Kind {
		case "import":
			if comp.Module != "" && comp.Statement != "" {
				parseESImport(imports, comp.Module, comp.Statement, ".ts", tsExts)
			}
		case "export":
			module := tsModuleOf(ctx, comp)
			exports.record(module, comp.Name, comp.Default)
		}
	}

	for i := range comps {
		comp := &comps[i]
		kind := comp.Kind
		id := tsNodeID(ctx, comp)
		if id == "" {
			continue
		}

		file := comp.FilePath
		if file == "" {
			file = comp.Module
		}
		attrs := map[string]any{
			"file_path": file,
			"location": map[string]any{
				"start":  comp.Start(),
				"end":    comp.End(),
				"module": comp.Module,
			},
		}
		if comp.TypeSignature != "" {
			attrs["signature"] = comp.TypeSignature
		}
		if len(comp.Parameters) > 0 {
			attrs["parameters"] = comp.Parameters
		}
		if len(comp.Decorators) > 0 {
			attrs["decorators"] = comp.Decorators
		}
		if kind == "variable" {
			if v := comp.ValueString(); v != "" {
				attrs["value"] = v
			}
		}
		if kind == "class" {
			if len(comp.Bases) > 0 {
				attrs["bases"] = comp.Bases
			}
			if len(comp.Implements) > 0 {
				attrs["implements"] = comp.Implements
			}
		}
		if kind == "interface" && len(comp.Extends) > 0 {
			attrs["extends"] = comp.Extends
		}
		b.AddNode(id, kind, attrs)

		// typeof/keyof operator nodes keep their extractor-assigned id.
		if (comp.Operator == "typeof" || comp.Operator == "keyof") && comp.ID != "" {
			b.AddNode(comp.ID, comp.Operator, map[string]any{
				"label":  comp.Operator + " " + comp.Target,
				"target": comp.Target,
			})
		}
	}

	for i := range comps {
		comp := &comps[i]
		from := tsNodeID(ctx, comp)
		module := tsModuleOf(ctx, comp)

		switch comp.Kind {
		case "class":
			for _, base := range comp.Bases {
				b.AddEdge(from, resolveTSSymbol(module, base, imports, exports), "extends")
			}
			for _, iface := range comp.Implements {
				b.AddEdge(from, resolveTSSymbol(module, iface, imports, exports), "implements")
			}
		case "interface":
			for _, base := range comp.Extends {
				b.AddEdge(from, resolveTSSymbol(module, base, imports, exports), "extends")
			}
		case "namespace":
			for _, export := range comp.Exports {
				b.AddEdge(from, joinID(module, export.Name), "exports")
			}
		case "type_alias":
			for _, dep := range comp.TypeDependencies {
				to := joinID(module, dep)
				if from != to {
					b.AddEdge(from, to, "type_dependency")
				}
			}
		case "method", "field":
			if comp.Class != "" {
				b.AddEdge(joinID(module, comp.Class), from, "defines")
			}
		case "edge":
			// Extractor-level edge passthrough (literal types, mapped types).
			b.AddEdge(comp.From, comp.To, comp.Relation)
		}

		switch comp.Kind {
		case "function", "method", "variable", "function_call":
			for _, call := range comp.FunctionCalls {
				to := resolveTSCall(module, call, imports, exports)
				if to != "" && from != to {
					b.AddEdge(from, to, "calls")
				}
			}
		}

		if comp.Operator == "typeof" || comp.Operator == "keyof" {
			for _, dep := range comp.Deps {
				to := dep
				if !strings.Contains(dep, "::") {
					to = joinID(module, dep)
				}
				if comp.ID != "" && comp.ID != to {
					b.AddEdge(comp.ID, to, "fdeps")
				}
			}
		}
	}

	return b.Finish()
}

func tsModuleOf(ctx Context, comp *component.Raw) string {
	if comp.Module != "" {
		return comp.Module
	}
	if comp.FilePath != "" {
		return comp.FilePath
	}
	return ctx.CurrentFile
}

func tsNodeID(ctx Context, comp *component.Raw) string {
	module := tsModuleOf(ctx, comp)
	if module == "" {
		return comp.ID
	}
	kind := comp.Kind
	if (kind == "method" || kind == "field") && comp.Class != "" && comp.Name != "" {
		return joinID(module, comp.Class, comp.Name)
	}
	if comp.Name != "" {
		return joinID(module, comp.Name)
	}
	return comp.ID
}

// resolveTSSymbol maps a locally visible symbol (`Base` or `NS.Base`) to a
// target id, consulting the import table before falling back to the current
// module.
func resolveTSSymbol(module, sym string, imports importTable, exports exportIndex) string {
	sym = strings.TrimSpace(sym)
	if sym == "" {
		return ""
	}
	if recv, prop, ok := strings.Cut(sym, "."); ok {
		if entry, found := imports.lookup(module, recv); found {
			return joinID(entry.module, prop)
		}
	}
	if entry, found := imports.lookup(module, sym); found {
		if entry.name == "default" {
			return joinID(entry.module, exports.defaultNameOf(entry.module))
		}
		return joinID(entry.module, entry.name)
	}
	return joinID(module, sym)
}

// resolveTSCall picks a call-edge target. An extractor hint that goes beyond
// same-file qualification is preferred verbatim; same-file hints for imported
// names are rewritten through the import table.
func resolveTSCall(module string, call component.CallRef, imports importTable, exports exportIndex) string {
	bare := call.Callee()
	hint := call.ResolvedCallee
	if hint == "" {
		hint = call.ResolvedHint
	}

	if bare != "" {
		if _, imported := imports.lookup(module, bare); imported {
			return resolveTSSymbol(module, bare, imports, exports)
		}
		if recv, _, ok := strings.Cut(bare, "."); ok {
			if _, imported := imports.lookup(module, recv); imported {
				return resolveTSSymbol(module, bare, imports, exports)
			}
		}
	}
	if hint != "" {
		return hint
	}
	if bare == "" {
		return ""
	}
	return joinID(module, bare)
}
