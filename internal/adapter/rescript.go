package adapter

import (
	"strings"

	"codegraph/internal/component"
)

// AdaptReScript registers top-level functions and modules and links call
// edges between them. Nested locals, literals, and JSX are skipped; a module
// component named `make` duplicates the component function and is dropped.
func AdaptReScript(ctx Context, comps []component.Raw) Schema {
	b := NewBuilder()

	// Module components indexed by their declared name, for cross-file
	// component references (a call to `Button` targets Button's make).
	moduleIndex := make(map[string]string)

	keep := func(comp *component.Raw) bool {
		kind := comp.Kind
		if kind != "function" && kind != "module" {
			return false
		}
		if strings.Contains(comp.FilePath, "/node_modules/") {
			return false
		}
		if kind == "module" && comp.Name == "make" {
			return false
		}
		return true
	}

	for i := range comps {
		comp := &comps[i]
		if !keep(comp) {
			continue
		}
		id := rescriptNodeID(comp)
		if !b.AddNode(id, comp.Kind, map[string]any{
			"start":     comp.Start(),
			"end":       comp.End(),
			"code":      comp.Code,
			"file_path": comp.FilePath,
		}) {
			continue
		}
		if comp.Kind == "module" && comp.ModuleName != "" {
			moduleIndex[comp.ModuleName] = id
		}
	}

	for i := range comps {
		comp := &comps[i]
		if !keep(comp) {
			continue
		}
		from := rescriptNodeID(comp)

		for _, call := range comp.FunctionCalls {
			target := strings.TrimSpace(call.Callee())
			if target == "" {
				continue
			}
			// Component reference defined in another file.
			if id, ok := moduleIndex[target]; ok && id != from {
				b.AddEdge(from, id, "calls")
			}
			// Plain function in the current file.
			if id := comp.RelativePath + "::" + target; b.Has(id) {
				b.AddEdge(from, id, "calls")
			}
			// Component defined in the current file.
			if id := comp.RelativePath + "::" + target + "::make"; b.Has(id) {
				b.AddEdge(from, id, "calls")
			}
		}
	}

	return b.Finish()
}

// rescriptNodeID builds `relative_path::module::name`. A component whose
// name repeats its module is the component function and is keyed as `make`.
func rescriptNodeID(comp *component.Raw) string {
	name := comp.Name
	if name == "" {
		name = comp.TagName
	}
	if name == "" {
		name = "<unknown>"
	}
	if comp.ModuleName != "" && comp.ModuleName == name {
		name = "make"
	}
	if comp.ModuleName != "" {
		return comp.RelativePath + "::" + comp.ModuleName + "::" + name
	}
	return comp.RelativePath + "::" + name
}
