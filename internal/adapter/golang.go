package adapter

import (
	"fmt"
	"strings"

	"codegraph/internal/component"
)

// AdaptGo resolves Go components. Node ids are path-qualified:
// `relative_file_path::name`, preferring an extractor-supplied
// complete_function_path hint when present.
func AdaptGo(ctx Context, comps []component.Raw) Schema {
	b := NewBuilder()

	// Call targets indexed by (name, file) for same-file resolution and by
	// bare name for the cross-file fallback. Built fully before any edge is
	// resolved.
	type nameFile struct{ name, file string }
	funcLookup := make(map[nameFile][]string)
	var byName []nameFile // preserves insertion order for deterministic fallback

	for i := range comps {
		comp := &comps[i]
		kind := comp.EffectiveKind()
		if kind == "file" || kind == "" {
			continue
		}
		id := goNodeID(comp)
		if id == "" {
			continue
		}
		if !b.AddNode(id, kind, map[string]any{
			"file_path": comp.FilePath,
			"signature": goSignature(comp),
			"location":  map[string]any{"start": comp.Start(), "end": comp.End()},
		}) {
			continue
		}
		if kind == "function" || kind == "method" {
			key := nameFile{comp.Name, comp.FilePath}
			funcLookup[key] = append(funcLookup[key], id)
			byName = append(byName, key)
		}
	}

	resolveByName := func(name, file string) []string {
		if ids, ok := funcLookup[nameFile{name, file}]; ok {
			return ids
		}
		if ids, ok := funcLookup[nameFile{name, ""}]; ok {
			return ids
		}
		var ids []string
		for _, key := range byName {
			if key.name == name {
				ids = append(ids, funcLookup[key]...)
			}
		}
		return ids
	}

	for i := range comps {
		comp := &comps[i]
		kind := comp.EffectiveKind()
		if kind == "file" || kind == "" {
			continue
		}
		from := goNodeID(comp)
		if from == "" {
			continue
		}

		switch kind {
		case "function", "method":
			for _, call := range comp.FunctionCalls {
				callee := call.Callee()
				if callee == "" {
					continue
				}
				targets := resolveByName(callee, comp.FilePath)
				if len(targets) == 0 {
					// Unresolved call: keep the edge, the closure pass
					// supplies a stub endpoint.
					b.AddEdge(from, callee, "calls")
					continue
				}
				for _, to := range targets {
					b.AddEdge(from, to, "calls")
				}
			}
			for _, dep := range comp.TypeDependencies {
				b.AddEdge(from, dep, "uses_type")
			}
			if kind == "method" && comp.ReceiverType != "" {
				b.AddEdge(comp.ReceiverType, from, "has_method")
			}
		case "struct":
			for _, fieldType := range comp.FieldTypes {
				b.AddEdge(from, fieldType, "field_type")
			}
			for _, m := range comp.Methods {
				for _, to := range resolveByName(m, comp.FilePath) {
					b.AddEdge(from, to, "has_method")
				}
			}
		case "interface":
			for _, dep := range comp.TypeDependencies {
				b.AddEdge(from, dep, "interface_dep")
			}
		case "type_alias":
			if comp.AliasedType != "" {
				b.AddEdge(from, comp.AliasedType, "type_alias")
			}
		case "constant", "variable":
			// For Go records the extractor's "type" key is the value's Go
			// type, not a kind tag.
			if comp.TypeTag != "" {
				b.AddEdge(from, comp.TypeTag, "var_type")
			}
		}
	}

	return b.Finish()
}

func goNodeID(comp *component.Raw) string {
	if comp.CompleteFunctionPath != "" {
		return comp.CompleteFunctionPath
	}
	if comp.Name == "" {
		return ""
	}
	if comp.FilePath == "" {
		return comp.Name
	}
	return comp.FilePath + "::" + comp.Name
}

func goSignature(comp *component.Raw) string {
	name := comp.Name
	switch comp.EffectiveKind() {
	case "function", "method":
		params := make([]string, 0, len(comp.Parameters))
		for _, p := range comp.Parameters {
			if t, ok := comp.ParameterTypes[p.Name]; ok {
				params = append(params, p.Name+" "+t)
			} else {
				params = append(params, p.Name)
			}
		}
		sig := fmt.Sprintf("func %s(%s)", name, strings.Join(params, ", "))
		if comp.ReturnType != "" {
			sig += " " + comp.ReturnType
		}
		if comp.EffectiveKind() == "method" && comp.ReceiverType != "" {
			sig = fmt.Sprintf("func (%s) ", comp.ReceiverType) + sig
		}
		return sig
	case "struct":
		return "struct " + name
	case "interface":
		return "interface " + name
	case "type_alias":
		return fmt.Sprintf("type %s = %s", name, comp.AliasedType)
	case "constant":
		return strings.TrimSpace(fmt.Sprintf("const %s %s = %s", name, comp.TypeTag, comp.ValueString()))
	case "variable":
		return strings.TrimSpace(fmt.Sprintf("var %s %s = %s", name, comp.TypeTag, comp.ValueString()))
	}
	if name != "" {
		return name
	}
	return "unknown"
}
