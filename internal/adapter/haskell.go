package adapter

import (
	"strings"

	"codegraph/internal/component"
)

// AdaptHaskell resolves Haskell components. Ids are module-qualified
// (`Module.Path::name`); modules re-exporting an aliased import get proxy
// nodes so call sites against the re-exporting module still land on the
// defining module's declarations.
func AdaptHaskell(ctx Context, comps []component.Raw) Schema {
	b := NewBuilder()

	currentModule := ""
	for i := range comps {
		if comps[i].Kind == "module_header" {
			currentModule = comps[i].Name
			break
		}
	}

	moduleOf := func(comp *component.Raw) string {
		if comp.Module != "" {
			return comp.Module
		}
		return currentModule
	}

	// Index of definable components by module-qualified id.
	type indexed struct {
		id   string
		comp *component.Raw
	}
	var defined []indexed
	for i := range comps {
		comp := &comps[i]
		switch comp.Kind {
		case "function", "data_type", "instance":
			defined = append(defined, indexed{joinID(moduleOf(comp), comp.Name), comp})
		}
	}

	// Aliased imports: alias -> actual defining module.
	type reexport struct {
		alias  string
		module string
	}
	var reexports []reexport
	for i := range comps {
		comp := &comps[i]
		if comp.Kind == "import" && comp.Alias != "" {
			reexports = append(reexports, reexport{comp.Alias, comp.Module})
		}
	}

	for i := range comps {
		comp := &comps[i]
		switch comp.Kind {
		case "import", "pragma":
			continue
		case "module_header":
			for _, export := range comp.Exports {
				b.AddNode(joinID(comp.Name, export.Name), "module_export", map[string]any{
					"name":      export.Name,
					"file_path": comp.FilePath,
					"location":  map[string]any{"start": comp.Start(), "end": comp.End()},
				})
			}
			continue
		}

		attrs := map[string]any{
			"name":      comp.Name,
			"file_path": comp.FilePath,
			"location":  map[string]any{"start": comp.Start(), "end": comp.End()},
		}
		if comp.Kind == "function" && comp.TypeSignature != "" {
			attrs["signature"] = comp.TypeSignature
		}
		id := joinID(moduleOf(comp), comp.Name)
		if !b.AddNode(id, comp.Kind, attrs) && b.NodeCategory(id) == "module_export" {
			// The declaration behind an exported name supersedes the
			// header's placeholder.
			b.ReplaceNode(id, comp.Kind, attrs)
		}
	}

	// Proxy nodes for re-exported definitions, linked to the real ones.
	proxiesByModule := make(map[string][]string)
	for _, re := range reexports {
		for _, def := range defined {
			if def.comp.Module != re.module {
				continue
			}
			proxyID := joinID(currentModule, def.comp.Name)
			if b.AddNode(proxyID, "reexport", map[string]any{
				"name":      def.comp.Name,
				"file_path": def.comp.FilePath,
			}) {
				b.AddEdge(proxyID, def.id, "implements")
				proxiesByModule[re.module] = append(proxiesByModule[re.module], proxyID)
			}
		}
	}
	for _, re := range reexports {
		aliasID := joinID(currentModule, re.alias)
		for _, proxyID := range proxiesByModule[re.module] {
			b.AddEdge(aliasID, proxyID, "exports")
		}
	}

	for i := range comps {
		comp := &comps[i]
		switch comp.Kind {
		case "function", "data_type", "instance":
		default:
			continue
		}
		module := moduleOf(comp)
		from := joinID(module, comp.Name)

		if comp.Kind == "function" {
			for _, call := range comp.FunctionCalls {
				target, base := haskellCallTarget(call, module)
				if target == "" {
					continue
				}
				if !b.Has(target) {
					// Unresolved targets may be satisfied by a re-export
					// proxy before falling through to the closure pass.
					if proxy := findProxy(proxiesByModule, base); proxy != "" {
						target = proxy
					}
				}
				b.AddEdge(from, target, "calls")
			}
			for _, dep := range comp.TypeDependencies {
				depModule, depName := splitQualified(dep, module)
				b.AddEdge(from, joinID(depModule, depName), "depends_on")
			}
		}

		if comp.Kind == "data_type" {
			for _, ctor := range comp.Constructors {
				for _, field := range ctor.Fields {
					info := field.TypeInfo
					var fieldModule, fieldName string
					switch {
					case len(info.Modules) > 0:
						fieldModule, fieldName = info.Modules[0], info.Base
					case strings.Contains(info.Name, "."):
						fieldModule, fieldName = splitQualified(info.Name, module)
					default:
						fieldModule, fieldName = module, info.Name
					}
					if fieldName == "" {
						continue
					}
					b.AddEdge(from, joinID(fieldModule, fieldName), "contains")
				}
			}
		}
	}

	return b.Finish()
}

// haskellCallTarget derives the target id and bare callee name for one call
// site: qualified calls carry their module, dotted names are split, and
// unqualified names resolve to the caller's module.
func haskellCallTarget(call component.CallRef, module string) (target, base string) {
	if call.Type == "qualified" && len(call.Modules) > 0 {
		return joinID(call.Modules[0], call.Base), call.Base
	}
	if strings.Contains(call.Name, ".") {
		m, n := splitQualified(call.Name, module)
		return joinID(m, n), n
	}
	if call.Name == "" {
		return "", ""
	}
	return joinID(module, call.Name), call.Name
}

// splitQualified splits `A.B.name` into module and leaf; unqualified names
// fall back to the given module.
func splitQualified(qualified, fallbackModule string) (string, string) {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[:i], qualified[i+1:]
	}
	return fallbackModule, qualified
}

func findProxy(proxiesByModule map[string][]string, base string) string {
	if base == "" {
		return ""
	}
	suffix := "::" + base
	for _, proxies := range proxiesByModule {
		for _, id := range proxies {
			if strings.HasSuffix(id, suffix) {
				return id
			}
		}
	}
	return ""
}
