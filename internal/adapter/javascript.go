package adapter

import (
	"regexp"
	"strings"

	"codegraph/internal/component"
)

var jsExts = []string{".js", ".mjs", ".cjs", ".jsx"}

// Literal components never become nodes.
var jsLiteralKinds = map[string]bool{
	"number":          true,
	"string":          true,
	"template_string": true,
}

var jsCallableKinds = map[string]bool{
	"function":           true,
	"generator_function": true,
	"method":             true,
	"constructor":        true,
	"arrow_function":     true,
}

// identifierPathRe keeps only `Identifier(.Identifier)*` from a base-class
// expression, dropping generics or call tails.
var identifierPathRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(?:\.[A-Za-z_$][A-Za-z0-9_$]*)*`)

var jsImportSourceRe = regexp.MustCompile(`from\s*['"](.+?)['"]`)

// AdaptJavaScript resolves JavaScript components. Ids are path-qualified
// (`file::name`, members `file::Class::name`); references resolve through the
// per-file import table, the export index (rewriting `default` to the
// declared name when known), and `this`/`super` receivers against the
// enclosing class.
func AdaptJavaScript(ctx Context, comps []component.Raw) Schema {
	b := NewBuilder()

	imports := make(importTable)
	exports := make(exportIndex)
	for i := range comps {
		comp := &comps[i]
		switch comp.Kind {
		case "import":
			module := jsModuleOf(ctx, comp)
			if module != "" && comp.Code != "" {
				parseESImport(imports, module, comp.Code, ".js", jsExts)
			}
		case "export":
			if module := jsModuleOf(ctx, comp); module != "" {
				exports.record(module, comp.Name, comp.Default)
			}
		}
	}

	// Nodes. A real declaration replaces an export wrapper occupying the
	// same id, never the other way around.
	for i := range comps {
		comp := &comps[i]
		id := jsNodeID(ctx, comp)
		if id == "" {
			continue
		}
		kind := comp.Kind
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
		if len(comp.Parameters) > 0 {
			attrs["parameters"] = comp.Parameters
		}
		if kind == "class" && len(comp.Bases) > 0 {
			attrs["bases"] = comp.Bases
		}
		if !b.AddNode(id, kind, attrs) {
			declaration := kind == "function" || kind == "generator_function" ||
				kind == "class" || kind == "method" || kind == "constructor"
			if declaration && b.NodeCategory(id) == "export" {
				b.ReplaceNode(id, kind, attrs)
			}
		}
	}

	// Enclosing callable spans, used to attribute top-level expressions
	// (new X()) to the smallest containing function.
	type span struct {
		start, end int
		id         string
	}
	contexts := make(map[string][]span)
	for i := range comps {
		comp := &comps[i]
		if !jsCallableKinds[comp.Kind] {
			continue
		}
		id := jsNodeID(ctx, comp)
		module := jsModuleOf(ctx, comp)
		if id == "" || module == "" || comp.Start() == 0 {
			continue
		}
		contexts[module] = append(contexts[module], span{comp.Start(), comp.End(), id})
	}
	enclosing := func(module string, line int) string {
		best := ""
		bestSpan := -1
		for _, s := range contexts[module] {
			if s.start <= line && line <= s.end {
				if width := s.end - s.start; best == "" || width < bestSpan {
					best, bestSpan = s.id, width
				}
			}
		}
		return best
	}

	// Class inheritance, resolved across files.
	for i := range comps {
		comp := &comps[i]
		if comp.Kind != "class" || len(comp.Bases) == 0 {
			continue
		}
		from := jsNodeID(ctx, comp)
		module := jsModuleOf(ctx, comp)
		if from == "" || module == "" {
			continue
		}
		for _, base := range comp.Bases {
			sym := identifierPathRe.FindString(strings.TrimSpace(base))
			if sym == "" {
				continue
			}
			to := resolveJSSymbol(module, sym, imports, exports)
			if to != "" && from != to {
				b.AddEdge(from, to, "extends")
			}
		}
	}

	// Base lists by class id, for super-call resolution.
	classBases := make(map[string][]string)
	for i := range comps {
		comp := &comps[i]
		if comp.Kind == "class" && comp.Name != "" {
			classBases[joinID(jsModuleOf(ctx, comp), comp.Name)] = comp.Bases
		}
	}

	// Call edges.
	for i := range comps {
		comp := &comps[i]
		from := jsNodeID(ctx, comp)
		if from == "" {
			continue
		}
		module := jsModuleOf(ctx, comp)
		for _, call := range comp.FunctionCalls {
			to := resolveJSCall(module, comp, call, imports, exports, classBases)
			if to != "" && from != to {
				b.AddEdge(from, to, "calls")
			}
		}
	}

	// Instantiation edges from `new` expressions, attributed to the
	// enclosing callable.
	for i := range comps {
		comp := &comps[i]
		if comp.Kind != "new_expression" {
			continue
		}
		module := jsModuleOf(ctx, comp)
		line := comp.Start()
		if module == "" || line == 0 {
			continue
		}
		caller := enclosing(module, line)
		if caller == "" {
			continue
		}
		ctor := strings.TrimSpace(comp.Constructor)
		if ctor == "" {
			continue
		}

		targetModule, className := module, ctor
		if recv, prop, ok := strings.Cut(ctor, "."); ok {
			if entry, found := imports.lookup(module, recv); found {
				targetModule, className = entry.module, prop
			} else {
				className = prop
			}
		} else if entry, found := imports.lookup(module, ctor); found {
			targetModule = entry.module
			if entry.name == "default" {
				className = exports.defaultNameOf(entry.module)
			} else {
				className = entry.name
			}
		}

		classID := joinID(targetModule, className)
		b.AddEdge(caller, classID, "instantiates")
		ctorID := joinID(targetModule, className, "constructor")
		if b.Has(ctorID) {
			b.AddEdge(caller, ctorID, "calls")
		}
	}

	// File-level dependency edges from import statements.
	for i := range comps {
		comp := &comps[i]
		if comp.Kind != "import" {
			continue
		}
		module := jsModuleOf(ctx, comp)
		if module == "" || comp.Code == "" {
			continue
		}
		m := jsImportSourceRe.FindStringSubmatch(comp.Code)
		if m == nil {
			continue
		}
		src := m[1]
		var target string
		if strings.HasPrefix(src, ".") {
			target = ensureExt(resolveRelative(module, src), ".js", jsExts...)
		} else {
			target = ensureExt("vendor/"+src, ".js", jsExts...)
		}
		if module != target {
			b.AddEdge(module, target, "fdeps")
		}
	}

	// Class -> member containment.
	for i := range comps {
		comp := &comps[i]
		kind := comp.Kind
		if (kind != "method" && kind != "constructor" && kind != "field") || comp.Class == "" {
			continue
		}
		module := jsModuleOf(ctx, comp)
		classID := joinID(module, comp.Class)
		memberID := jsNodeID(ctx, comp)
		if classID != "" && memberID != "" && classID != memberID {
			b.AddEdge(classID, memberID, "defines")
		}
	}

	return b.Finish()
}

func jsModuleOf(ctx Context, comp *component.Raw) string {
	if comp.Module != "" {
		return comp.Module
	}
	if comp.FilePath != "" {
		return comp.FilePath
	}
	return ctx.CurrentFile
}

func jsNodeID(ctx Context, comp *component.Raw) string {
	kind := comp.Kind
	if jsLiteralKinds[kind] {
		return ""
	}
	module := comp.FilePath
	if module == "" {
		module = comp.Module
	}
	if module == "" {
		module = ctx.CurrentFile
	}
	if (kind == "method" || kind == "constructor" || kind == "field") &&
		comp.Class != "" && comp.Name != "" {
		return joinID(module, comp.Class, comp.Name)
	}
	if comp.Name != "" {
		return joinID(module, comp.Name)
	}
	if comp.ID != "" {
		return comp.ID
	}
	if kind != "" {
		return joinID(module, kind)
	}
	return ""
}

// resolveJSSymbol maps a local symbol (`Greeter` or `NS.Greeter`) to a
// fully-qualified id through the import table, falling back to the current
// module.
func resolveJSSymbol(module, sym string, imports importTable, exports exportIndex) string {
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
	if strings.HasPrefix(sym, "./") || strings.HasPrefix(sym, "../") {
		target := ensureExt(resolveRelative(module, sym), ".js", jsExts...)
		base := sym[strings.LastIndex(sym, "/")+1:]
		return joinID(target, base)
	}
	return joinID(module, sym)
}

// resolveJSCall picks a call-edge target from a call-site descriptor,
// checking namespace receivers, `this`/`super` receivers, imported bare
// identifiers, relative extractor hints, and finally any absolute hint.
func resolveJSCall(module string, comp *component.Raw, call component.CallRef, imports importTable, exports exportIndex, classBases map[string][]string) string {
	recv := call.Receiver
	prop := call.Property
	fn := call.Function
	hint := call.ResolvedHint
	if hint == "" {
		hint = call.ResolvedCallee
	}

	// Namespace receiver: NS.foo().
	if recv != "" {
		if entry, found := imports.lookup(module, recv); found {
			if entry.name == "*" {
				if prop == "" {
					return ""
				}
				return joinID(entry.module, prop)
			}
			name := prop
			if name == "" {
				name = entry.name
			}
			return joinID(entry.module, name)
		}
		// this.m() resolves against the enclosing class; super.m() against
		// the first declared base, an intentional approximation.
		if recv == "this" && comp.Class != "" && prop != "" {
			return joinID(module, comp.Class, prop)
		}
		if recv == "super" && prop != "" && comp.Class != "" {
			// First declared base only; the full inheritance list is not
			// searched.
			if bases := classBases[joinID(module, comp.Class)]; len(bases) > 0 {
				base := identifierPathRe.FindString(strings.TrimSpace(bases[0]))
				if base != "" {
					return resolveJSSymbol(module, base, imports, exports) + "::" + prop
				}
			}
		}
	}

	// Bare imported identifier: greetUser().
	if fn != "" {
		if entry, found := imports.lookup(module, fn); found {
			if entry.name == "default" {
				return joinID(entry.module, exports.defaultNameOf(entry.module))
			}
			return joinID(entry.module, entry.name)
		}
	}

	// Relative hint "./x::sym" from the extractor.
	if strings.HasPrefix(hint, "./") || strings.HasPrefix(hint, "../") {
		if relFile, sym, ok := strings.Cut(hint, "::"); ok {
			return joinID(ensureExt(resolveRelative(module, relFile), ".js", jsExts...), sym)
		}
		return ensureExt(resolveRelative(module, hint), ".js", jsExts...)
	}

	if hint != "" {
		return hint
	}
	if fn != "" {
		return joinID(module, fn)
	}
	return ""
}
