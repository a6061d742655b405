package adapter

import (
	"regexp"
	"strings"

	"codegraph/internal/component"
)

var (
	pursImportListRe = regexp.MustCompile(`import\s+[\w.]+\s*\((.+)\)`)
	pursCtorListRe   = regexp.MustCompile(`^([A-Za-z][\w]*)\s*\(\s*([^)]*)\s*\)$`)
)

// AdaptPureScript resolves PureScript components. Ids are module-qualified
// with the source extension retained (`Module.Name.purs::symbol`).
func AdaptPureScript(ctx Context, comps []component.Raw) Schema {
	b := NewBuilder()

	// Per-file import tables: the declaring module plus alias -> target
	// module for every name the file imports.
	byFile := make(map[string]*pursFileImports)
	var fileOrder []string
	for i := range comps {
		comp := &comps[i]
		fp := comp.FilePath
		if fp == "" {
			continue
		}
		fi := byFile[fp]
		if fi == nil {
			fi = &pursFileImports{aliases: make(map[string]string)}
			byFile[fp] = fi
			fileOrder = append(fileOrder, fp)
		}
		if comp.Kind == "import" {
			target := comp.Module
			if m := pursImportListRe.FindStringSubmatch(comp.Code); m != nil {
				for _, tok := range pursSplitImports(m[1]) {
					if tok == "" {
						continue
					}
					if rest, ok := strings.CutPrefix(tok, "class "); ok {
						tok = strings.TrimSpace(rest)
					}
					if m2 := pursCtorListRe.FindStringSubmatch(tok); m2 != nil {
						// `Maybe(Just, Nothing)` imports the type and its
						// constructors; `Maybe(..)` only the type.
						fi.add(m2[1], target)
						for _, ctor := range strings.Split(m2[2], ",") {
							ctor = strings.TrimSpace(ctor)
							if ctor == ".." {
								continue
							}
							fi.add(ctor, target)
						}
						continue
					}
					fi.add(tok, target)
				}
			}
			if comp.Imports != nil {
				for name, tgt := range comp.Imports.Aliases {
					fi.add(name, tgt)
				}
			}
		} else if fi.module == "" && comp.Module != "" {
			fi.module = comp.Module
		}
	}

	for i := range comps {
		comp := &comps[i]
		kind := comp.Kind
		if kind == "import" {
			continue
		}
		id := pursNodeID(comp)
		if id == "" {
			continue
		}
		attrs := map[string]any{
			"module": comp.Module,
			"location": map[string]any{
				"start": comp.Start(),
				"end":   comp.End(),
				"file":  comp.FilePath,
			},
		}
		if comp.TypeSignature != "" {
			attrs["signature"] = comp.TypeSignature
		}
		if len(comp.Parameters) > 0 {
			attrs["parameters"] = comp.Parameters
		}
		if kind == "type_alias" && len(comp.TypeDependencies) > 0 {
			attrs["type_dependencies"] = comp.TypeDependencies
		}
		if (kind == "data_declaration" || kind == "newtype") && len(comp.Constructors) > 0 {
			attrs["constructors"] = comp.Constructors
		}
		if (kind == "instance" || kind == "class_instance") && comp.InstanceName != "" {
			attrs["implements"] = comp.InstanceName
		}
		b.AddNode(id, kind, attrs)
	}

	// Module- and symbol-level import edges.
	for _, fp := range fileOrder {
		fi := byFile[fp]
		if fi.module == "" {
			continue
		}
		for _, target := range fi.targets {
			if fi.module != target {
				b.AddEdge(fi.module, target, "imports")
			}
		}
		for _, alias := range fi.order {
			fromSym := fi.module + ".purs::" + alias
			toSym := fi.aliases[alias] + ".purs::" + alias
			if fromSym != toSym {
				b.AddEdge(fromSym, toSym, "imports")
			}
		}
	}

	for i := range comps {
		comp := &comps[i]
		if comp.Kind == "import" {
			continue
		}
		from := pursNodeID(comp)
		if from == "" {
			continue
		}
		for _, call := range comp.FunctionCalls {
			if tgt := call.ResolvedCallee; tgt != "" && tgt != from {
				b.AddEdge(from, tgt, "calls")
			}
		}
		for _, dep := range comp.TypeDependencies {
			tgt := comp.Module + ".purs::" + dep
			if tgt != from {
				b.AddEdge(from, tgt, "type_dependency")
			}
		}
		switch comp.Kind {
		case "class":
			for _, base := range comp.Bases {
				b.AddEdge(from, comp.Module+".purs::"+base, "extends")
			}
			for _, methodID := range comp.HasMethods {
				b.AddEdge(from, methodID, "has_method")
			}
		case "class_instance":
			if comp.InstanceName != "" {
				b.AddEdge(from, comp.Module+".purs::"+comp.InstanceName, "implements")
			}
		}
		if (comp.Operator == "typeof" || comp.Operator == "keyof") && comp.ID != "" {
			for _, dep := range comp.Deps {
				tgt := dep
				if !strings.Contains(dep, "::") {
					tgt = comp.Module + ".purs::" + dep
				}
				if tgt != comp.ID {
					b.AddEdge(comp.ID, tgt, "fdeps")
				}
			}
		}
	}

	return b.Finish()
}

type pursFileImports struct {
	module  string
	aliases map[string]string
	order   []string
	targets []string
}

func (fi *pursFileImports) add(name, target string) {
	if name == "" || target == "" {
		return
	}
	if _, seen := fi.aliases[name]; !seen {
		fi.order = append(fi.order, name)
	}
	fi.aliases[name] = target
	for _, t := range fi.targets {
		if t == target {
			return
		}
	}
	fi.targets = append(fi.targets, target)
}

// pursSplitImports splits an import list on top-level commas, keeping
// constructor lists intact.
func pursSplitImports(list string) []string {
	var items []string
	depth, start := 0, 0
	for i, r := range list {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	return append(items, strings.TrimSpace(list[start:]))
}

func pursNodeID(comp *component.Raw) string {
	base := comp.Module
	if base == "" {
		base = strings.TrimSuffix(comp.FilePath, ".purs")
	}
	if comp.Name != "" {
		return base + ".purs::" + comp.Name
	}
	return comp.ID
}
