package extractor

import (
	"encoding/json"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"codegraph/internal/component"
)

// Go builtins never become call edges.
var goBuiltins = map[string]bool{
	"append": true, "cap": true, "clear": true, "close": true, "complex": true,
	"copy": true, "delete": true, "imag": true, "len": true, "make": true,
	"max": true, "min": true, "new": true, "panic": true, "print": true,
	"println": true, "real": true, "recover": true,
}

func buildFunction(node *sitter.Node, source []byte, relPath string, isMethod bool) *component.Raw {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	kind := "function"
	receiver := ""
	var receiverNode *sitter.Node
	if isMethod {
		kind = "method"
		receiverNode = node.ChildByFieldName("receiver")
		receiver = receiverBaseType(receiverNode, source)
	}

	comp := &component.Raw{
		Kind:         kind,
		Name:         nameNode.Content(source),
		FilePath:     relPath,
		StartLine:    int(node.StartPoint().Row + 1),
		EndLine:      int(node.EndPoint().Row + 1),
		Code:         node.Content(source),
		ReceiverType: receiver,
	}

	if paramsNode := node.ChildByFieldName("parameters"); paramsNode != nil {
		names, types := extractParams(paramsNode, source)
		for _, n := range names {
			comp.Parameters = append(comp.Parameters, component.Param{Name: n})
		}
		comp.ParameterTypes = types
	}
	if resultNode := node.ChildByFieldName("result"); resultNode != nil {
		comp.ReturnType = resultNode.Content(source)
	}

	if bodyNode := node.ChildByFieldName("body"); bodyNode != nil {
		for _, callee := range collectCalls(bodyNode, source) {
			comp.FunctionCalls = append(comp.FunctionCalls, component.CallRef{Name: callee})
		}
	}
	comp.TypeDependencies = collectTypeIdents(node, source, nameNode, receiverNode)
	return comp
}

func buildType(node *sitter.Node, source []byte, relPath string) *component.Raw {
	nameNode := node.ChildByFieldName("name")
	typeNode := node.ChildByFieldName("type")
	if nameNode == nil || typeNode == nil {
		return nil
	}

	// Span and source text come from the enclosing declaration when the type
	// spec sits inside a grouped `type (...)` block.
	spanNode := node
	if parent := node.Parent(); parent != nil && parent.Type() == "type_declaration" {
		spanNode = parent
	}

	comp := &component.Raw{
		Name:      nameNode.Content(source),
		FilePath:  relPath,
		StartLine: int(spanNode.StartPoint().Row + 1),
		EndLine:   int(spanNode.EndPoint().Row + 1),
		Code:      spanNode.Content(source),
	}

	switch typeNode.Type() {
	case "struct_type":
		comp.Kind = "struct"
		comp.FieldTypes = structFieldTypes(typeNode, source)
	case "interface_type":
		comp.Kind = "interface"
		comp.TypeDependencies = collectTypeIdents(typeNode, source, nil, nil)
	default:
		comp.Kind = "type_alias"
		comp.AliasedType = typeNode.Content(source)
	}
	return comp
}

func buildValue(node *sitter.Node, source []byte, relPath, kind string) *component.Raw {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	comp := &component.Raw{
		Kind:      kind,
		Name:      nameNode.Content(source),
		FilePath:  relPath,
		StartLine: int(node.StartPoint().Row + 1),
		EndLine:   int(node.EndPoint().Row + 1),
		Code:      node.Content(source),
	}
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		comp.TypeTag = typeNode.Content(source)
	}
	if valueNode := node.ChildByFieldName("value"); valueNode != nil {
		if data, err := json.Marshal(valueNode.Content(source)); err == nil {
			comp.Value = data
		}
	}
	return comp
}

// collectCalls gathers call-expression callees inside a function body:
// `foo(...)` yields "foo", `pkg.Fn(...)` and `recv.Method(...)` yield the
// selector text. Builtins are dropped.
func collectCalls(body *sitter.Node, source []byte) []string {
	var calls []string
	seen := make(map[string]bool)
	walk(body, func(n *sitter.Node) {
		if n.Type() != "call_expression" {
			return
		}
		fn := n.ChildByFieldName("function")
		if fn == nil {
			return
		}
		var callee string
		switch fn.Type() {
		case "identifier", "selector_expression":
			callee = fn.Content(source)
		case "parenthesized_expression", "generic_function":
			// Strip the wrapper: (&T{}).M() and F[T]() still name a callee.
			callee = strings.TrimSpace(fn.Content(source))
		}
		if callee == "" || goBuiltins[callee] || seen[callee] {
			return
		}
		seen[callee] = true
		calls = append(calls, callee)
	})
	return calls
}

// Predeclared types are not dependencies.
var goPredeclared = map[string]bool{
	"bool": true, "byte": true, "complex64": true, "complex128": true,
	"error": true, "float32": true, "float64": true, "int": true,
	"int8": true, "int16": true, "int32": true, "int64": true, "rune": true,
	"string": true, "uint": true, "uint8": true, "uint16": true,
	"uint32": true, "uint64": true, "uintptr": true, "any": true,
}

// collectTypeIdents gathers distinct type identifiers under a declaration,
// excluding the declaration's own name, its receiver clause, and the
// predeclared types.
func collectTypeIdents(node *sitter.Node, source []byte, exclude, excludeSubtree *sitter.Node) []string {
	var deps []string
	seen := make(map[string]bool)
	walk(node, func(n *sitter.Node) {
		if n.Type() != "type_identifier" {
			return
		}
		if exclude != nil && n.StartByte() == exclude.StartByte() && n.EndByte() == exclude.EndByte() {
			return
		}
		if excludeSubtree != nil &&
			n.StartByte() >= excludeSubtree.StartByte() && n.EndByte() <= excludeSubtree.EndByte() {
			return
		}
		name := n.Content(source)
		// Qualified types read better with their package: lift the selector.
		if p := n.Parent(); p != nil && p.Type() == "qualified_type" {
			name = p.Content(source)
		}
		if name == "" || seen[name] || goPredeclared[name] {
			return
		}
		seen[name] = true
		deps = append(deps, name)
	})
	return deps
}

func structFieldTypes(structNode *sitter.Node, source []byte) []string {
	var types []string
	seen := make(map[string]bool)
	walk(structNode, func(n *sitter.Node) {
		if n.Type() != "field_declaration" {
			return
		}
		var text string
		if typeNode := n.ChildByFieldName("type"); typeNode != nil {
			text = typeNode.Content(source)
		} else {
			// Embedded field: the whole declaration is the type.
			text = n.Content(source)
		}
		text = normalizeTypeName(text)
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		types = append(types, text)
	})
	return types
}

// receiverBaseType extracts the bare named type from a receiver clause:
// `(u *User)` and `(u User[T])` both yield "User".
func receiverBaseType(receiver *sitter.Node, source []byte) string {
	if receiver == nil {
		return ""
	}
	base := ""
	walk(receiver, func(n *sitter.Node) {
		if base == "" && n.Type() == "type_identifier" {
			base = n.Content(source)
		}
	})
	return base
}

func normalizeTypeName(t string) string {
	t = strings.TrimSpace(t)
	for {
		switch {
		case strings.HasPrefix(t, "*"):
			t = t[1:]
		case strings.HasPrefix(t, "[]"):
			t = t[2:]
		default:
			return t
		}
	}
}

func walk(node *sitter.Node, visit func(*sitter.Node)) {
	cursor := sitter.NewTreeCursor(node)
	defer cursor.Close()
	var rec func()
	rec = func() {
		visit(cursor.CurrentNode())
		if cursor.GoToFirstChild() {
			rec()
			for cursor.GoToNextSibling() {
				rec()
			}
			cursor.GoToParent()
		}
	}
	rec()
}

func extractParams(paramsNode *sitter.Node, source []byte) ([]string, map[string]string) {
	var names []string
	types := make(map[string]string)
	walk(paramsNode, func(n *sitter.Node) {
		if n.Type() != "parameter_declaration" && n.Type() != "variadic_parameter_declaration" {
			return
		}
		pType := ""
		if tn := n.ChildByFieldName("type"); tn != nil {
			pType = tn.Content(source)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "identifier" {
				name := child.Content(source)
				names = append(names, name)
				types[name] = pType
			}
		}
	})
	return names, types
}
