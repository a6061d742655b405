package graph

import "strings"

// Stats summarizes a built graph: the primary feedback for spotting silently
// degraded runs (a pile of stubs usually means extractor output went missing).
type Stats struct {
	Nodes      int
	Edges      int
	Categories map[string]int
	Relations  map[string]int
	Stubs      int
}

// StubCategories marks the categories synthesized for referenced-but-undeclared ids.
var stubCategories = map[string]bool{
	"external_function":  true,
	"external_type":      true,
	"external_module":    true,
	"external_reference": true,
	"unknown":            true,
}

func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes:      g.NodeCount(),
		Edges:      g.EdgeCount(),
		Categories: make(map[string]int),
		Relations:  make(map[string]int),
	}
	for _, node := range g.nodes {
		category := node.Category
		if category == "" {
			category = "unknown"
		}
		s.Categories[category]++
		if stubCategories[category] {
			s.Stubs++
		}
	}
	for _, targets := range g.succ {
		for _, relation := range targets {
			s.Relations[relation]++
		}
	}
	return s
}

// IsStub reports whether a node's category is one of the synthesized
// placeholder categories.
func IsStub(n *Node) bool {
	return n != nil && stubCategories[n.Category]
}

// LanguageOfNode guesses the language bucket from a node id's path segment,
// for per-language stat breakdowns. Unrecognized ids return "".
func LanguageOfNode(id string) string {
	head := id
	if i := strings.Index(id, "::"); i >= 0 {
		head = id[:i]
	}
	switch {
	case strings.HasSuffix(head, ".go"):
		return "golang"
	case strings.HasSuffix(head, ".py"):
		return "python"
	case strings.HasSuffix(head, ".ts"), strings.HasSuffix(head, ".tsx"):
		return "typescript"
	case strings.HasSuffix(head, ".js"), strings.HasSuffix(head, ".jsx"),
		strings.HasSuffix(head, ".mjs"), strings.HasSuffix(head, ".cjs"):
		return "javascript"
	case strings.HasSuffix(head, ".rs"):
		return "rust"
	case strings.HasSuffix(head, ".res"):
		return "rescript"
	case strings.HasSuffix(head, ".purs"):
		return "purescript"
	case strings.HasSuffix(head, ".hs"):
		return "haskell"
	}
	return ""
}
