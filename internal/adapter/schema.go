package adapter

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Categories synthesized by the closure pass for referenced-but-undeclared
// ids. Real declarations keep the extractor's kind as their category.
const (
	CategoryExternalFunction  = "external_function"
	CategoryExternalType      = "external_type"
	CategoryExternalModule    = "external_module"
	CategoryExternalReference = "external_reference"
	CategoryUnknown           = "unknown"
)

// Node is one graph vertex in the unified schema. Attrs carries
// language-specific metadata opaquely; it is flattened to primitives when the
// graph is built, not here.
type Node struct {
	ID       string
	Category string
	Attrs    map[string]any
}

// MarshalJSON flattens Attrs next to id and category, matching the unified
// schema's wire shape.
func (n Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Attrs)+2)
	for k, v := range n.Attrs {
		out[k] = v
	}
	out["id"] = n.ID
	out["category"] = n.Category
	return json.Marshal(out)
}

// Edge is a directed, typed connection between two node ids. Duplicate edges
// are permitted: each call site contributes its own entry.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// Schema is the `{nodes, edges}` shape every per-language adapter emits.
type Schema struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Combine concatenates two schemas. No cross-schema deduplication or
// id-collision detection happens here; colliding ids merge silently when the
// graph is built.
func Combine(a, b Schema) Schema {
	return Schema{
		Nodes: append(append([]Node{}, a.Nodes...), b.Nodes...),
		Edges: append(append([]Edge{}, a.Edges...), b.Edges...),
	}
}

// Close synthesizes a placeholder node for every edge endpoint that has no
// corresponding node, so the schema is well-formed. It must run after all
// real nodes are in place, and it is idempotent: endpoints are deduplicated
// by id before insertion.
func (s *Schema) Close() {
	seen := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		seen[n.ID] = true
	}
	for _, e := range s.Edges {
		for _, endpoint := range [2]string{e.From, e.To} {
			if endpoint == "" || seen[endpoint] {
				continue
			}
			s.Nodes = append(s.Nodes, placeholderNode(endpoint, e.Relation))
			seen[endpoint] = true
		}
	}
}

// placeholderNode builds a stub for a dangling endpoint. The category is a
// cheap heuristic on the id's shape and the referencing edge's relation.
func placeholderNode(id, relation string) Node {
	leaf := id
	if i := strings.LastIndex(id, "::"); i >= 0 {
		leaf = id[i+2:]
	}
	category := CategoryExternalReference
	switch relation {
	case "imports", "fdeps":
		category = CategoryExternalModule
	case "uses_type", "type_dependency", "field_type", "interface_dep",
		"var_type", "type_alias", "depends_on", "contains":
		category = CategoryExternalType
	case "calls", "has_method", "instantiates":
		category = CategoryExternalFunction
	}
	if leaf != "" && unicode.IsUpper([]rune(leaf)[0]) {
		category = CategoryExternalType
	}
	attrs := map[string]any{}
	if leaf != "" && leaf != id {
		attrs["name"] = leaf
	}
	return Node{ID: id, Category: category, Attrs: attrs}
}

// Builder accumulates one adapter's output. Node ids are deduplicated on
// insertion; edges are appended as-is (multiset semantics).
type Builder struct {
	schema Schema
	seen   map[string]bool
}

func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]bool)}
}

func (b *Builder) Has(id string) bool {
	return b.seen[id]
}

// AddNode inserts a node unless the id is already taken. Returns whether the
// node was inserted.
func (b *Builder) AddNode(id, category string, attrs map[string]any) bool {
	if id == "" || b.seen[id] {
		return false
	}
	b.seen[id] = true
	b.schema.Nodes = append(b.schema.Nodes, Node{ID: id, Category: category, Attrs: attrs})
	return true
}

// ReplaceNode swaps an existing node for a new one with the same id.
func (b *Builder) ReplaceNode(id, category string, attrs map[string]any) {
	for i := range b.schema.Nodes {
		if b.schema.Nodes[i].ID == id {
			b.schema.Nodes[i] = Node{ID: id, Category: category, Attrs: attrs}
			return
		}
	}
}

// NodeCategory returns the category recorded for id, or "".
func (b *Builder) NodeCategory(id string) string {
	for i := range b.schema.Nodes {
		if b.schema.Nodes[i].ID == id {
			return b.schema.Nodes[i].Category
		}
	}
	return ""
}

// AddEdge appends an edge. Edges with an empty endpoint are dropped: a
// malformed reference degrades to "no edge", never to an abort.
func (b *Builder) AddEdge(from, to, relation string) {
	if from == "" || to == "" {
		return
	}
	b.schema.Edges = append(b.schema.Edges, Edge{From: from, To: to, Relation: relation})
}

// Finish runs the closure pass and returns the completed schema.
func (b *Builder) Finish() Schema {
	b.schema.Close()
	return b.schema
}
