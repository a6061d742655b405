// Package graph holds the combined dependency graph: a directed graph keyed
// by node id, built from adapter schemas with attributes flattened to
// primitives. Persistence is GraphML for inspection and a gob snapshot for
// fast reload.
package graph

import (
	"encoding/json"
	"fmt"
	"sort"

	"codegraph/internal/adapter"
)

// Node is one vertex. Attrs values are always primitives after flattening:
// string, bool, int, or float64.
type Node struct {
	ID       string
	Category string
	Attrs    map[string]any
}

// Edge is one directed, typed connection.
type Edge struct {
	From     string
	To       string
	Relation string
}

// Graph is a directed graph with at most one edge per (from, to) pair.
// Re-inserting a pair overwrites its relation: last write wins, matching the
// combiner's silent-merge semantics.
type Graph struct {
	nodes map[string]*Node
	succ  map[string]map[string]string
	pred  map[string]map[string]bool
	edges int
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		succ:  make(map[string]map[string]string),
		pred:  make(map[string]map[string]bool),
	}
}

// FromSchema builds a graph from a (closed) combined schema.
func FromSchema(s adapter.Schema) *Graph {
	g := NewGraph()
	for _, n := range s.Nodes {
		g.AddNode(n.ID, n.Category, n.Attrs)
	}
	for _, e := range s.Edges {
		g.SetEdge(e.From, e.To, e.Relation)
	}
	return g
}

// AddNode inserts or updates a node. On an id collision the categories and
// attributes merge, newest value per key winning.
func (g *Graph) AddNode(id, category string, attrs map[string]any) {
	if id == "" {
		return
	}
	node := g.nodes[id]
	if node == nil {
		node = &Node{ID: id, Attrs: make(map[string]any)}
		g.nodes[id] = node
	}
	if category != "" {
		node.Category = category
	}
	for k, v := range attrs {
		node.Attrs[k] = flattenValue(v)
	}
}

// SetEdge records a directed edge, creating missing endpoints as bare nodes.
func (g *Graph) SetEdge(from, to, relation string) {
	if from == "" || to == "" {
		return
	}
	if g.nodes[from] == nil {
		g.AddNode(from, "", nil)
	}
	if g.nodes[to] == nil {
		g.AddNode(to, "", nil)
	}
	if g.succ[from] == nil {
		g.succ[from] = make(map[string]string)
	}
	if _, exists := g.succ[from][to]; !exists {
		g.edges++
	}
	g.succ[from][to] = relation
	if g.pred[to] == nil {
		g.pred[to] = make(map[string]bool)
	}
	g.pred[to][from] = true
}

func (g *Graph) HasNode(id string) bool {
	return g.nodes[id] != nil
}

// Node returns the vertex for id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return g.edges }

// NodeIDs returns every node id, sorted.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edges returns every edge, sorted by (from, to).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for from, targets := range g.succ {
		for to, relation := range targets {
			out = append(out, Edge{From: from, To: to, Relation: relation})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Successors returns the ids this node points at, sorted.
func (g *Graph) Successors(id string) []string {
	return sortedKeys(g.succ[id])
}

// Predecessors returns the ids pointing at this node, sorted.
func (g *Graph) Predecessors(id string) []string {
	out := make([]string, 0, len(g.pred[id]))
	for from := range g.pred[id] {
		out = append(out, from)
	}
	sort.Strings(out)
	return out
}

// Relation returns the label on the (from, to) edge.
func (g *Graph) Relation(from, to string) (string, bool) {
	rel, ok := g.succ[from][to]
	return rel, ok
}

// Roots lists nodes with no incoming edges, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.nodes {
		if len(g.pred[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// DescendantCount returns how many distinct nodes are reachable from id,
// excluding id itself.
func (g *Graph) DescendantCount(id string) int {
	if g.nodes[id] == nil {
		return 0
	}
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for to := range g.succ[cur] {
			if !seen[to] {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	return len(seen) - 1
}

// PruneWithoutAttr removes nodes missing (or with an empty) attribute, along
// with their incident edges, and reports how many were dropped.
func (g *Graph) PruneWithoutAttr(key string) int {
	var doomed []string
	for id, node := range g.nodes {
		v, ok := node.Attrs[key]
		if !ok || v == "" || v == nil {
			doomed = append(doomed, id)
		}
	}
	for _, id := range doomed {
		g.removeNode(id)
	}
	return len(doomed)
}

func (g *Graph) removeNode(id string) {
	for to := range g.succ[id] {
		delete(g.pred[to], id)
		g.edges--
	}
	delete(g.succ, id)
	for from := range g.pred[id] {
		if _, ok := g.succ[from][id]; ok {
			delete(g.succ[from], id)
			g.edges--
		}
	}
	delete(g.pred, id)
	delete(g.nodes, id)
}

// flattenValue reduces any attribute value to a primitive: nil becomes "",
// primitives pass through, everything else is rendered as its JSON text.
func flattenValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return x
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return x
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(data)
	}
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
