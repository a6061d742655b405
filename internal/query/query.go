// Package query implements the read-side helpers over a built graph:
// neighbor listing, shortest paths, and bounded traversal. All functions
// treat the graph as immutable.
package query

import (
	"fmt"
	"sort"

	"codegraph/internal/graph"
)

// Direction selects which edges a traversal follows.
type Direction string

const (
	DirOut  Direction = "out"
	DirIn   Direction = "in"
	DirBoth Direction = "both"
)

// Neighbor is one adjacent node together with the edge's relation label.
type Neighbor struct {
	ID       string `json:"id"`
	Relation string `json:"relation"`
}

// Neighborhood is the full adjacency of one node.
type Neighborhood struct {
	ID  string     `json:"id"`
	Out []Neighbor `json:"out"`
	In  []Neighbor `json:"in"`
}

// Neighbors lists a node's outgoing and incoming edges with relations,
// each sorted by neighbor id.
func Neighbors(g *graph.Graph, id string) (*Neighborhood, error) {
	if !g.HasNode(id) {
		return nil, fmt.Errorf("node %q not in graph", id)
	}
	n := &Neighborhood{ID: id}
	for _, to := range g.Successors(id) {
		rel, _ := g.Relation(id, to)
		n.Out = append(n.Out, Neighbor{ID: to, Relation: rel})
	}
	for _, from := range g.Predecessors(id) {
		rel, _ := g.Relation(from, id)
		n.In = append(n.In, Neighbor{ID: from, Relation: rel})
	}
	return n, nil
}

// ShortestPath returns one shortest directed path from `from` to `to` as a
// node id sequence, inclusive of both endpoints. A nil path with a nil error
// means the target is unreachable.
func ShortestPath(g *graph.Graph, from, to string) ([]string, error) {
	if !g.HasNode(from) {
		return nil, fmt.Errorf("node %q not in graph", from)
	}
	if !g.HasNode(to) {
		return nil, fmt.Errorf("node %q not in graph", to)
	}
	if from == to {
		return []string{from}, nil
	}

	parent := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.Successors(cur) {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			if next == to {
				return assemblePath(parent, from, to), nil
			}
			queue = append(queue, next)
		}
	}
	return nil, nil
}

func assemblePath(parent map[string]string, from, to string) []string {
	var rev []string
	for cur := to; cur != ""; cur = parent[cur] {
		rev = append(rev, cur)
		if cur == from {
			break
		}
	}
	path := make([]string, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

// Visit is one node reached by a bounded traversal, with its hop distance
// from the start.
type Visit struct {
	ID    string `json:"id"`
	Depth int    `json:"depth"`
}

// Traverse walks up to maxDepth hops from start in the given direction and
// returns every reached node (start excluded), sorted by depth then id.
func Traverse(g *graph.Graph, start string, maxDepth int, dir Direction) ([]Visit, error) {
	if !g.HasNode(start) {
		return nil, fmt.Errorf("node %q not in graph", start)
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	type item struct {
		id    string
		depth int
	}
	depths := map[string]int{start: 0}
	queue := []item{{start, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, next := range adjacent(g, cur.id, dir) {
			if _, seen := depths[next]; seen {
				continue
			}
			depths[next] = cur.depth + 1
			queue = append(queue, item{next, cur.depth + 1})
		}
	}

	visits := make([]Visit, 0, len(depths)-1)
	for id, depth := range depths {
		if id == start {
			continue
		}
		visits = append(visits, Visit{ID: id, Depth: depth})
	}
	sort.Slice(visits, func(i, j int) bool {
		if visits[i].Depth != visits[j].Depth {
			return visits[i].Depth < visits[j].Depth
		}
		return visits[i].ID < visits[j].ID
	})
	return visits, nil
}

// Subgraph extracts the induced subgraph reachable from start within
// maxDepth hops: the visited nodes plus every edge between them.
func Subgraph(g *graph.Graph, start string, maxDepth int, dir Direction) (*graph.Graph, error) {
	visits, err := Traverse(g, start, maxDepth, dir)
	if err != nil {
		return nil, err
	}
	keep := map[string]bool{start: true}
	for _, v := range visits {
		keep[v.ID] = true
	}

	sub := graph.NewGraph()
	for id := range keep {
		node := g.Node(id)
		sub.AddNode(node.ID, node.Category, node.Attrs)
	}
	for id := range keep {
		for _, to := range g.Successors(id) {
			if !keep[to] {
				continue
			}
			rel, _ := g.Relation(id, to)
			sub.SetEdge(id, to, rel)
		}
	}
	return sub, nil
}

func adjacent(g *graph.Graph, id string, dir Direction) []string {
	switch dir {
	case DirIn:
		return g.Predecessors(id)
	case DirBoth:
		merged := append(g.Successors(id), g.Predecessors(id)...)
		sort.Strings(merged)
		return merged
	default:
		return g.Successors(id)
	}
}
