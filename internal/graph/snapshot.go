package graph

import (
	"encoding/gob"
	"fmt"
	"io"
)

// Flattened attribute values are interface-typed, so their concrete types
// must be registered before gob can move them.
func init() {
	gob.Register("")
	gob.Register(0)
	gob.Register(0.0)
	gob.Register(false)
}

type snapshot struct {
	Nodes []Node
	Edges []Edge
}

// WriteSnapshot serializes the graph as a gob binary snapshot, the fast-path
// companion to GraphML.
func WriteSnapshot(w io.Writer, g *Graph) error {
	snap := snapshot{Edges: g.Edges()}
	for _, id := range g.NodeIDs() {
		snap.Nodes = append(snap.Nodes, *g.nodes[id])
	}
	if err := gob.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot restores a graph from a gob snapshot.
func ReadSnapshot(r io.Reader) (*Graph, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	g := NewGraph()
	for _, n := range snap.Nodes {
		g.AddNode(n.ID, n.Category, n.Attrs)
	}
	for _, e := range snap.Edges {
		g.SetEdge(e.From, e.To, e.Relation)
	}
	return g, nil
}
