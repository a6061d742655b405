package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codegraph/internal/query"
)

// Arguments structs

type GetNodeArgs struct {
	ID string `json:"id" jsonschema:"required,description:The node id, e.g. src/app.py::main"`
}

type ListNeighborsArgs struct {
	ID string `json:"id" jsonschema:"required,description:The node id whose adjacency to list"`
}

type FindPathArgs struct {
	From string `json:"from" jsonschema:"required,description:The source node id"`
	To   string `json:"to" jsonschema:"required,description:The target node id"`
}

type SubgraphArgs struct {
	ID        string `json:"id" jsonschema:"required,description:The node id to start from"`
	Depth     int    `json:"depth" jsonschema:"description:Maximum hop distance, default 2"`
	Direction string `json:"direction" jsonschema:"description:Edge direction to follow: out, in, or both (default out)"`
}

type StatsArgs struct{}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_node",
		Description: "Returns one graph node with its category and attributes",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetNodeArgs) (*mcp.CallToolResult, any, error) {
		text, err := s.getNode(args.ID)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_neighbors",
		Description: "Lists a node's incoming and outgoing edges with relation labels",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListNeighborsArgs) (*mcp.CallToolResult, any, error) {
		text, err := s.listNeighbors(args.ID)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find_path",
		Description: "Finds one shortest directed dependency path between two nodes",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FindPathArgs) (*mcp.CallToolResult, any, error) {
		text, err := s.findPath(args.From, args.To)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "subgraph",
		Description: "Extracts the induced subgraph within a bounded distance of a node",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SubgraphArgs) (*mcp.CallToolResult, any, error) {
		text, err := s.subgraph(args.ID, args.Depth, args.Direction)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Summarizes the graph: node, edge, category, relation, and stub counts",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args StatsArgs) (*mcp.CallToolResult, any, error) {
		return textResult(s.stats()), nil, nil
	})
}

func (s *Server) getNode(id string) (string, error) {
	node := s.g.Node(id)
	if node == nil {
		return "", fmt.Errorf("node %q not in graph", id)
	}
	out := map[string]any{
		"id":        node.ID,
		"category":  node.Category,
		"attrs":     node.Attrs,
		"out_count": len(s.g.Successors(id)),
		"in_count":  len(s.g.Predecessors(id)),
	}
	return marshal(out)
}

func (s *Server) listNeighbors(id string) (string, error) {
	n, err := query.Neighbors(s.g, id)
	if err != nil {
		return "", err
	}
	return marshal(n)
}

func (s *Server) findPath(from, to string) (string, error) {
	path, err := query.ShortestPath(s.g, from, to)
	if err != nil {
		return "", err
	}
	if path == nil {
		return fmt.Sprintf("No path from %q to %q.", from, to), nil
	}
	return marshal(map[string]any{"path": path, "length": len(path) - 1})
}

func (s *Server) subgraph(id string, depth int, direction string) (string, error) {
	if depth <= 0 {
		depth = 2
	}
	dir, err := parseDirection(direction)
	if err != nil {
		return "", err
	}
	sub, err := query.Subgraph(s.g, id, depth, dir)
	if err != nil {
		return "", err
	}

	type node struct {
		ID       string `json:"id"`
		Category string `json:"category"`
	}
	type edge struct {
		From     string `json:"from"`
		To       string `json:"to"`
		Relation string `json:"relation"`
	}
	out := struct {
		Nodes []node `json:"nodes"`
		Edges []edge `json:"edges"`
	}{}
	for _, nid := range sub.NodeIDs() {
		out.Nodes = append(out.Nodes, node{ID: nid, Category: sub.Node(nid).Category})
	}
	for _, e := range sub.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To, Relation: e.Relation})
	}
	return marshal(out)
}

func (s *Server) stats() string {
	text, _ := marshal(s.g.Stats())
	return text
}

func parseDirection(direction string) (query.Direction, error) {
	switch direction {
	case "", "out":
		return query.DirOut, nil
	case "in":
		return query.DirIn, nil
	case "both":
		return query.DirBoth, nil
	}
	return "", fmt.Errorf("unknown direction %q (want out, in, or both)", direction)
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
