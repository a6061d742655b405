package storage

import (
	"context"

	"codegraph/internal/graph"
)

// Store defines operations for persisting a built dependency graph.
type Store interface {
	// SaveGraph replaces the stored snapshot with g.
	SaveGraph(ctx context.Context, g *graph.Graph) error

	// LoadGraph reads the stored snapshot back.
	LoadGraph(ctx context.Context) (*graph.Graph, error)

	// GetNode retrieves one node by id; nil when absent.
	GetNode(ctx context.Context, id string) (*graph.Node, error)

	// FindNodesByFile retrieves the nodes extracted from one source file.
	FindNodesByFile(ctx context.Context, filePath string) ([]*graph.Node, error)

	Close() error
}
