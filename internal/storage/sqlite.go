package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"codegraph/internal/graph"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			category TEXT,
			file_path TEXT,
			attrs JSON
		);`,
		`CREATE TABLE IF NOT EXISTS edges (
			from_id TEXT,
			to_id TEXT,
			relation TEXT,
			PRIMARY KEY (from_id, to_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(file_path);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_id);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveGraph replaces the stored snapshot with g inside one transaction, so
// stale nodes and edges from a previous scan never linger.
func (s *SQLiteStore) SaveGraph(ctx context.Context, g *graph.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM edges"); err != nil {
		return err
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO nodes (id, category, file_path, attrs) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer nodeStmt.Close()

	for _, id := range g.NodeIDs() {
		node := g.Node(id)
		attrs, err := json.Marshal(node.Attrs)
		if err != nil {
			return fmt.Errorf("encoding attrs of %s: %w", id, err)
		}
		filePath, _ := node.Attrs["file_path"].(string)
		if _, err := nodeStmt.ExecContext(ctx, node.ID, node.Category, filePath, attrs); err != nil {
			return err
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO edges (from_id, to_id, relation) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer edgeStmt.Close()

	for _, edge := range g.Edges() {
		if _, err := edgeStmt.ExecContext(ctx, edge.From, edge.To, edge.Relation); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadGraph reads the stored snapshot back.
func (s *SQLiteStore) LoadGraph(ctx context.Context) (*graph.Graph, error) {
	g := graph.NewGraph()

	rows, err := s.db.QueryContext(ctx, "SELECT id, category, attrs FROM nodes")
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, category string
		var attrsJSON []byte
		if err := rows.Scan(&id, &category, &attrsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		attrs, err := decodeAttrs(attrsJSON)
		if err != nil {
			return nil, fmt.Errorf("decoding attrs of %s: %w", id, err)
		}
		g.AddNode(id, category, attrs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := s.db.QueryContext(ctx, "SELECT from_id, to_id, relation FROM edges")
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var from, to, relation string
		if err := edgeRows.Scan(&from, &to, &relation); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		g.SetEdge(from, to, relation)
	}
	return g, edgeRows.Err()
}

// GetNode retrieves one node by id. A missing node is nil, not an error.
func (s *SQLiteStore) GetNode(ctx context.Context, id string) (*graph.Node, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, category, attrs FROM nodes WHERE id = ?", id)
	node, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return node, err
}

// FindNodesByFile retrieves the nodes extracted from one source file,
// ordered by id.
func (s *SQLiteStore) FindNodesByFile(ctx context.Context, filePath string) ([]*graph.Node, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, category, attrs FROM nodes WHERE file_path = ? ORDER BY id", filePath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*graph.Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row scanner) (*graph.Node, error) {
	var id, category string
	var attrsJSON []byte
	if err := row.Scan(&id, &category, &attrsJSON); err != nil {
		return nil, err
	}
	attrs, err := decodeAttrs(attrsJSON)
	if err != nil {
		return nil, fmt.Errorf("decoding attrs of %s: %w", id, err)
	}
	return &graph.Node{ID: id, Category: category, Attrs: attrs}, nil
}

// decodeAttrs restores attribute values with their original numeric types:
// integral JSON numbers become int, everything else float64.
func decodeAttrs(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	attrs := make(map[string]any, len(raw))
	for k, v := range raw {
		if num, ok := v.(json.Number); ok {
			if i, err := strconv.Atoi(num.String()); err == nil {
				attrs[k] = i
				continue
			}
			if f, err := num.Float64(); err == nil {
				attrs[k] = f
				continue
			}
		}
		attrs[k] = v
	}
	return attrs, nil
}
