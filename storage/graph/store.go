// Copyright 2026 Dumpsift Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package graph

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dumpsift/dumpsift/storage"
)

// Store is a relationship store backed by SQLite node and edge tables.
// Traversal is breadth-first with a depth ceiling, which is all link
// analysis over case records needs.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.GraphStore = (*Store)(nil)

// Open opens (or creates) the graph store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph store: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS graph_nodes (
		id TEXT PRIMARY KEY,
		kind TEXT,
		label TEXT,
		properties TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS graph_edges (
		id TEXT PRIMARY KEY,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		edge_type TEXT,
		weight REAL DEFAULT 1.0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_graph_edges_from ON graph_edges(from_id);
	CREATE INDEX IF NOT EXISTS idx_graph_edges_to ON graph_edges(to_id);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create graph schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "graph-store"),
	}, nil
}

// Ping verifies the store answers a trivial read.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	return s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertNodes writes nodes, replacing existing nodes by ID.
func (s *Store) UpsertNodes(ctx context.Context, nodes []storage.Node) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin node upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO graph_nodes (id, kind, label, properties) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, node := range nodes {
		if node.ID == "" {
			return fmt.Errorf("invalid node: missing ID")
		}
		var properties any
		if node.Properties != nil {
			encoded, err := json.Marshal(node.Properties)
			if err != nil {
				return fmt.Errorf("failed to encode properties for %s: %w", node.ID, err)
			}
			properties = string(encoded)
		}
		if _, err := stmt.ExecContext(ctx, node.ID, node.Kind, node.Label, properties); err != nil {
			return fmt.Errorf("failed to upsert node %s: %w", node.ID, err)
		}
	}
	return tx.Commit()
}

// UpsertEdges writes edges, replacing existing edges by ID.
func (s *Store) UpsertEdges(ctx context.Context, edges []storage.Edge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin edge upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO graph_edges (id, from_id, to_id, edge_type, weight) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, edge := range edges {
		if edge.ID == "" || edge.From == "" || edge.To == "" {
			return fmt.Errorf("invalid edge: missing id or endpoint")
		}
		if _, err := stmt.ExecContext(ctx, edge.ID, edge.From, edge.To, edge.Type, edge.Weight); err != nil {
			return fmt.Errorf("failed to upsert edge %s: %w", edge.ID, err)
		}
	}
	return tx.Commit()
}

// Neighborhood returns the subgraph reachable from the anchor node
// within maxDepth hops, traversing edges in both directions.
func (s *Store) Neighborhood(ctx context.Context, anchorID string, maxDepth int) (*storage.Subgraph, error) {
	if maxDepth <= 0 {
		maxDepth = 1
	}

	visited := map[string]bool{anchorID: true}
	seenEdges := map[string]bool{}
	sub := &storage.Subgraph{}

	anchor, err := s.getNode(ctx, anchorID)
	if err != nil {
		return nil, err
	}
	if anchor != nil {
		sub.Nodes = append(sub.Nodes, *anchor)
	}

	frontier := []string{anchorID}
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, nodeID := range frontier {
			edges, err := s.edgesTouching(ctx, nodeID)
			if err != nil {
				return nil, err
			}
			for _, edge := range edges {
				if !seenEdges[edge.ID] {
					seenEdges[edge.ID] = true
					sub.Edges = append(sub.Edges, edge)
				}

				neighbor := edge.To
				if neighbor == nodeID {
					neighbor = edge.From
				}
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true

				node, err := s.getNode(ctx, neighbor)
				if err != nil {
					return nil, err
				}
				if node == nil {
					continue // dangling edge
				}
				sub.Nodes = append(sub.Nodes, *node)
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return sub, nil
}

func (s *Store) getNode(ctx context.Context, id string) (*storage.Node, error) {
	var (
		node       storage.Node
		properties sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, kind, label, properties FROM graph_nodes WHERE id = ?", id).
		Scan(&node.ID, &node.Kind, &node.Label, &properties)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read node %s: %w", id, err)
	}
	if properties.Valid && properties.String != "" {
		if err := json.Unmarshal([]byte(properties.String), &node.Properties); err != nil {
			s.logger.Warn("undecodable node properties", "id", id, "err", err)
		}
	}
	return &node, nil
}

func (s *Store) edgesTouching(ctx context.Context, nodeID string) ([]storage.Edge, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, from_id, to_id, edge_type, weight FROM graph_edges WHERE from_id = ? OR to_id = ?",
		nodeID, nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to read edges for %s: %w", nodeID, err)
	}
	defer rows.Close()

	var edges []storage.Edge
	for rows.Next() {
		var edge storage.Edge
		if err := rows.Scan(&edge.ID, &edge.From, &edge.To, &edge.Type, &edge.Weight); err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}
