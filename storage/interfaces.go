package storage

import (
	"context"
	"time"

	"github.com/dumpsift/dumpsift/core"
)

// Store is the capability every backend shares. Callers only ever see
// capability interfaces; the raw connection object stays inside the
// concrete store so one connection is never shared unsynchronized.
type Store interface {
	// Ping issues a trivial read against the backend to verify that
	// the connection is actually usable, not just dialed.
	Ping(ctx context.Context) error

	// Close releases the connection. Safe to call more than once.
	Close() error
}

// StructuredStore persists typed record batches keyed by case.
// Implementations create their schema idempotently on first connect.
type StructuredStore interface {
	Store

	// WriteRecordSet persists all records of a set, preserving each
	// kind's insertion order. Writes are idempotent over record
	// fingerprints so re-ingesting a duplicate table is harmless.
	WriteRecordSet(ctx context.Context, set *core.RecordSet) error

	// CountRecords returns the number of stored records per kind for
	// a case.
	CountRecords(ctx context.Context, caseID string) (map[core.RecordKind]int64, error)
}

// VectorPoint is one (vector, payload) pair to persist.
type VectorPoint struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// ScoredPoint is one ranked similarity-search hit.
type ScoredPoint struct {
	ID      string         `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// VectorStore persists embedding vectors for semantic search.
type VectorStore interface {
	Store

	// Upsert writes points, replacing any existing point with the
	// same ID. Input order is preserved.
	Upsert(ctx context.Context, points []VectorPoint) error

	// Search returns up to limit points scoring at or above minScore
	// against the query vector, ranked best first.
	Search(ctx context.Context, vector []float32, limit int, minScore float32) ([]ScoredPoint, error)
}

// Node is one graph entity, typically a person identified by a phone
// number or account handle.
type Node struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Edge is one directed relationship between two nodes.
type Edge struct {
	ID     string  `json:"id"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// Subgraph is the result of a bounded-depth traversal.
type Subgraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// GraphStore persists entity relationships for link analysis.
type GraphStore interface {
	Store

	// UpsertNodes writes nodes, replacing existing nodes by ID.
	UpsertNodes(ctx context.Context, nodes []Node) error

	// UpsertEdges writes edges, replacing existing edges by ID.
	UpsertEdges(ctx context.Context, edges []Edge) error

	// Neighborhood returns the subgraph reachable from the anchor
	// node within maxDepth hops.
	Neighborhood(ctx context.Context, anchorID string, maxDepth int) (*Subgraph, error)
}

// Cache memoizes query results. Values must be JSON-serializable; a
// missing key is an absence, never an error.
type Cache interface {
	Store

	// Set stores a value under key with the given expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Get reads the value under key into dest. Returns false on a
	// miss (including expired entries) with a nil error.
	Get(ctx context.Context, key string, dest any) (bool, error)
}
