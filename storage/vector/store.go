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


package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dumpsift/dumpsift/storage"
)

// Store is a flat-scan vector store backed by SQLite. Points are
// (vector, payload) pairs; search ranks by cosine similarity against
// all stored vectors. Case record volumes stay well inside flat-scan
// territory, so there is no approximate index.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.VectorStore = (*Store)(nil)

// Open opens (or creates) the vector store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS embeddings (
		id TEXT PRIMARY KEY,
		vector BLOB NOT NULL,
		payload TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create vector schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "vector-store"),
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

// Upsert writes points in input order, replacing existing points by ID.
func (s *Store) Upsert(ctx context.Context, points []storage.VectorPoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO embeddings (id, vector, payload) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, point := range points {
		if point.ID == "" || len(point.Vector) == 0 {
			return fmt.Errorf("invalid point: missing id or vector")
		}
		payload, err := json.Marshal(point.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload for %s: %w", point.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, point.ID, encodeVector(point.Vector), string(payload)); err != nil {
			return fmt.Errorf("failed to upsert point %s: %w", point.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}
	s.logger.Debug("points upserted", "count", len(points))
	return nil
}

// Search returns up to limit points scoring at or above minScore
// against the query vector, ranked by cosine similarity, best first.
func (s *Store) Search(ctx context.Context, vector []float32, limit int, minScore float32) ([]storage.ScoredPoint, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, vector, payload FROM embeddings")
	if err != nil {
		return nil, fmt.Errorf("failed to scan embeddings: %w", err)
	}
	defer rows.Close()

	var results []storage.ScoredPoint
	for rows.Next() {
		var (
			id      string
			blob    []byte
			payload sql.NullString
		)
		if err := rows.Scan(&id, &blob, &payload); err != nil {
			return nil, err
		}

		candidate, err := decodeVector(blob)
		if err != nil {
			s.logger.Warn("skipping undecodable vector", "id", id, "err", err)
			continue
		}

		score := cosineSimilarity(vector, candidate)
		if score < minScore {
			continue
		}

		point := storage.ScoredPoint{ID: id, Score: score}
		if payload.Valid && payload.String != "" {
			if err := json.Unmarshal([]byte(payload.String), &point.Payload); err != nil {
				s.logger.Warn("skipping undecodable payload", "id", id, "err", err)
			}
		}
		results = append(results, point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b storage.ScoredPoint) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// encodeVector packs float32 values little-endian into a BLOB.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d not a multiple of 4", len(blob))
	}
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector, nil
}

func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
