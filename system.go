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


package dumpsift

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dumpsift/dumpsift/core"
	"github.com/dumpsift/dumpsift/embed"
	"github.com/dumpsift/dumpsift/embed/openai"
	"github.com/dumpsift/dumpsift/extract"
	"github.com/dumpsift/dumpsift/ingest"
	"github.com/dumpsift/dumpsift/source"
	"github.com/dumpsift/dumpsift/storage"
	"github.com/dumpsift/dumpsift/storage/cache"
	"github.com/dumpsift/dumpsift/storage/graph"
	"github.com/dumpsift/dumpsift/storage/sqlite"
	"github.com/dumpsift/dumpsift/storage/vector"
)

// queryCacheTTL bounds how long memoized search and traversal results
// stay fresh after new ingestion runs.
const queryCacheTTL = time.Hour

// Config holds the backend locations for a System.
type Config struct {
	// DataDir is the directory holding every store's files.
	DataDir string

	// Embedding configures the embedding service. Nil disables
	// vector ingestion and semantic search.
	Embedding *embed.Config

	// MaxConnectAttempts and RetryDelay tune the connection manager.
	// Zero values keep the manager defaults.
	MaxConnectAttempts int
	RetryDelay         time.Duration
}

// DefaultConfig returns a config rooted at dir with a local embedding
// service.
func DefaultConfig(dir string) Config {
	return Config{
		DataDir:   dir,
		Embedding: embed.DefaultConfig(),
	}
}

// System wires the extraction orchestrator, store connection manager,
// and ingestion together behind one lifecycle: Open, ConnectAll (done
// by Open), use, Close. It replaces any notion of a process-global
// connection singleton; construct one and pass it where needed.
type System struct {
	manager      *storage.Manager
	orchestrator *extract.Orchestrator
	embedder     embed.Embedder
	logger       *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*System)

// WithSystemEmbedder overrides the embedder built from config, e.g.
// with a mock for tests.
func WithSystemEmbedder(embedder embed.Embedder) SystemOption {
	return func(s *System) {
		s.embedder = embedder
	}
}

// Open constructs a System over the configured backends and connects
// them all. Individual backends that fail to connect stay unavailable
// and degrade capability; Open itself only fails on invalid
// configuration.
func Open(ctx context.Context, config Config, opts ...SystemOption) (*System, error) {
	if config.DataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}

	s := &System{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	if s.embedder == nil && config.Embedding != nil {
		embedder, err := openai.NewEmbedder(config.Embedding)
		if err != nil {
			return nil, fmt.Errorf("failed to build embedder: %w", err)
		}
		s.embedder = embedder
	}

	managerOpts := []storage.ManagerOption{
		storage.WithStructured(func(ctx context.Context) (storage.StructuredStore, error) {
			return sqlite.Open(ctx, filepath.Join(config.DataDir, "records.db"))
		}),
		storage.WithVector(func(ctx context.Context) (storage.VectorStore, error) {
			return vector.Open(ctx, filepath.Join(config.DataDir, "vectors.db"))
		}),
		storage.WithGraph(func(ctx context.Context) (storage.GraphStore, error) {
			return graph.Open(ctx, filepath.Join(config.DataDir, "graph.db"))
		}),
		storage.WithCache(func(ctx context.Context) (storage.Cache, error) {
			return cache.Open(filepath.Join(config.DataDir, "cache"), false)
		}),
	}
	if config.MaxConnectAttempts > 0 {
		managerOpts = append(managerOpts, storage.WithMaxAttempts(config.MaxConnectAttempts))
	}
	if config.RetryDelay > 0 {
		managerOpts = append(managerOpts, storage.WithRetryDelay(config.RetryDelay))
	}

	s.manager = storage.NewManager(managerOpts...)
	s.manager.ConnectAll(ctx)

	s.orchestrator = extract.NewOrchestrator(extract.WithLogger(s.logger))
	return s, nil
}

// Stores exposes the connection manager for availability checks.
func (s *System) Stores() *storage.Manager {
	return s.manager
}

// Extract runs a full extraction pass over an opened data source.
func (s *System) Extract(ctx context.Context, src source.Source, caseID, investigatorID string) (*extract.Result, error) {
	return s.orchestrator.Extract(ctx, src, caseID, investigatorID)
}

// NewIngestor creates an ingestion orchestrator bound to this
// system's stores and embedder.
func (s *System) NewIngestor(opts ...ingest.Option) (*ingest.Ingestor, error) {
	if s.embedder != nil {
		opts = append([]ingest.Option{ingest.WithEmbedder(s.embedder)}, opts...)
	}
	return ingest.NewIngestor(s.manager, opts...)
}

// SemanticSearch embeds the query and searches the vector store,
// memoizing results in the cache. An unavailable vector store or
// missing embedder yields empty results, not an error: semantic
// search is a degraded capability, and the caller's request must not
// fail because one backend is down.
func (s *System) SemanticSearch(ctx context.Context, query string, limit int, minScore float32) ([]storage.ScoredPoint, error) {
	store, err := s.manager.Vector()
	if err != nil {
		s.logger.Warn("semantic search disabled", "err", err)
		return []storage.ScoredPoint{}, nil
	}
	if s.embedder == nil {
		s.logger.Warn("semantic search disabled: no embedder configured")
		return []storage.ScoredPoint{}, nil
	}

	cacheKey := queryCacheKey("search", query, strconv.Itoa(limit),
		strconv.FormatFloat(float64(minScore), 'f', -1, 32))
	var cached []storage.ScoredPoint
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := store.Search(ctx, queryVector, limit, minScore)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []storage.ScoredPoint{}
	}

	s.cacheSet(ctx, cacheKey, results)
	return results, nil
}

// Connections returns the bounded-depth communication neighborhood of
// an identifier, memoizing results in the cache. An unavailable graph
// store yields an empty subgraph, not an error.
func (s *System) Connections(ctx context.Context, identifier string, depth int) (*storage.Subgraph, error) {
	store, err := s.manager.Graph()
	if err != nil {
		s.logger.Warn("connection analysis disabled", "err", err)
		return &storage.Subgraph{}, nil
	}

	cacheKey := queryCacheKey("connections", identifier, strconv.Itoa(depth))
	var cached storage.Subgraph
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	sub, err := store.Neighborhood(ctx, ingest.PersonNodeID(identifier), depth)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, sub)
	return sub, nil
}

// Close releases every store connection. Never fails; close errors
// are logged by the manager.
func (s *System) Close() {
	s.manager.CloseAll()
}

// cacheGet reads a memoized value. Cache trouble is never worth
// failing a query over, so misses and errors look the same.
func (s *System) cacheGet(ctx context.Context, key string, dest any) bool {
	c, err := s.manager.Cache()
	if err != nil {
		return false
	}
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "err", err)
		return false
	}
	return found
}

func (s *System) cacheSet(ctx context.Context, key string, value any) {
	c, err := s.manager.Cache()
	if err != nil {
		return
	}
	if err := c.Set(ctx, key, value, queryCacheTTL); err != nil {
		s.logger.Warn("cache write failed", "key", key, "err", err)
	}
}

func queryCacheKey(kind string, parts ...string) string {
	return fmt.Sprintf("%s:%016x", kind, uint64(core.IDFromContent(parts...)))
}
