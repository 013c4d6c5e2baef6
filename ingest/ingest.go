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


package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/dumpsift/dumpsift/core"
	"github.com/dumpsift/dumpsift/embed"
	"github.com/dumpsift/dumpsift/storage"
)

// targetStores are the ingestion targets, one write task each. The
// cache is deliberately absent: it memoizes queries, not records.
var targetStores = []storage.StoreName{storage.StoreStructured, storage.StoreVector, storage.StoreGraph}

// Ingestor fans one record set out to every available store. Store
// tasks run concurrently on a worker pool and are fully isolated: a
// failed or unavailable store neither blocks the others nor rolls
// back their committed writes.
type Ingestor struct {
	stores   *storage.Manager
	embedder embed.Embedder
	deriver  RelationshipDeriver
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor) error

// WithEmbedder sets the embedding capability used for vector writes.
// Without one, vector writes are skipped.
func WithEmbedder(embedder embed.Embedder) Option {
	return func(ing *Ingestor) error {
		ing.embedder = embedder
		return nil
	}
}

// WithDeriver overrides the relationship deriver used for graph
// writes. Default is CommunicationDeriver.
func WithDeriver(deriver RelationshipDeriver) Option {
	return func(ing *Ingestor) error {
		if deriver == nil {
			return errors.New("deriver cannot be nil")
		}
		ing.deriver = deriver
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ing *Ingestor) error {
		if logger == nil {
			logger = slog.Default()
		}
		ing.logger = logger
		return nil
	}
}

// NewIngestor creates an ingestion orchestrator over the given store
// manager.
func NewIngestor(stores *storage.Manager, opts ...Option) (*Ingestor, error) {
	if stores == nil {
		return nil, ErrManagerRequired
	}

	// One worker per target store; tasks are I/O bound.
	pool, err := ants.NewPool(len(targetStores))
	if err != nil {
		return nil, err
	}

	ing := &Ingestor{
		stores:  stores,
		deriver: &CommunicationDeriver{},
		pool:    pool,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(ing); optErr != nil {
			ing.Release()
			return nil, optErr
		}
	}
	return ing, nil
}

// Release releases the worker pool. The ingestor should not be used
// after calling Release.
func (ing *Ingestor) Release() {
	if ing.pool != nil {
		ing.pool.Release()
	}
}

// Ingest writes a record set to every available store and reports the
// per-store outcome. The record set is only read; store tasks share no
// other mutable state. Within one store, per-kind insertion order is
// preserved; across stores there is no ordering guarantee.
func (ing *Ingestor) Ingest(ctx context.Context, set *core.RecordSet) (*Report, error) {
	if set == nil {
		return nil, ErrRecordSetRequired
	}

	report := newReport(set.CaseID)
	tasks := map[storage.StoreName]func(context.Context, *core.RecordSet) (int, error){
		storage.StoreStructured: ing.writeStructured,
		storage.StoreVector:     ing.writeVector,
		storage.StoreGraph:      ing.writeGraph,
	}

	var wg sync.WaitGroup
	for _, name := range targetStores {
		task := tasks[name]
		wg.Add(1)
		run := func() {
			defer wg.Done()
			report.set(name, ing.runTask(ctx, name, task, set))
		}
		if err := ing.pool.Submit(run); err != nil {
			// Pool saturated or released; the write still has to
			// happen, so fall back to running inline.
			run()
		}
	}
	wg.Wait()

	report.FinishedAt = time.Now().UTC()
	ing.logger.Info("ingestion run complete",
		"run", report.RunID, "case", set.CaseID, "records", set.Total(),
		"duration", report.FinishedAt.Sub(report.StartedAt))
	return report, nil
}

func (ing *Ingestor) runTask(ctx context.Context, name storage.StoreName, task func(context.Context, *core.RecordSet) (int, error), set *core.RecordSet) StoreResult {
	records, err := task(ctx, set)
	if err != nil {
		if errors.Is(err, storage.ErrStoreUnavailable) {
			ing.logger.Warn("store unavailable, skipping write", "store", name)
			return StoreResult{Status: StatusSkipped, Cause: err.Error()}
		}
		ing.logger.Error("store write failed", "store", name, "err", err)
		return StoreResult{Status: StatusFailed, Cause: err.Error()}
	}
	return StoreResult{Status: StatusWritten, Records: records}
}

func (ing *Ingestor) writeStructured(ctx context.Context, set *core.RecordSet) (int, error) {
	store, err := ing.stores.Structured()
	if err != nil {
		return 0, err
	}
	if err := store.WriteRecordSet(ctx, set); err != nil {
		return 0, err
	}
	return set.Total(), nil
}

// writeVector embeds chat contents and upserts one point per message.
// Point IDs are record fingerprints, so re-ingesting a duplicate table
// replaces points instead of duplicating them.
func (ing *Ingestor) writeVector(ctx context.Context, set *core.RecordSet) (int, error) {
	store, err := ing.stores.Vector()
	if err != nil {
		return 0, err
	}
	if ing.embedder == nil {
		return 0, fmt.Errorf("%w: no embedder configured", storage.ErrStoreUnavailable)
	}
	if len(set.Chats) == 0 {
		return 0, nil
	}

	texts := make([]string, len(set.Chats))
	for i, chat := range set.Chats {
		texts[i] = chat.Content
	}

	vectors, err := ing.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(set.Chats) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(set.Chats))
	}

	points := make([]storage.VectorPoint, len(set.Chats))
	for i, chat := range set.Chats {
		payload := map[string]any{
			"case_id":      set.CaseID,
			"content":      chat.Content,
			"source_table": chat.SourceTable,
		}
		if chat.Sender != nil {
			payload["sender"] = *chat.Sender
		}
		if chat.Receiver != nil {
			payload["receiver"] = *chat.Receiver
		}
		if chat.Timestamp != nil {
			payload["timestamp"] = chat.Timestamp.Unix()
		}
		points[i] = storage.VectorPoint{
			ID:      fmt.Sprintf("%016x", uint64(chat.Fingerprint())),
			Vector:  vectors[i],
			Payload: payload,
		}
	}

	if err := store.Upsert(ctx, points); err != nil {
		return 0, err
	}
	return len(points), nil
}

func (ing *Ingestor) writeGraph(ctx context.Context, set *core.RecordSet) (int, error) {
	store, err := ing.stores.Graph()
	if err != nil {
		return 0, err
	}

	nodes, edges := ing.deriver.Derive(set)
	if err := store.UpsertNodes(ctx, nodes); err != nil {
		return 0, err
	}
	if err := store.UpsertEdges(ctx, edges); err != nil {
		return 0, err
	}
	return len(nodes) + len(edges), nil
}
