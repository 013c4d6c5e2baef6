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


package extract

import (
	"context"
	"log/slog"

	"github.com/dumpsift/dumpsift/core"
	"github.com/dumpsift/dumpsift/source"
)

// Orchestrator runs all table extractors against one opened data
// source, aggregating their output into a single record set. It owns
// no state beyond the aggregation buffer of the pass in flight.
type Orchestrator struct {
	calls    *CallExtractor
	chats    *ChatExtractor
	contacts *ContactExtractor
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// NewOrchestrator creates an extraction orchestrator.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	o.calls = NewCallExtractor(o.logger)
	o.chats = NewChatExtractor(o.logger)
	o.contacts = NewContactExtractor(o.logger)
	return o
}

// Result is the outcome of one extraction pass: the aggregated record
// set plus the typed per-table results, including skip causes.
type Result struct {
	Set    *core.RecordSet
	Tables []TableResult
}

// Skipped returns the table results that were skipped with a cause.
func (r *Result) Skipped() []TableResult {
	var skipped []TableResult
	for _, tr := range r.Tables {
		if tr.Skipped() {
			skipped = append(skipped, tr)
		}
	}
	return skipped
}

// Extract builds the source catalog once and runs every extractor over
// it. Table classification is independent per extractor: the same
// table may yield both chat and call records, which some forensic
// schemas genuinely do.
//
// A catalog-level failure is fatal and returned as a source.OpenError;
// per-table failures inside the pass are absorbed into the result.
func (o *Orchestrator) Extract(ctx context.Context, src source.Source, caseID, investigatorID string) (*Result, error) {
	catalog, err := src.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	set := core.NewRecordSet(caseID, investigatorID)
	result := &Result{Set: set}

	result.Tables = append(result.Tables, o.calls.Extract(ctx, src, catalog, set)...)
	result.Tables = append(result.Tables, o.chats.Extract(ctx, src, catalog, set)...)
	result.Tables = append(result.Tables, o.contacts.Extract(ctx, src, catalog, set)...)

	o.logger.Info("extraction pass complete",
		"case", caseID,
		"tables", len(catalog),
		"calls", len(set.Calls),
		"chats", len(set.Chats),
		"contacts", len(set.Contacts),
		"skipped", len(result.Skipped()))

	return result, nil
}
