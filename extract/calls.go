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

// CallExtractor recovers call-log records from tables whose column set
// matches one of two known shapes:
//
//   - explicit direction: {caller, receiver, duration}
//   - single number:      {number, type, duration}
//
// Eligibility is an exact lower-cased name check, not a keyword match,
// because call-log schemas are the most standardized of the three
// record kinds.
type CallExtractor struct {
	logger *slog.Logger
}

// NewCallExtractor creates a call extractor.
func NewCallExtractor(logger *slog.Logger) *CallExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CallExtractor{logger: logger.With("extractor", core.KindCall)}
}

// Extract scans every catalog table, extracting call records from
// those that qualify. Per-table failures are recorded as skip results
// and never abort the pass.
func (e *CallExtractor) Extract(ctx context.Context, src source.Source, catalog source.Catalog, set *core.RecordSet) []TableResult {
	var results []TableResult
	for _, table := range sortedTables(catalog) {
		colset := columnSet(catalog[table])

		directional := hasAll(colset, "caller", "receiver", "duration")
		if !directional && !hasAll(colset, "number", "type", "duration") {
			continue
		}

		var (
			count int
			err   error
		)
		if directional {
			count, err = e.extractDirectional(ctx, src, table, colset, set)
		} else {
			count, err = e.extractSingleNumber(ctx, src, table, colset, set)
		}
		if err != nil {
			e.logger.Warn("call extraction failed, skipping table", "table", table, "err", err)
			results = append(results, TableResult{Table: table, Kind: core.KindCall, Err: err})
			continue
		}
		results = append(results, TableResult{Table: table, Kind: core.KindCall, Records: count})
	}
	return results
}

// extractDirectional handles tables with explicit caller and receiver
// columns. Type and date columns are projected only when present so a
// minimal {caller, receiver, duration} table still yields records.
func (e *CallExtractor) extractDirectional(ctx context.Context, src source.Source, table string, cols map[string]bool, set *core.RecordSet) (int, error) {
	projection := []string{"caller", "receiver", "duration"}
	hasType := cols["type"]
	hasDate := cols["date"]
	if hasType {
		projection = append(projection, "type")
	}
	if hasDate {
		projection = append(projection, "date")
	}

	rows, err := src.Query(ctx, table, projection)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		values, err := scanRow(rows, len(projection))
		if err != nil {
			return count, err
		}

		record := &core.CallRecord{
			Caller:      asString(values[0]),
			Receiver:    asString(values[1]),
			Duration:    coerceDuration(values[2]),
			CallType:    "unknown",
			SourceTable: table,
		}
		idx := 3
		if hasType {
			record.CallType = coerceCallType(values[idx])
			idx++
		}
		if hasDate {
			record.Timestamp = NormalizeTimestamp(values[idx])
		}

		set.Calls = append(set.Calls, record)
		count++
	}
	return count, rows.Err()
}

// extractSingleNumber handles the standard single-number shape. The
// schema alone cannot say which party the number is, so the number is
// stored as the caller and the receiver is left absent. This is a
// known, accepted limitation of heuristic extraction, not an error.
func (e *CallExtractor) extractSingleNumber(ctx context.Context, src source.Source, table string, cols map[string]bool, set *core.RecordSet) (int, error) {
	projection := []string{"number", "duration", "type"}
	hasDate := cols["date"]
	if hasDate {
		projection = append(projection, "date")
	}

	rows, err := src.Query(ctx, table, projection)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		values, err := scanRow(rows, len(projection))
		if err != nil {
			return count, err
		}

		record := &core.CallRecord{
			Caller:      asString(values[0]),
			Receiver:    nil, // direction ambiguous without a type mapping
			Duration:    coerceDuration(values[1]),
			CallType:    coerceCallType(values[2]),
			SourceTable: table,
		}
		if hasDate {
			record.Timestamp = NormalizeTimestamp(values[3])
		}

		set.Calls = append(set.Calls, record)
		count++
	}
	return count, rows.Err()
}
