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

// defaultAppLabel is applied to every extracted chat record; the
// heuristic pass cannot tell which application owned the table.
const defaultAppLabel = "Chat"

// ChatExtractor recovers chat messages from any table carrying a
// text-role column. Sender, receiver and timestamp columns are
// optional; the projection is built in a fixed order and decoded with
// matching presence flags so row offsets stay consistent.
type ChatExtractor struct {
	logger *slog.Logger
}

// NewChatExtractor creates a chat extractor.
func NewChatExtractor(logger *slog.Logger) *ChatExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatExtractor{logger: logger.With("extractor", core.KindChat)}
}

// Extract scans every catalog table, extracting chat records from
// those with a text-bearing column. Per-table failures are recorded as
// skip results and never abort the pass.
func (e *ChatExtractor) Extract(ctx context.Context, src source.Source, catalog source.Catalog, set *core.RecordSet) []TableResult {
	var results []TableResult
	for _, table := range sortedTables(catalog) {
		roles := Classify(catalog[table])
		if _, ok := roles[RoleText]; !ok {
			continue // not a chat table without message content
		}

		count, err := e.extractTable(ctx, src, table, roles, set)
		if err != nil {
			e.logger.Warn("chat extraction failed, skipping table", "table", table, "err", err)
			results = append(results, TableResult{Table: table, Kind: core.KindChat, Err: err})
			continue
		}
		results = append(results, TableResult{Table: table, Kind: core.KindChat, Records: count})
	}
	return results
}

func (e *ChatExtractor) extractTable(ctx context.Context, src source.Source, table string, roles map[Role]string, set *core.RecordSet) (int, error) {
	sender, hasSender := roles[RoleSender]
	receiver, hasReceiver := roles[RoleReceiver]
	timestamp, hasTimestamp := roles[RoleTimestamp]

	// Fixed projection order: sender?, receiver?, text, timestamp?.
	// The decoder below must track the same presence flags.
	var projection []string
	if hasSender {
		projection = append(projection, sender)
	}
	if hasReceiver {
		projection = append(projection, receiver)
	}
	projection = append(projection, roles[RoleText])
	if hasTimestamp {
		projection = append(projection, timestamp)
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

		record := &core.ChatRecord{
			App:         defaultAppLabel,
			MessageType: "text", // no message-type inference in this pass
			Deleted:     false,  // no deletion-state inference either
			SourceTable: table,
		}

		idx := 0
		if hasSender {
			record.Sender = asString(values[idx])
			idx++
		}
		if hasReceiver {
			record.Receiver = asString(values[idx])
			idx++
		}
		record.Content = coerceString(values[idx])
		idx++
		if hasTimestamp {
			record.Timestamp = NormalizeTimestamp(values[idx])
		}

		set.Chats = append(set.Chats, record)
		count++
	}
	return count, rows.Err()
}
