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
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dumpsift/dumpsift/embed/mock"
	sourcesqlite "github.com/dumpsift/dumpsift/source/sqlite"
	"github.com/dumpsift/dumpsift/storage"
)

// createDump builds a small evidence database and returns its path.
func createDump(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "dump.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE messages (sender_number TEXT, receiver_id TEXT, message_text TEXT, timestamp INTEGER);
		CREATE TABLE call_log (number TEXT, type INTEGER, duration INTEGER, date INTEGER);
		CREATE TABLE contacts (display_name TEXT, phone_number TEXT);
		INSERT INTO messages VALUES ('123', '456', 'meet at the warehouse', 1600000000);
		INSERT INTO messages VALUES ('456', '123', 'what time', 1600000060);
		INSERT INTO call_log VALUES ('0712345678', 2, 45, 1600000000000);
		INSERT INTO contacts VALUES ('Alice', '123');
	`)
	require.NoError(t, err)
	return path
}

func setupSystem(t *testing.T) (*System, *mock.Embedder) {
	embedder := mock.NewEmbedder()
	system, err := Open(context.Background(), Config{DataDir: t.TempDir()},
		WithSystemEmbedder(embedder))
	require.NoError(t, err)
	t.Cleanup(system.Close)
	return system, embedder
}

func TestOpenRequiresDataDir(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	assert.Error(t, err)
}

func TestOpenConnectsAllStores(t *testing.T) {
	system, _ := setupSystem(t)

	for _, name := range []storage.StoreName{
		storage.StoreStructured, storage.StoreVector, storage.StoreGraph, storage.StoreCache,
	} {
		assert.True(t, system.Stores().Available(name), "store %s", name)
	}
}

func TestExtractIngestSearchRoundTrip(t *testing.T) {
	system, embedder := setupSystem(t)
	ctx := context.Background()

	src, err := sourcesqlite.Open(createDump(t))
	require.NoError(t, err)
	defer src.Close()

	result, err := system.Extract(ctx, src, "case-1", "inv-1")
	require.NoError(t, err)
	assert.Len(t, result.Set.Calls, 1)
	assert.Len(t, result.Set.Chats, 2)
	assert.Len(t, result.Set.Contacts, 1)

	ingestor, err := system.NewIngestor()
	require.NoError(t, err)
	defer ingestor.Release()

	report, err := ingestor.Ingest(ctx, result.Set)
	require.NoError(t, err)
	assert.True(t, report.Written(storage.StoreStructured))
	assert.True(t, report.Written(storage.StoreVector))
	assert.True(t, report.Written(storage.StoreGraph))

	// The mock embedder is deterministic, so searching for the exact
	// message text scores a perfect match.
	hits, err := system.SemanticSearch(ctx, "meet at the warehouse", 5, 0.9)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "meet at the warehouse", hits[0].Payload["content"])

	callsBefore := embedder.CallCount()
	cached, err := system.SemanticSearch(ctx, "meet at the warehouse", 5, 0.9)
	require.NoError(t, err)
	assert.Equal(t, len(hits), len(cached))
	assert.Equal(t, callsBefore, embedder.CallCount(), "repeat query served from cache")
}

func TestConnectionsTraversal(t *testing.T) {
	system, _ := setupSystem(t)
	ctx := context.Background()

	src, err := sourcesqlite.Open(createDump(t))
	require.NoError(t, err)
	defer src.Close()

	result, err := system.Extract(ctx, src, "case-1", "inv-1")
	require.NoError(t, err)

	ingestor, err := system.NewIngestor()
	require.NoError(t, err)
	defer ingestor.Release()
	_, err = ingestor.Ingest(ctx, result.Set)
	require.NoError(t, err)

	sub, err := system.Connections(ctx, "123", 1)
	require.NoError(t, err)
	assert.Len(t, sub.Nodes, 2, "123 and its one correspondent")
	assert.Len(t, sub.Edges, 2, "one directed edge per message direction")
	assert.Equal(t, "Alice", sub.Nodes[0].Label, "contact name enriches the anchor node")
}

func TestSemanticSearchDegradesWithoutEmbedder(t *testing.T) {
	system, err := Open(context.Background(), Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(system.Close)

	hits, err := system.SemanticSearch(context.Background(), "anything", 5, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestConnectionsUnknownIdentifier(t *testing.T) {
	system, _ := setupSystem(t)

	sub, err := system.Connections(context.Background(), "does-not-exist", 2)
	require.NoError(t, err)
	assert.Empty(t, sub.Nodes)
	assert.Empty(t, sub.Edges)
}
