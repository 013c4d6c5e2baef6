package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumpsift/dumpsift/core"
)

func setupStore(t *testing.T) *Store {
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecordSet() *core.RecordSet {
	ts := time.Unix(1600000000, 0).UTC()
	set := core.NewRecordSet("case-1", "inv-1")
	set.Calls = append(set.Calls, &core.CallRecord{
		Caller:      core.StringPtr("111"),
		Receiver:    nil,
		CallType:    "unknown",
		Duration:    30,
		Timestamp:   &ts,
		SourceTable: "call_log",
	})
	set.Chats = append(set.Chats,
		&core.ChatRecord{
			App: "Chat", Sender: core.StringPtr("123"), Receiver: core.StringPtr("456"),
			Content: "Hello", Timestamp: &ts, MessageType: "text", SourceTable: "messages",
		},
		&core.ChatRecord{
			App: "Chat", Content: "orphan message", MessageType: "text", SourceTable: "messages",
		})
	set.Contacts = append(set.Contacts, &core.ContactRecord{
		Name:           "Alice",
		PhoneNumbers:   []string{"555-0100"},
		EmailAddresses: []string{},
		SourceTable:    "contacts",
	})
	return set
}

func TestStorePing(t *testing.T) {
	store := setupStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestWriteRecordSetAndCount(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteRecordSet(ctx, sampleRecordSet()))

	counts, err := store.CountRecords(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[core.KindCall])
	assert.Equal(t, int64(2), counts[core.KindChat])
	assert.Equal(t, int64(1), counts[core.KindContact])
}

func TestWriteRecordSetIsIdempotent(t *testing.T) {
	// Fingerprints are primary keys; replaying the same set must not
	// duplicate rows.
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteRecordSet(ctx, sampleRecordSet()))
	require.NoError(t, store.WriteRecordSet(ctx, sampleRecordSet()))

	counts, err := store.CountRecords(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[core.KindCall])
	assert.Equal(t, int64(2), counts[core.KindChat])
	assert.Equal(t, int64(1), counts[core.KindContact])
}

func TestCountRecordsUnknownCase(t *testing.T) {
	store := setupStore(t)

	counts, err := store.CountRecords(context.Background(), "no-such-case")
	require.NoError(t, err)
	for _, kind := range core.Kinds() {
		assert.Equal(t, int64(0), counts[kind])
	}
}
