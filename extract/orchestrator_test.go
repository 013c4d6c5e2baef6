package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumpsift/dumpsift/source"
)

func TestOrchestratorDualRoleTable(t *testing.T) {
	// A call log with a text column qualifies for both extractors;
	// classification is independent per record kind.
	src := &fakeSource{
		catalog: source.Catalog{
			"comm": {"caller", "receiver", "duration", "body", "date"},
		},
		rows: map[string][]map[string]any{
			"comm": {
				{"caller": "111", "receiver": "222", "duration": int64(12),
					"body": "voicemail transcript", "date": int64(1600000000)},
			},
		},
	}

	result, err := NewOrchestrator().Extract(context.Background(), src, "case-1", "inv-1")
	require.NoError(t, err)

	assert.Len(t, result.Set.Calls, 1)
	assert.Len(t, result.Set.Chats, 1)
	assert.Len(t, result.Tables, 2)
	assert.Empty(t, result.Skipped())
}

func TestOrchestratorMalformedTableDoesNotAbortPass(t *testing.T) {
	src := &fakeSource{
		catalog: source.Catalog{
			"corrupt":  {"message_text"},
			"messages": {"message_text"},
			"contacts": {"display_name", "phone_number"},
		},
		rows: map[string][]map[string]any{
			"messages": {{"message_text": "still extracted"}},
			"contacts": {{"display_name": "Alice", "phone_number": "555-0100"}},
		},
		queryErr: map[string]error{"corrupt": errors.New("database disk image is malformed")},
	}

	result, err := NewOrchestrator().Extract(context.Background(), src, "case-1", "inv-1")
	require.NoError(t, err)

	assert.Len(t, result.Set.Chats, 1)
	assert.Len(t, result.Set.Contacts, 1)

	skipped := result.Skipped()
	require.Len(t, skipped, 1)
	assert.Equal(t, "corrupt", skipped[0].Table)
	assert.Error(t, skipped[0].Err)
}

func TestOrchestratorCatalogFailureIsFatal(t *testing.T) {
	src := &fakeSource{
		catalogErr: &source.OpenError{Path: "/evidence/dump.db", Err: errors.New("file is not a database")},
	}

	result, err := NewOrchestrator().Extract(context.Background(), src, "case-1", "inv-1")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, source.ErrSourceOpen)
}

func TestOrchestratorEmptyCatalog(t *testing.T) {
	src := &fakeSource{catalog: source.Catalog{}}

	result, err := NewOrchestrator().Extract(context.Background(), src, "case-1", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Set.Total())
	assert.Empty(t, result.Tables)
}
