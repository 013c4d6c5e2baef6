package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumpsift/dumpsift/core"
	"github.com/dumpsift/dumpsift/source"
)

func TestCallExtractorDirectionalMinimalSchema(t *testing.T) {
	// No type or date columns; the record must still come out.
	src := &fakeSource{
		catalog: source.Catalog{
			"calls": {"caller", "receiver", "duration"},
		},
		rows: map[string][]map[string]any{
			"calls": {
				{"caller": "111", "receiver": "222", "duration": int64(30)},
			},
		},
	}

	set := core.NewRecordSet("case-1", "inv-1")
	results := NewCallExtractor(nil).Extract(context.Background(), src, src.catalog, set)

	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Records)
	assert.False(t, results[0].Skipped())

	require.Len(t, set.Calls, 1)
	record := set.Calls[0]
	require.NotNil(t, record.Caller)
	require.NotNil(t, record.Receiver)
	assert.Equal(t, "111", *record.Caller)
	assert.Equal(t, "222", *record.Receiver)
	assert.Equal(t, int64(30), record.Duration)
	assert.Equal(t, "unknown", record.CallType)
	assert.Nil(t, record.Timestamp)
	assert.Equal(t, "calls", record.SourceTable)
}

func TestCallExtractorDirectionalFullSchema(t *testing.T) {
	src := &fakeSource{
		catalog: source.Catalog{
			"calls": {"caller", "receiver", "duration", "type", "date"},
		},
		rows: map[string][]map[string]any{
			"calls": {
				{"caller": "111", "receiver": "222", "duration": int64(-10),
					"type": "outgoing", "date": int64(1600000000000)},
			},
		},
	}

	set := core.NewRecordSet("case-1", "inv-1")
	NewCallExtractor(nil).Extract(context.Background(), src, src.catalog, set)

	require.Len(t, set.Calls, 1)
	record := set.Calls[0]
	assert.Equal(t, "outgoing", record.CallType)
	assert.Equal(t, int64(0), record.Duration, "negative durations clamp to zero")
	require.NotNil(t, record.Timestamp)
	assert.Equal(t, int64(1600000000), record.Timestamp.Unix())
}

func TestCallExtractorSingleNumberLeavesReceiverAbsent(t *testing.T) {
	src := &fakeSource{
		catalog: source.Catalog{
			"call_log": {"number", "type", "duration", "date"},
		},
		rows: map[string][]map[string]any{
			"call_log": {
				{"number": "0712345678", "type": int64(2), "duration": int64(45), "date": int64(1600000000)},
			},
		},
	}

	set := core.NewRecordSet("case-1", "inv-1")
	results := NewCallExtractor(nil).Extract(context.Background(), src, src.catalog, set)

	require.Len(t, results, 1)
	require.Len(t, set.Calls, 1)
	record := set.Calls[0]
	require.NotNil(t, record.Caller)
	assert.Equal(t, "0712345678", *record.Caller)
	assert.Nil(t, record.Receiver)
	assert.Equal(t, "2", record.CallType)
	assert.Equal(t, int64(45), record.Duration)
	require.NotNil(t, record.Timestamp)
}

func TestCallExtractorSkipsFailedTableAndContinues(t *testing.T) {
	queryErr := errors.New("malformed table")
	src := &fakeSource{
		catalog: source.Catalog{
			"broken": {"caller", "receiver", "duration"},
			"calls":  {"caller", "receiver", "duration"},
		},
		rows: map[string][]map[string]any{
			"calls": {
				{"caller": "111", "receiver": "222", "duration": int64(5)},
			},
		},
		queryErr: map[string]error{"broken": queryErr},
	}

	set := core.NewRecordSet("case-1", "inv-1")
	results := NewCallExtractor(nil).Extract(context.Background(), src, src.catalog, set)

	require.Len(t, results, 2)
	assert.True(t, results[0].Skipped())
	assert.ErrorIs(t, results[0].Err, queryErr)
	assert.Equal(t, "broken", results[0].Table)
	assert.Equal(t, 1, results[1].Records)
	assert.Len(t, set.Calls, 1)
}

func TestCallExtractorIgnoresIneligibleTables(t *testing.T) {
	src := &fakeSource{
		catalog: source.Catalog{
			"settings": {"key", "value"},
			"partial":  {"caller", "duration"},
		},
	}

	set := core.NewRecordSet("case-1", "inv-1")
	results := NewCallExtractor(nil).Extract(context.Background(), src, src.catalog, set)

	assert.Empty(t, results, "ineligible tables produce no result at all")
	assert.Empty(t, set.Calls)
}
