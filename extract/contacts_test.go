package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumpsift/dumpsift/core"
	"github.com/dumpsift/dumpsift/source"
)

func TestContactExtractorFullSchema(t *testing.T) {
	src := &fakeSource{
		catalog: source.Catalog{
			"contacts": {"display_name", "phone_number", "email_address"},
		},
		rows: map[string][]map[string]any{
			"contacts": {
				{"display_name": "Alice", "phone_number": "555-0100", "email_address": "alice@example.com"},
			},
		},
	}

	set := core.NewRecordSet("case-1", "inv-1")
	results := NewContactExtractor(nil).Extract(context.Background(), src, src.catalog, set)

	require.Len(t, results, 1)
	require.Len(t, set.Contacts, 1)
	record := set.Contacts[0]
	assert.Equal(t, "Alice", record.Name)
	assert.Equal(t, []string{"555-0100"}, record.PhoneNumbers)
	assert.Equal(t, []string{"alice@example.com"}, record.EmailAddresses)
	assert.Equal(t, "contacts", record.SourceTable)
}

func TestContactExtractorExcludesBlankValues(t *testing.T) {
	src := &fakeSource{
		catalog: source.Catalog{
			"contacts": {"display_name", "phone_number", "email_address"},
		},
		rows: map[string][]map[string]any{
			"contacts": {
				{"display_name": "Bob", "phone_number": "   ", "email_address": nil},
			},
		},
	}

	set := core.NewRecordSet("case-1", "inv-1")
	NewContactExtractor(nil).Extract(context.Background(), src, src.catalog, set)

	require.Len(t, set.Contacts, 1)
	record := set.Contacts[0]
	assert.NotNil(t, record.PhoneNumbers)
	assert.Empty(t, record.PhoneNumbers, "blank phone is excluded, not stored empty")
	assert.NotNil(t, record.EmailAddresses)
	assert.Empty(t, record.EmailAddresses)
}

func TestContactExtractorNameOnlyTable(t *testing.T) {
	src := &fakeSource{
		catalog: source.Catalog{
			"people": {"name"},
		},
		rows: map[string][]map[string]any{
			"people": {
				{"name": "Carol"},
			},
		},
	}

	set := core.NewRecordSet("case-1", "inv-1")
	NewContactExtractor(nil).Extract(context.Background(), src, src.catalog, set)

	require.Len(t, set.Contacts, 1)
	assert.Equal(t, "Carol", set.Contacts[0].Name)
	assert.Empty(t, set.Contacts[0].PhoneNumbers)
}

func TestContactExtractorRequiresNameColumn(t *testing.T) {
	src := &fakeSource{
		catalog: source.Catalog{
			"numbers": {"phone_number"},
		},
	}

	set := core.NewRecordSet("case-1", "inv-1")
	results := NewContactExtractor(nil).Extract(context.Background(), src, src.catalog, set)

	assert.Empty(t, results)
	assert.Empty(t, set.Contacts)
}
