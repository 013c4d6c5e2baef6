package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dumpsift/dumpsift/core"
	"github.com/dumpsift/dumpsift/source"
)

// ContactExtractor recovers phonebook entries from any table carrying
// a name-role column. Phone and email columns are optional and
// contribute at most one value per record (first matching column only,
// no aggregation across candidates).
type ContactExtractor struct {
	logger *slog.Logger
}

// NewContactExtractor creates a contact extractor.
func NewContactExtractor(logger *slog.Logger) *ContactExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactExtractor{logger: logger.With("extractor", core.KindContact)}
}

// Extract scans every catalog table, extracting contact records from
// those with a name-bearing column. Per-table failures are recorded as
// skip results and never abort the pass.
func (e *ContactExtractor) Extract(ctx context.Context, src source.Source, catalog source.Catalog, set *core.RecordSet) []TableResult {
	var results []TableResult
	for _, table := range sortedTables(catalog) {
		roles := Classify(catalog[table])
		if _, ok := roles[RoleName]; !ok {
			continue // not a phonebook without a display name
		}

		count, err := e.extractTable(ctx, src, table, roles, set)
		if err != nil {
			e.logger.Warn("contact extraction failed, skipping table", "table", table, "err", err)
			results = append(results, TableResult{Table: table, Kind: core.KindContact, Err: err})
			continue
		}
		results = append(results, TableResult{Table: table, Kind: core.KindContact, Records: count})
	}
	return results
}

func (e *ContactExtractor) extractTable(ctx context.Context, src source.Source, table string, roles map[Role]string, set *core.RecordSet) (int, error) {
	phone, hasPhone := roles[RolePhone]
	email, hasEmail := roles[RoleEmail]

	projection := []string{roles[RoleName]}
	if hasPhone {
		projection = append(projection, phone)
	}
	if hasEmail {
		projection = append(projection, email)
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

		record := &core.ContactRecord{
			Name:           coerceString(values[0]),
			PhoneNumbers:   []string{},
			EmailAddresses: []string{},
			SourceTable:    table,
		}

		idx := 1
		if hasPhone {
			if v := presentValue(values[idx]); v != "" {
				record.PhoneNumbers = append(record.PhoneNumbers, v)
			}
			idx++
		}
		if hasEmail {
			if v := presentValue(values[idx]); v != "" {
				record.EmailAddresses = append(record.EmailAddresses, v)
			}
		}

		set.Contacts = append(set.Contacts, record)
		count++
	}
	return count, rows.Err()
}

// presentValue returns the cell's string form, or "" when the value is
// absent or blank. Blank values are excluded from contact lists rather
// than stored as empty entries.
func presentValue(value any) string {
	s := coerceString(value)
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
