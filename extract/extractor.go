package extract

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dumpsift/dumpsift/core"
	"github.com/dumpsift/dumpsift/source"
)

// TableResult is the typed outcome of running one extractor against
// one candidate table: either success with a record count, or a skip
// with its cause. Ineligible tables produce no result at all.
type TableResult struct {
	Table   string
	Kind    core.RecordKind
	Records int
	Err     error
}

// Skipped reports whether the table was skipped due to a local
// extraction failure.
func (r TableResult) Skipped() bool { return r.Err != nil }

// sortedTables returns the catalog's table names in lexical order so
// extraction output is reproducible regardless of catalog map order.
func sortedTables(catalog source.Catalog) []string {
	tables := make([]string, 0, len(catalog))
	for table := range catalog {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	return tables
}

// asString converts a raw cell value to a nullable string. Numeric
// identifiers are common in dump schemas and are preserved as text.
func asString(value any) *string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return core.StringPtr(v)
	case []byte:
		return core.StringPtr(string(v))
	case int64:
		return core.StringPtr(strconv.FormatInt(v, 10))
	case float64:
		return core.StringPtr(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		return core.StringPtr(strconv.FormatBool(v))
	default:
		return core.StringPtr(fmt.Sprint(v))
	}
}

// coerceString converts a raw cell value to a plain string, with empty
// string for absent values.
func coerceString(value any) string {
	s := asString(value)
	if s == nil {
		return ""
	}
	return *s
}

// coerceDuration converts a raw cell value to a non-negative duration
// in seconds. Absent and unparseable values become 0.
func coerceDuration(value any) int64 {
	var d int64
	switch v := value.(type) {
	case nil:
		return 0
	case int64:
		d = v
	case int:
		d = int64(v)
	case float64:
		d = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		d = parsed
	case []byte:
		parsed, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0
		}
		d = parsed
	default:
		return 0
	}
	if d < 0 {
		return 0
	}
	return d
}

// coerceCallType converts a raw cell value to a call-type label with
// the documented "unknown" default.
func coerceCallType(value any) string {
	if value == nil {
		return "unknown"
	}
	return coerceString(value)
}

// scanRow reads the current row into a slice of raw values.
func scanRow(rows source.Rows, width int) ([]any, error) {
	values := make([]any, width)
	ptrs := make([]any, width)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return values, nil
}
