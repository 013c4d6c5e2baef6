package extract

import (
	"context"

	"github.com/dumpsift/dumpsift/source"
)

// fakeRows implements source.Rows over in-memory projected rows.
type fakeRows struct {
	rows [][]any
	cur  []any
	idx  int
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.cur = r.rows[r.idx]
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	for i, d := range dest {
		*(d.(*any)) = r.cur[i]
	}
	return nil
}

func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Close() error { return nil }

// fakeSource implements source.Source over in-memory tables. Row maps
// are keyed by lower-cased column name, matching what the extractors
// project.
type fakeSource struct {
	catalog    source.Catalog
	rows       map[string][]map[string]any
	queryErr   map[string]error
	catalogErr error
}

func (s *fakeSource) Catalog(ctx context.Context) (source.Catalog, error) {
	if s.catalogErr != nil {
		return nil, s.catalogErr
	}
	return s.catalog, nil
}

func (s *fakeSource) Query(ctx context.Context, table string, columns []string) (source.Rows, error) {
	if err := s.queryErr[table]; err != nil {
		return nil, err
	}
	projected := make([][]any, 0, len(s.rows[table]))
	for _, row := range s.rows[table] {
		values := make([]any, len(columns))
		for i, column := range columns {
			values[i] = row[column]
		}
		projected = append(projected, values)
	}
	return &fakeRows{rows: projected}, nil
}

func (s *fakeSource) Close() error { return nil }
