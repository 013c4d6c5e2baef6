package source

import "context"

// Catalog maps table names to their ordered column lists.
// It is built once per opened source and read-only for the lifetime
// of an extraction pass.
type Catalog map[string][]string

// Rows iterates over the result of a projection query.
// The shape mirrors database/sql rows so SQL-backed sources can wrap
// their native cursor directly.
type Rows interface {
	// Next advances to the next row, returning false when exhausted
	// or on error (check Err).
	Next() bool

	// Scan copies the current row's column values into dest, in the
	// projection's declared order.
	Scan(dest ...any) error

	// Err returns the error, if any, that terminated iteration.
	Err() error

	// Close releases the cursor. Safe to call more than once.
	Close() error
}

// Source is an opened forensic data source. Implementations expose the
// source's table catalog and projection queries; they make no promise
// that individual queries succeed, since embedded schemas are
// tool-specific and frequently malformed.
type Source interface {
	// Catalog returns the table-to-columns mapping for the source.
	// A failure here means the source cannot be queried at all and is
	// fatal to the whole extraction pass.
	Catalog(ctx context.Context) (Catalog, error)

	// Query executes a projection over one table and returns a row
	// cursor. Per-query failures are expected and handled locally by
	// extractors.
	Query(ctx context.Context, table string, columns []string) (Rows, error)

	// Close releases the underlying handle.
	Close() error
}
