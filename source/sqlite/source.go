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


package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dumpsift/dumpsift/source"
)

// Source is a SQLite-backed forensic data source. Device dumps embed
// SQLite databases with vendor-specific schemas; Source opens one
// read-only and exposes its catalog and projection queries.
type Source struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ source.Source = (*Source)(nil)

// Open opens the SQLite database at path. The file must already exist;
// a forensic source is never created on open.
func Open(path string) (*Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &source.OpenError{Path: path, Err: err}
	}

	// immutable=1: the dump is evidence, never written
	dsn := fmt.Sprintf("file:%s?immutable=1&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &source.OpenError{Path: path, Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &source.OpenError{Path: path, Err: err}
	}

	return &Source{
		db:     db,
		path:   path,
		logger: slog.Default().With("component", "sqlite-source", "path", path),
	}, nil
}

// Catalog interrogates sqlite_master and PRAGMA table_info to build the
// table-to-columns mapping, preserving each table's declared column order.
func (s *Source) Catalog(ctx context.Context) (source.Catalog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, &source.OpenError{Path: s.path, Err: err}
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &source.OpenError{Path: s.path, Err: err}
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &source.OpenError{Path: s.path, Err: err}
	}

	catalog := make(source.Catalog, len(tables))
	for _, table := range tables {
		columns, err := s.tableColumns(ctx, table)
		if err != nil {
			return nil, &source.OpenError{Path: s.path, Err: err}
		}
		catalog[table] = columns
	}

	s.logger.Debug("catalog built", "tables", len(catalog))
	return catalog, nil
}

func (s *Source) tableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// Query executes a projection over one table. Failures are returned to
// the caller for local handling; a malformed table must never abort the
// extraction pass.
func (s *Source) Query(ctx context.Context, table string, columns []string) (source.Rows, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("empty projection for table %s", table)
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), quoteIdent(table))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Close releases the database handle.
func (s *Source) Close() error {
	return s.db.Close()
}

// quoteIdent quotes a SQLite identifier. Table and column names come
// from untrusted dump schemas and may contain anything.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
