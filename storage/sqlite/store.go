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
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dumpsift/dumpsift/core"
	"github.com/dumpsift/dumpsift/storage"
)

// Store is the structured record store, backed by SQLite. Schema
// creation is idempotent and runs on open, so a fresh database is
// usable immediately after the first connect.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.StructuredStore = (*Store)(nil)

// Open opens (or creates) the structured store at path and ensures the
// schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	// _journal_mode=WAL: better concurrency
	// _busy_timeout=5000: wait for locks instead of failing immediately
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open structured store: %w", err)
	}

	s := &Store{
		db:     db,
		logger: slog.Default().With("component", "structured-store"),
	}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS call_records (
		id INTEGER PRIMARY KEY,
		case_id TEXT NOT NULL,
		ordinal INTEGER NOT NULL,
		caller TEXT,
		receiver TEXT,
		call_type TEXT NOT NULL,
		duration INTEGER NOT NULL,
		ts INTEGER,
		source_table TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chat_records (
		id INTEGER PRIMARY KEY,
		case_id TEXT NOT NULL,
		ordinal INTEGER NOT NULL,
		app TEXT NOT NULL,
		sender TEXT,
		receiver TEXT,
		content TEXT NOT NULL,
		ts INTEGER,
		message_type TEXT NOT NULL,
		deleted INTEGER NOT NULL DEFAULT 0,
		source_table TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contact_records (
		id INTEGER PRIMARY KEY,
		case_id TEXT NOT NULL,
		ordinal INTEGER NOT NULL,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		source_table TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_call_records_case ON call_records(case_id);
	CREATE INDEX IF NOT EXISTS idx_chat_records_case ON chat_records(case_id);
	CREATE INDEX IF NOT EXISTS idx_contact_records_case ON contact_records(case_id);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Ping verifies the store answers a trivial read.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	return s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// WriteRecordSet persists all records of a set in one transaction,
// preserving per-kind insertion order via an ordinal column. Record
// fingerprints are the primary keys, so replaying a duplicate table
// replaces rather than duplicates.
func (s *Store) WriteRecordSet(ctx context.Context, set *core.RecordSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin write: %w", err)
	}
	defer tx.Rollback()

	if err := s.writeCalls(ctx, tx, set); err != nil {
		return err
	}
	if err := s.writeChats(ctx, tx, set); err != nil {
		return err
	}
	if err := s.writeContacts(ctx, tx, set); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit record set: %w", err)
	}

	s.logger.Debug("record set written", "case", set.CaseID, "records", set.Total())
	return nil
}

func (s *Store) writeCalls(ctx context.Context, tx *sql.Tx, set *core.RecordSet) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO call_records
		(id, case_id, ordinal, caller, receiver, call_type, duration, ts, source_table)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, record := range set.Calls {
		_, err := stmt.ExecContext(ctx, int64(record.Fingerprint()), set.CaseID, i,
			record.Caller, record.Receiver, record.CallType, record.Duration,
			epochOrNil(record.Timestamp), record.SourceTable)
		if err != nil {
			return fmt.Errorf("failed to write call record: %w", err)
		}
	}
	return nil
}

func (s *Store) writeChats(ctx context.Context, tx *sql.Tx, set *core.RecordSet) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO chat_records
		(id, case_id, ordinal, app, sender, receiver, content, ts, message_type, deleted, source_table)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, record := range set.Chats {
		_, err := stmt.ExecContext(ctx, int64(record.Fingerprint()), set.CaseID, i,
			record.App, record.Sender, record.Receiver, record.Content,
			epochOrNil(record.Timestamp), record.MessageType, record.Deleted, record.SourceTable)
		if err != nil {
			return fmt.Errorf("failed to write chat record: %w", err)
		}
	}
	return nil
}

func (s *Store) writeContacts(ctx context.Context, tx *sql.Tx, set *core.RecordSet) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO contact_records
		(id, case_id, ordinal, name, phone, email, source_table)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, record := range set.Contacts {
		_, err := stmt.ExecContext(ctx, int64(record.Fingerprint()), set.CaseID, i,
			record.Name, firstOrNil(record.PhoneNumbers), firstOrNil(record.EmailAddresses),
			record.SourceTable)
		if err != nil {
			return fmt.Errorf("failed to write contact record: %w", err)
		}
	}
	return nil
}

// CountRecords returns the stored record count per kind for a case.
func (s *Store) CountRecords(ctx context.Context, caseID string) (map[core.RecordKind]int64, error) {
	counts := make(map[core.RecordKind]int64, 3)
	tables := map[core.RecordKind]string{
		core.KindCall:    "call_records",
		core.KindChat:    "chat_records",
		core.KindContact: "contact_records",
	}
	for kind, table := range tables {
		var n int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE case_id = ?", table)
		if err := s.db.QueryRowContext(ctx, query, caseID).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[kind] = n
	}
	return counts, nil
}

func epochOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func firstOrNil(values []string) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}
