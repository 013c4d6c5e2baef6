// Package core defines the normalized domain model shared across
// extraction and ingestion: record kinds, call/chat/contact records,
// record sets, and deterministic content-hash IDs.
//
// Every record carries its originating table name as provenance so
// downstream consumers can trace lineage back to the source schema.
// Records are immutable once produced; the only mutation is append
// into the RecordSet owned by the extraction pass that created it.
package core
