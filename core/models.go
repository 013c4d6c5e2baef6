package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a deterministic fingerprint for normalized records.
// It is derived from record content so that re-ingesting the same
// source table produces the same IDs (duplicate-table reprocessing
// is idempotent-detectable downstream).
type ID uint64

// IDFromContent generates a deterministic ID from record content using
// BLAKE2b hashing. Identical content always produces the same ID.
func IDFromContent(parts ...string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RecordKind identifies the normalized output type of an extraction pass.
type RecordKind string

const (
	// KindCall is a call-log record.
	KindCall RecordKind = "call"
	// KindChat is a chat-message record.
	KindChat RecordKind = "chat"
	// KindContact is a phonebook record.
	KindContact RecordKind = "contact"
)

// Kinds lists all record kinds in canonical order.
func Kinds() []RecordKind {
	return []RecordKind{KindCall, KindChat, KindContact}
}

// CallRecord is a normalized call-log entry.
// Receiver is nil when the source schema only carries a single number
// column and direction cannot be derived.
type CallRecord struct {
	Caller      *string
	Receiver    *string
	CallType    string // "unknown" when the source does not carry a type
	Duration    int64  // seconds, never negative
	Timestamp   *time.Time
	SourceTable string
}

// Fingerprint returns the content-hash ID of the record.
func (r *CallRecord) Fingerprint() ID {
	return IDFromContent(string(KindCall), r.SourceTable,
		strOrEmpty(r.Caller), strOrEmpty(r.Receiver), r.CallType, tsKey(r.Timestamp))
}

// ChatRecord is a normalized chat-message entry.
type ChatRecord struct {
	App         string
	Sender      *string
	Receiver    *string
	Content     string // required; a table without a text column never qualifies
	Timestamp   *time.Time
	MessageType string // always "text" from heuristic extraction
	Deleted     bool   // always false from heuristic extraction
	SourceTable string
}

// Fingerprint returns the content-hash ID of the record.
func (r *ChatRecord) Fingerprint() ID {
	return IDFromContent(string(KindChat), r.SourceTable,
		strOrEmpty(r.Sender), strOrEmpty(r.Receiver), r.Content, tsKey(r.Timestamp))
}

// ContactRecord is a normalized phonebook entry.
// Phone and email lists hold at most one entry each under single-column
// extraction; blank source values are excluded rather than stored empty.
type ContactRecord struct {
	Name           string
	PhoneNumbers   []string
	EmailAddresses []string
	SourceTable    string
}

// Fingerprint returns the content-hash ID of the record.
func (r *ContactRecord) Fingerprint() ID {
	parts := append([]string{string(KindContact), r.SourceTable, r.Name}, r.PhoneNumbers...)
	parts = append(parts, r.EmailAddresses...)
	return IDFromContent(parts...)
}

// RecordSet aggregates the records produced by one extraction pass,
// keyed by kind in per-kind insertion order. It is owned by the caller
// across the extraction/ingestion boundary; ingestion only reads it.
type RecordSet struct {
	CaseID         string
	InvestigatorID string
	Calls          []*CallRecord
	Chats          []*ChatRecord
	Contacts       []*ContactRecord
}

// NewRecordSet creates an empty record set for a case.
func NewRecordSet(caseID, investigatorID string) *RecordSet {
	return &RecordSet{CaseID: caseID, InvestigatorID: investigatorID}
}

// Counts returns the number of records per kind.
func (rs *RecordSet) Counts() map[RecordKind]int {
	return map[RecordKind]int{
		KindCall:    len(rs.Calls),
		KindChat:    len(rs.Chats),
		KindContact: len(rs.Contacts),
	}
}

// Total returns the total number of records across all kinds.
func (rs *RecordSet) Total() int {
	return len(rs.Calls) + len(rs.Chats) + len(rs.Contacts)
}

// StringPtr returns a pointer to s. Convenience for nullable fields.
func StringPtr(s string) *string {
	return &s
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func tsKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
