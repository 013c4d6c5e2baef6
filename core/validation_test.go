package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCallRecord(t *testing.T) {
	valid := &CallRecord{CallType: "unknown", Duration: 10, SourceTable: "calls"}
	assert.NoError(t, ValidateCallRecord(valid))

	// Receiver may be absent; single-number schemas cannot resolve it.
	assert.NoError(t, ValidateCallRecord(&CallRecord{CallType: "unknown", SourceTable: "calls"}))

	assert.ErrorIs(t, ValidateCallRecord(nil), ErrInvalidCallRecord)

	noProvenance := &CallRecord{CallType: "unknown"}
	assert.ErrorIs(t, ValidateCallRecord(noProvenance), ErrMissingProvenance)

	negative := &CallRecord{CallType: "unknown", Duration: -1, SourceTable: "calls"}
	assert.ErrorIs(t, ValidateCallRecord(negative), ErrNegativeDuration)
}

func TestValidateChatRecord(t *testing.T) {
	valid := &ChatRecord{Content: "hello", SourceTable: "messages"}
	assert.NoError(t, ValidateChatRecord(valid))

	assert.ErrorIs(t, ValidateChatRecord(nil), ErrInvalidChatRecord)

	empty := &ChatRecord{SourceTable: "messages"}
	assert.ErrorIs(t, ValidateChatRecord(empty), ErrEmptyContent)

	noProvenance := &ChatRecord{Content: "hello"}
	assert.ErrorIs(t, ValidateChatRecord(noProvenance), ErrMissingProvenance)
}

func TestValidateContactRecord(t *testing.T) {
	valid := &ContactRecord{Name: "Alice", SourceTable: "contacts"}
	assert.NoError(t, ValidateContactRecord(valid))

	assert.ErrorIs(t, ValidateContactRecord(nil), ErrInvalidContactRecord)

	unnamed := &ContactRecord{SourceTable: "contacts"}
	assert.ErrorIs(t, ValidateContactRecord(unnamed), ErrEmptyName)

	noProvenance := &ContactRecord{Name: "Alice"}
	assert.ErrorIs(t, ValidateContactRecord(noProvenance), ErrMissingProvenance)
}
