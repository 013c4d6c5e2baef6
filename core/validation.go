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


package core

import "fmt"

// ValidateCallRecord validates a CallRecord according to domain rules.
//
// Validation rules:
//   - SourceTable must be set (provenance invariant)
//   - Duration must not be negative
//
// NOT validated:
//   - Caller/Receiver (both may be absent for ambiguous schemas)
//   - Timestamp (absent when the source carries no usable encoding)
func ValidateCallRecord(record *CallRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidCallRecord)
	}

	if record.SourceTable == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCallRecord, ErrMissingProvenance)
	}

	if record.Duration < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCallRecord, ErrNegativeDuration)
	}

	return nil
}

// ValidateChatRecord validates a ChatRecord according to domain rules.
//
// Validation rules:
//   - Content must not be empty (tables without a text column never qualify)
//   - SourceTable must be set (provenance invariant)
func ValidateChatRecord(record *ChatRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidChatRecord)
	}

	if record.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChatRecord, ErrEmptyContent)
	}

	if record.SourceTable == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChatRecord, ErrMissingProvenance)
	}

	return nil
}

// ValidateContactRecord validates a ContactRecord according to domain rules.
//
// Validation rules:
//   - Name must not be empty (tables without a name column never qualify)
//   - SourceTable must be set (provenance invariant)
func ValidateContactRecord(record *ContactRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidContactRecord)
	}

	if record.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContactRecord, ErrEmptyName)
	}

	if record.SourceTable == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContactRecord, ErrMissingProvenance)
	}

	return nil
}
