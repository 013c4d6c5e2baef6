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

import "errors"

// Domain validation errors
var (
	// ErrInvalidCallRecord indicates a CallRecord failed validation.
	ErrInvalidCallRecord = errors.New("invalid call record")

	// ErrInvalidChatRecord indicates a ChatRecord failed validation.
	ErrInvalidChatRecord = errors.New("invalid chat record")

	// ErrInvalidContactRecord indicates a ContactRecord failed validation.
	ErrInvalidContactRecord = errors.New("invalid contact record")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyName indicates the contact Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrNegativeDuration indicates a call duration below zero.
	ErrNegativeDuration = errors.New("duration cannot be negative")

	// ErrMissingProvenance indicates a record without a source table.
	ErrMissingProvenance = errors.New("source table cannot be empty")
)
