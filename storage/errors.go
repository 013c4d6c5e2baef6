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


package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable indicates the requested store never
	// connected or has been closed.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnknownStore indicates a store name with no registered dialer.
	ErrUnknownStore = errors.New("unknown store")

	// ErrAlreadyConnecting indicates a connect attempt while another
	// is in flight for the same store.
	ErrAlreadyConnecting = errors.New("store connect already in progress")

	// ErrInvalidMaxAttempts indicates a retry configuration below one
	// attempt.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)

// ConnectError reports retry exhaustion while connecting one store.
// It is local to that store: ConnectAll absorbs it into a warning and
// leaves the store unavailable instead of failing.
type ConnectError struct {
	Store    StoreName
	Attempts int
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connecting %s store failed after %d attempts: %v", e.Store, e.Attempts, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }
