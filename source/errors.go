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


package source

import (
	"errors"
	"fmt"
)

// ErrSourceOpen indicates the data source could not be opened or
// interrogated at catalog level. It is fatal to the whole extraction
// pass, unlike per-table query failures.
var ErrSourceOpen = errors.New("source open failed")

// OpenError wraps the cause of a catalog-level source failure.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("source open failed for %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Is reports ErrSourceOpen so callers can match the taxonomy sentinel.
func (e *OpenError) Is(target error) bool { return target == ErrSourceOpen }
