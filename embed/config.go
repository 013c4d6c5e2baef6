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


package embed

import (
	"errors"
	"strings"
)

// Config holds configuration for the embedding service.
type Config struct {
	// Host is the base URL of an OpenAI-compatible embedding API.
	// Example: "http://localhost:11434/v1" for a local server.
	Host string

	// Model is the embedding model identifier.
	// Example: "embeddinggemma", "text-embedding-3-small"
	Model string
}

// DefaultConfig returns a config pointed at a local embedding server.
func DefaultConfig() *Config {
	return &Config{
		Host:  "http://localhost:11434/v1",
		Model: "embeddinggemma",
	}
}

// Validate checks the config for required fields.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("embed config is nil")
	}
	if strings.TrimSpace(c.Host) == "" {
		return errors.New("embedding host is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("embedding model is required")
	}
	return nil
}
