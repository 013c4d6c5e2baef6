// Package embed defines the embedding capability consumed by vector
// ingestion and semantic search. The core treats the embedding model
// as an injected black box; subpackages provide an OpenAI-compatible
// client (embed/openai) and a deterministic test double (embed/mock).
package embed
