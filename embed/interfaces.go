package embed

import "context"

// Embedder generates vector embeddings from text for semantic
// similarity search. The concrete model is a black box to the rest of
// the system; implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch,
	// returned in input order. Batching is more efficient than
	// repeated EmbedText calls.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
