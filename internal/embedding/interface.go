package embedding

import "context"

// Embedding is the interface every embedding provider implements. Vectors
// returned by one provider instance always have the same dimensionality.
type Embedding interface {
	// Embed generates the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embedding vectors for a batch of texts, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
