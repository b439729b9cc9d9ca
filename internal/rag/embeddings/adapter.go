package embeddings

import (
	"context"

	"github.com/docuchat-ai/docuchat/internal/embedding"
	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
)

// Adapter bridges an embedding provider into the pipeline's EmbeddingModel
// interface, so the indexing and retrieval pipelines stay provider-agnostic.
type Adapter struct {
	provider embedding.Embedding
}

// NewAdapter wraps an embedding provider.
func NewAdapter(provider embedding.Embedding) *Adapter {
	return &Adapter{provider: provider}
}

// Embed generates one vector per input text.
func (a *Adapter) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return a.provider.EmbedBatch(ctx, texts)
}

var _ interfaces.EmbeddingModel = (*Adapter)(nil)
