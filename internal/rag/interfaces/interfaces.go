package interfaces

import (
	"context"

	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

// Loader is the interface for parsing a file on disk into a list of
// Document fragments.
type Loader interface {
	Load(ctx context.Context, path string) ([]*schema.Document, error)
}

// Splitter is the interface for splitting a list of Documents into smaller chunks.
type Splitter interface {
	Split(ctx context.Context, docs []*schema.Document) ([]*schema.Document, error)
}

// DocStore is the interface for storing and retrieving document chunks by ID.
type DocStore interface {
	Add(ctx context.Context, docs map[string]*schema.Document) error
	Get(ctx context.Context, ids []string) (map[string]*schema.Document, error)
	Clear(ctx context.Context) error
}

// VectorStore is the interface for storing and querying document vectors.
// The similarity metric used by Query must match the one used at insert time.
type VectorStore interface {
	Add(ctx context.Context, docs []*schema.Document) error
	Query(ctx context.Context, embedding []float32, topK int) ([]*schema.Document, error)
	Clear(ctx context.Context) error
}

// EmbeddingModel is the interface for a text embedding model. Every vector
// returned within one session has the same dimensionality.
type EmbeddingModel interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// LLM is the interface for a generative model that produces an answer from a
// prompt. Implementations use deterministic decoding.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
