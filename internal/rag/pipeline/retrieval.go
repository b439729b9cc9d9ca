package pipeline

import (
	"context"
	"fmt"

	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/schema"
	"github.com/docuchat-ai/docuchat/pkg/logger"
)

// RetrievalPipeline retrieves the chunks most relevant to a query. The query
// is embedded with the same model used at index-build time; mixing embedding
// spaces would silently break retrieval.
type RetrievalPipeline struct {
	embedder    interfaces.EmbeddingModel
	vectorStore interfaces.VectorStore
	docStore    interfaces.DocStore
	log         *logger.Logger
}

// NewRetrievalPipeline creates a new RetrievalPipeline.
func NewRetrievalPipeline(
	embedder interfaces.EmbeddingModel,
	vectorStore interfaces.VectorStore,
	docStore interfaces.DocStore,
	log *logger.Logger,
) *RetrievalPipeline {
	return &RetrievalPipeline{
		embedder:    embedder,
		vectorStore: vectorStore,
		docStore:    docStore,
		log:         log,
	}
}

// Run embeds the query, fetches the topK nearest chunks from the vector
// store, and enriches them with full text from the doc store, preserving the
// similarity ordering.
func (p *RetrievalPipeline) Run(ctx context.Context, query string, topK int) ([]*schema.Document, error) {
	queryEmbeddings, err := p.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding service: %w", err)
	}
	if len(queryEmbeddings) == 0 {
		return nil, fmt.Errorf("embedding service: no vector returned for query")
	}

	retrieved, err := p.vectorStore.Query(ctx, queryEmbeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}
	if len(retrieved) == 0 {
		p.log.Info("No chunks found for the query")
		return nil, nil
	}

	ids := make([]string, len(retrieved))
	for i, doc := range retrieved {
		ids[i] = doc.ID
	}
	fullDocs, err := p.docStore.Get(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get chunks from doc store: %w", err)
	}

	final := make([]*schema.Document, 0, len(retrieved))
	for _, hit := range retrieved {
		full, ok := fullDocs[hit.ID]
		if !ok {
			p.log.Warn(fmt.Sprintf("Chunk %s missing from doc store", hit.ID))
			continue
		}
		if score, ok := hit.Metadata[schema.MetadataKeyScore]; ok {
			if full.Metadata == nil {
				full.Metadata = make(map[string]interface{})
			}
			full.Metadata[schema.MetadataKeyScore] = score
		}
		final = append(final, full)
	}

	p.log.Info(fmt.Sprintf("Retrieved %d chunks for query", len(final)))
	return final, nil
}
