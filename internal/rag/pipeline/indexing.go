package pipeline

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/schema"
	"github.com/docuchat-ai/docuchat/pkg/logger"
)

// ErrEmptyCorpus signals that a load action produced no usable content, so
// there is nothing to index. The session stays in its previous state.
var ErrEmptyCorpus = errors.New("no content to index")

// IndexingPipeline orchestrates splitting, embedding and storing documents.
type IndexingPipeline struct {
	splitter    interfaces.Splitter
	embedder    interfaces.EmbeddingModel
	docStore    interfaces.DocStore
	vectorStore interfaces.VectorStore
	log         *logger.Logger
}

// NewIndexingPipeline creates a new IndexingPipeline.
func NewIndexingPipeline(
	splitter interfaces.Splitter,
	embedder interfaces.EmbeddingModel,
	docStore interfaces.DocStore,
	vectorStore interfaces.VectorStore,
	log *logger.Logger,
) *IndexingPipeline {
	return &IndexingPipeline{
		splitter:    splitter,
		embedder:    embedder,
		docStore:    docStore,
		vectorStore: vectorStore,
		log:         log,
	}
}

// Run splits the fragments into chunks, embeds every chunk and stores the
// results. It returns the number of chunks indexed; ErrEmptyCorpus when the
// fragments yield none.
func (p *IndexingPipeline) Run(ctx context.Context, fragments []*schema.Document) (int, error) {
	chunks, err := p.splitter.Split(ctx, fragments)
	if err != nil {
		return 0, fmt.Errorf("split documents: %w", err)
	}
	if len(chunks) == 0 {
		return 0, ErrEmptyCorpus
	}
	p.log.Info(fmt.Sprintf("Split %d fragments into %d chunks", len(fragments), len(chunks)))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	embeddings, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding service: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding service: returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}
	for i, chunk := range chunks {
		chunk.Embedding = embeddings[i]
	}
	p.log.Info(fmt.Sprintf("Embedded %d chunks", len(chunks)))

	// The same built chunk set goes to both stores; writing them
	// concurrently is safe because neither store reads the other.
	eg, gCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		chunkMap := make(map[string]*schema.Document, len(chunks))
		for _, chunk := range chunks {
			chunkMap[chunk.ID] = chunk
		}
		if err := p.docStore.Add(gCtx, chunkMap); err != nil {
			return fmt.Errorf("add chunks to doc store: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		if err := p.vectorStore.Add(gCtx, chunks); err != nil {
			return fmt.Errorf("add chunks to vector store: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return 0, err
	}

	p.log.Info(fmt.Sprintf("Indexed %d chunks", len(chunks)))
	return len(chunks), nil
}
