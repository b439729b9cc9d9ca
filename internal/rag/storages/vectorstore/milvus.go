package vectorstore

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/docuchat-ai/docuchat/internal/database/milvus"
	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/schema"
	"github.com/docuchat-ai/docuchat/pkg/logger"
)

const (
	fieldID        = "id"
	fieldSource    = "source"
	fieldEmbedding = "embedding"
)

// MilvusStore is an adapter over the Milvus client implementing the
// VectorStore interface. Chunk text stays in the DocStore; Milvus holds the
// id, the source file name and the vector.
type MilvusStore struct {
	client *milvus.Client
	log    *logger.Logger
}

// NewMilvusStore creates a MilvusStore, bootstrapping the collection when it
// does not exist yet.
func NewMilvusStore(ctx context.Context, client *milvus.Client, log *logger.Logger) (*MilvusStore, error) {
	if client == nil || client.Client == nil {
		return nil, fmt.Errorf("milvus client is not initialized")
	}
	if err := client.EnsureCollection(ctx); err != nil {
		return nil, err
	}
	return &MilvusStore{client: client, log: log}, nil
}

// Add inserts documents into the collection, one row per chunk.
func (s *MilvusStore) Add(ctx context.Context, docs []*schema.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, len(docs))
	sources := make([]string, len(docs))
	embeddings := make([][]float32, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
		sources[i] = doc.Source()
		embeddings[i] = doc.Embedding
	}

	idCol := entity.NewColumnVarChar(fieldID, ids)
	sourceCol := entity.NewColumnVarChar(fieldSource, sources)
	embeddingCol := entity.NewColumnFloatVector(fieldEmbedding, len(embeddings[0]), embeddings)

	collection := s.client.Config.CollectionName
	s.log.Info(fmt.Sprintf("Inserting %d chunks into Milvus collection %q", len(docs), collection))
	if _, err := s.client.Client.Insert(ctx, collection, "", idCol, sourceCol, embeddingCol); err != nil {
		return fmt.Errorf("insert into milvus: %w", err)
	}
	if err := s.client.Client.Flush(ctx, collection, false); err != nil {
		return fmt.Errorf("flush milvus collection: %w", err)
	}
	return nil
}

// Query performs a vector search and returns chunk IDs with scores and source
// names; the caller enriches them with text from the DocStore.
func (s *MilvusStore) Query(ctx context.Context, embedding []float32, topK int) ([]*schema.Document, error) {
	collection := s.client.Config.CollectionName

	searchParams, err := entity.NewIndexIvfFlatSearchParam(10)
	if err != nil {
		return nil, fmt.Errorf("build search params: %w", err)
	}

	results, err := s.client.Client.Search(
		ctx, collection, nil, "",
		[]string{fieldID, fieldSource},
		[]entity.Vector{entity.FloatVector(embedding)},
		fieldEmbedding,
		entity.MetricType(s.client.Config.MetricType),
		topK, searchParams,
	)
	if err != nil {
		return nil, fmt.Errorf("search milvus: %w", err)
	}

	var docs []*schema.Document
	for _, res := range results {
		var idData, sourceData []string
		for _, field := range res.Fields {
			switch col := field.(type) {
			case *entity.ColumnVarChar:
				switch col.Name() {
				case fieldID:
					idData = col.Data()
				case fieldSource:
					sourceData = col.Data()
				}
			}
		}
		if idData == nil {
			s.log.Warn("Search result is missing the id field, skipping")
			continue
		}

		for i := 0; i < res.ResultCount; i++ {
			doc := &schema.Document{
				ID: idData[i],
				Metadata: map[string]interface{}{
					schema.MetadataKeyScore: float64(res.Scores[i]),
				},
			}
			if sourceData != nil {
				doc.Metadata[schema.MetadataKeySource] = sourceData[i]
			}
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

// Clear drops the collection and bootstraps an empty one, so the next Add
// starts from scratch.
func (s *MilvusStore) Clear(ctx context.Context) error {
	if err := s.client.DropCollection(ctx); err != nil {
		return err
	}
	return s.client.EnsureCollection(ctx)
}

var _ interfaces.VectorStore = (*MilvusStore)(nil)
