package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

// MemoryStore is an in-memory implementation of the VectorStore interface
// using cosine similarity. The index lives for one session and is rebuilt on
// every load action, so there is no incremental update or eviction.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []memoryEntry
	dim     int
}

type memoryEntry struct {
	doc  *schema.Document
	norm float64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add inserts documents with their embeddings. Every embedding must have the
// same dimensionality as the first one inserted.
func (s *MemoryStore) Add(ctx context.Context, docs []*schema.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			return fmt.Errorf("document %s has no embedding", doc.ID)
		}
		if s.dim == 0 {
			s.dim = len(doc.Embedding)
		} else if len(doc.Embedding) != s.dim {
			return fmt.Errorf("embedding dimension mismatch: index has %d, document %s has %d",
				s.dim, doc.ID, len(doc.Embedding))
		}
		s.entries = append(s.entries, memoryEntry{
			doc:  doc,
			norm: vectorNorm(doc.Embedding),
		})
	}
	return nil
}

// Query returns up to topK documents nearest to the given embedding by cosine
// similarity, most similar first. Each result carries its score in metadata.
func (s *MemoryStore) Query(ctx context.Context, embedding []float32, topK int) ([]*schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return nil, nil
	}
	if len(embedding) != s.dim {
		return nil, fmt.Errorf("query embedding dimension mismatch: index has %d, query has %d",
			s.dim, len(embedding))
	}

	queryNorm := vectorNorm(embedding)

	type scored struct {
		doc   *schema.Document
		score float64
	}
	results := make([]scored, 0, len(s.entries))
	for _, entry := range s.entries {
		results = append(results, scored{
			doc:   entry.doc,
			score: cosine(embedding, entry.doc.Embedding, queryNorm, entry.norm),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if topK > len(results) {
		topK = len(results)
	}
	out := make([]*schema.Document, 0, topK)
	for _, r := range results[:topK] {
		doc := &schema.Document{
			ID:        r.doc.ID,
			Text:      r.doc.Text,
			Embedding: r.doc.Embedding,
			Metadata:  make(map[string]interface{}, len(r.doc.Metadata)+1),
		}
		for k, v := range r.doc.Metadata {
			doc.Metadata[k] = v
		}
		doc.Metadata[schema.MetadataKeyScore] = r.score
		out = append(out, doc)
	}
	return out, nil
}

// Clear drops every entry and resets the dimensionality.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.dim = 0
	return nil
}

// Len returns the number of indexed entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}

var _ interfaces.VectorStore = (*MemoryStore)(nil)
