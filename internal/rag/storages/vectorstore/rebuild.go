package vectorstore

import (
	"context"
	"sync"

	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

// RebuildStore wraps a shared, persistent vector store for use in a
// rebuild-per-load flow. The underlying store is cleared lazily on the first
// Add of the new build rather than up front, so a load that fails before
// indexing (parse errors, embedding outage) leaves the previous vectors in
// place and the prior index keeps answering.
type RebuildStore struct {
	inner interfaces.VectorStore

	mu      sync.Mutex
	cleared bool
}

// NewRebuildStore wraps inner for one load action.
func NewRebuildStore(inner interfaces.VectorStore) *RebuildStore {
	return &RebuildStore{inner: inner}
}

// Add clears the underlying store the first time it is called, then inserts.
func (s *RebuildStore) Add(ctx context.Context, docs []*schema.Document) error {
	s.mu.Lock()
	if !s.cleared {
		if err := s.inner.Clear(ctx); err != nil {
			s.mu.Unlock()
			return err
		}
		s.cleared = true
	}
	s.mu.Unlock()

	return s.inner.Add(ctx, docs)
}

func (s *RebuildStore) Query(ctx context.Context, embedding []float32, topK int) ([]*schema.Document, error) {
	return s.inner.Query(ctx, embedding, topK)
}

func (s *RebuildStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.cleared = true
	s.mu.Unlock()
	return s.inner.Clear(ctx)
}

var _ interfaces.VectorStore = (*RebuildStore)(nil)
