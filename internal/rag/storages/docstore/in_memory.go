package docstore

import (
	"context"
	"sync"

	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

// InMemoryDocStore is a thread-safe, in-memory implementation of the DocStore
// interface. It holds the full text of every indexed chunk for the lifetime of
// one session and is discarded wholesale on rebuild.
type InMemoryDocStore struct {
	mu   sync.RWMutex
	docs map[string]*schema.Document
}

// NewInMemoryDocStore creates a new instance of InMemoryDocStore.
func NewInMemoryDocStore() *InMemoryDocStore {
	return &InMemoryDocStore{
		docs: make(map[string]*schema.Document),
	}
}

// Add adds a map of documents to the store.
func (s *InMemoryDocStore) Add(ctx context.Context, docs map[string]*schema.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, doc := range docs {
		s.docs[id] = doc
	}
	return nil
}

// Get retrieves a map of documents from the store by their IDs. Missing IDs
// are simply absent from the result.
func (s *InMemoryDocStore) Get(ctx context.Context, ids []string) (map[string]*schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*schema.Document)
	for _, id := range ids {
		if doc, ok := s.docs[id]; ok {
			result[id] = doc
		}
	}
	return result, nil
}

// Clear removes every document from the store.
func (s *InMemoryDocStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = make(map[string]*schema.Document)
	return nil
}

var _ interfaces.DocStore = (*InMemoryDocStore)(nil)
