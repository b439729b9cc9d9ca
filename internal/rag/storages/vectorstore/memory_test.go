package vectorstore

import (
	"context"
	"testing"

	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

func vecDoc(id string, embedding []float32) *schema.Document {
	return &schema.Document{ID: id, Text: id, Embedding: embedding}
}

func TestMemoryStore_QueryOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Add(ctx, []*schema.Document{
		vecDoc("east", []float32{1, 0}),
		vecDoc("north", []float32{0, 1}),
		vecDoc("northeast", []float32{1, 1}),
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := store.Query(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(got))
	}
	if got[0].ID != "east" {
		t.Errorf("Expected 'east' first, got %q", got[0].ID)
	}
	if got[1].ID != "northeast" {
		t.Errorf("Expected 'northeast' second, got %q", got[1].ID)
	}

	score, ok := got[0].Metadata[schema.MetadataKeyScore].(float64)
	if !ok {
		t.Fatal("Expected a float64 score in metadata")
	}
	if score < 0.999 {
		t.Errorf("Expected identical vectors to score ~1, got %f", score)
	}
}

func TestMemoryStore_TopKClamped(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Add(ctx, []*schema.Document{vecDoc("only", []float32{1, 0})}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := store.Query(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Expected topK clamped to 1 result, got %d", len(got))
	}
}

func TestMemoryStore_DimensionMismatch(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Add(ctx, []*schema.Document{vecDoc("a", []float32{1, 0, 0})}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := store.Add(ctx, []*schema.Document{vecDoc("b", []float32{1, 0})}); err == nil {
		t.Error("Expected error adding a vector of different dimensionality")
	}
	if _, err := store.Query(ctx, []float32{1, 0}, 1); err == nil {
		t.Error("Expected error querying with a vector of different dimensionality")
	}
	if err := store.Add(ctx, []*schema.Document{{ID: "c", Text: "no vector"}}); err == nil {
		t.Error("Expected error adding a document without an embedding")
	}
}

func TestMemoryStore_QueryDoesNotMutateStoredDocs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	stored := vecDoc("a", []float32{1, 0})
	stored.Metadata = map[string]interface{}{"source": "a.pdf"}
	if err := store.Add(ctx, []*schema.Document{stored}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := store.Query(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	got[0].Metadata["marker"] = true

	if _, leaked := stored.Metadata["marker"]; leaked {
		t.Error("Query results share metadata with stored documents")
	}
	if _, scored := stored.Metadata[schema.MetadataKeyScore]; scored {
		t.Error("Query wrote the score into the stored document")
	}
}

func TestMemoryStore_ClearResetsDimension(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Add(ctx, []*schema.Document{vecDoc("a", []float32{1, 0, 0})}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store after Clear, got %d entries", store.Len())
	}

	// A different dimensionality is fine after a reset.
	if err := store.Add(ctx, []*schema.Document{vecDoc("b", []float32{1, 0})}); err != nil {
		t.Errorf("Add() after Clear error = %v", err)
	}
}

func TestMemoryStore_EmptyQuery(t *testing.T) {
	store := NewMemoryStore()

	got, err := store.Query(context.Background(), []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil results from an empty store, got %v", got)
	}
}
