package docstore

import (
	"context"
	"testing"

	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

func TestInMemoryDocStore_AddGet(t *testing.T) {
	store := NewInMemoryDocStore()
	ctx := context.Background()

	docs := map[string]*schema.Document{
		"a": {ID: "a", Text: "alpha"},
		"b": {ID: "b", Text: "beta"},
	}
	if err := store.Add(ctx, docs); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := store.Get(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(got))
	}
	if got["a"].Text != "alpha" {
		t.Errorf("Expected 'alpha', got %q", got["a"].Text)
	}
	if _, ok := got["missing"]; ok {
		t.Error("Missing ID should be absent from the result")
	}
}

func TestInMemoryDocStore_Clear(t *testing.T) {
	store := NewInMemoryDocStore()
	ctx := context.Background()

	if err := store.Add(ctx, map[string]*schema.Document{"a": {ID: "a"}}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	got, err := store.Get(ctx, []string{"a"})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty store after Clear, got %d documents", len(got))
	}
}
