package vectorstore

import (
	"context"
	"testing"

	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

func TestRebuildStore_FailureBeforeAddKeepsPreviousVectors(t *testing.T) {
	ctx := context.Background()

	shared := NewMemoryStore()
	if err := shared.Add(ctx, []*schema.Document{vecDoc("old", []float32{1, 0})}); err != nil {
		t.Fatal(err)
	}

	// A load that dies before indexing (parse or embed failure) never
	// touches its rebuild store; the shared index must be intact.
	_ = NewRebuildStore(shared)
	if shared.Len() != 1 {
		t.Fatalf("Expected the previous vector to survive, got %d entries", shared.Len())
	}

	got, err := shared.Query(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "old" {
		t.Errorf("Previous index no longer answers, got %v", got)
	}
}

func TestRebuildStore_FirstAddReplacesPreviousVectors(t *testing.T) {
	ctx := context.Background()

	shared := NewMemoryStore()
	if err := shared.Add(ctx, []*schema.Document{vecDoc("old", []float32{1, 0})}); err != nil {
		t.Fatal(err)
	}

	rebuild := NewRebuildStore(shared)
	if err := rebuild.Add(ctx, []*schema.Document{vecDoc("new-a", []float32{0, 1})}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	// A second Add within the same build must not clear again.
	if err := rebuild.Add(ctx, []*schema.Document{vecDoc("new-b", []float32{0, 1})}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if shared.Len() != 2 {
		t.Fatalf("Expected only the new build's 2 vectors, got %d", shared.Len())
	}
	got, err := rebuild.Query(ctx, []float32{0, 1}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, doc := range got {
		if doc.ID == "old" {
			t.Error("Previous build's vector survived the rebuild")
		}
	}
}
