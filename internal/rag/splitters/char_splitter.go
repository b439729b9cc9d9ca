package splitters

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

// CharSplitter implements the Splitter interface by cutting each document's
// text into fixed-size character windows. The trailing ChunkOverlap characters
// of one chunk are repeated at the head of the next. Chunks never span two
// input documents.
type CharSplitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewCharSplitter creates a new CharSplitter. ChunkOverlap must be smaller
// than ChunkSize.
func NewCharSplitter(chunkSize, chunkOverlap int) (*CharSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}
	return &CharSplitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}, nil
}

// Split splits each document independently into overlapping windows. A
// document shorter than the chunk size yields exactly one chunk equal to its
// text.
func (s *CharSplitter) Split(ctx context.Context, docs []*schema.Document) ([]*schema.Document, error) {
	var chunks []*schema.Document

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		runes := []rune(doc.Text)
		step := s.ChunkSize - s.ChunkOverlap
		chunkNumber := 0

		for start := 0; start == 0 || start < len(runes); start += step {
			end := start + s.ChunkSize
			if end > len(runes) {
				end = len(runes)
			}
			chunkNumber++

			chunk := &schema.Document{
				ID:       uuid.New().String(),
				Text:     string(runes[start:end]),
				Metadata: copyMetadata(doc.Metadata),
			}
			chunk.Metadata["original_doc_id"] = doc.ID
			chunk.Metadata["chunk_number"] = chunkNumber
			chunks = append(chunks, chunk)

			if end == len(runes) {
				break
			}
		}
	}

	return chunks, nil
}

// copyMetadata deep-copies the map so sibling chunks don't share it.
func copyMetadata(md map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}

var _ interfaces.Splitter = (*CharSplitter)(nil)
