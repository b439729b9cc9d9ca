package loaders

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

// PdfLoader implements the Loader interface for reading PDF files.
type PdfLoader struct{}

// NewPdfLoader creates a new PdfLoader.
func NewPdfLoader() *PdfLoader {
	return &PdfLoader{}
}

// Load reads a PDF file, extracts the plain text of each page, and returns a
// Document per page carrying the file name and page label.
func (l *PdfLoader) Load(ctx context.Context, path string) ([]*schema.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var documents []*schema.Document
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract text from page %d: %w", i, err)
		}
		if text == "" {
			continue
		}

		documents = append(documents, &schema.Document{
			ID:   uuid.New().String(),
			Text: text,
			Metadata: map[string]interface{}{
				schema.MetadataKeySource:    filepath.Base(path),
				schema.MetadataKeyPageLabel: fmt.Sprintf("%d", i),
			},
		})
	}

	return documents, nil
}

var _ interfaces.Loader = (*PdfLoader)(nil)
