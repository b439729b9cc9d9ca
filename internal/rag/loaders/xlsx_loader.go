package loaders

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

// XlsxLoader implements the Loader interface for reading Excel workbooks.
type XlsxLoader struct{}

// NewXlsxLoader creates a new XlsxLoader.
func NewXlsxLoader() *XlsxLoader {
	return &XlsxLoader{}
}

// Load reads a workbook, converting each non-empty sheet to a Markdown table.
// It returns a Document per sheet carrying the file name and sheet name.
func (l *XlsxLoader) Load(ctx context.Context, path string) ([]*schema.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var documents []*schema.Document
	for _, sheetName := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			// Skip sheets whose rows can't be read; the rest of the
			// workbook is still usable.
			continue
		}
		if len(rows) == 0 {
			continue
		}

		documents = append(documents, &schema.Document{
			ID:   uuid.New().String(),
			Text: sheetToMarkdown(rows),
			Metadata: map[string]interface{}{
				schema.MetadataKeySource:    filepath.Base(path),
				schema.MetadataKeySheetName: sheetName,
			},
		})
	}

	return documents, nil
}

// sheetToMarkdown renders sheet rows as a Markdown table, first row as header.
func sheetToMarkdown(rows [][]string) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(rows[0], " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(rows[0])) + "\n")
	for _, row := range rows[1:] {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return b.String()
}

var _ interfaces.Loader = (*XlsxLoader)(nil)
