package loaders

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/extrame/xls"
	"github.com/google/uuid"

	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

// XlsLoader implements the Loader interface for legacy binary Excel
// workbooks (OLE compound files). Modern OOXML workbooks go through
// XlsxLoader instead.
type XlsLoader struct{}

// NewXlsLoader creates a new XlsLoader.
func NewXlsLoader() *XlsLoader {
	return &XlsLoader{}
}

// Load reads a legacy workbook, converting each non-empty sheet to a Markdown
// table. It returns a Document per sheet carrying the file name and sheet
// name, the same shape XlsxLoader produces.
func (l *XlsLoader) Load(ctx context.Context, path string) ([]*schema.Document, error) {
	workbook, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	var documents []*schema.Document
	for i := 0; i < workbook.NumSheets(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sheet := workbook.GetSheet(i)
		if sheet == nil {
			continue
		}

		rows := sheetRows(sheet)
		if len(rows) == 0 {
			continue
		}

		documents = append(documents, &schema.Document{
			ID:   uuid.New().String(),
			Text: sheetToMarkdown(rows),
			Metadata: map[string]interface{}{
				schema.MetadataKeySource:    filepath.Base(path),
				schema.MetadataKeySheetName: sheet.Name,
			},
		})
	}

	return documents, nil
}

// sheetRows extracts the sheet's cell values as strings. Missing rows inside
// the used range come back as empty slices so row numbering stays aligned.
func sheetRows(sheet *xls.WorkSheet) [][]string {
	var rows [][]string
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := sheet.Row(r)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		var cells []string
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}

	// Trim trailing empty rows; a sheet with no content at all yields nil.
	for len(rows) > 0 && rowEmpty(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func rowEmpty(cells []string) bool {
	for _, cell := range cells {
		if cell != "" {
			return false
		}
	}
	return true
}

var _ interfaces.Loader = (*XlsLoader)(nil)
