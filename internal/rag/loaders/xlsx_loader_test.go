package loaders

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

// writeWorkbook builds a small two-sheet workbook on disk for the loader to
// read back.
func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the sales table.
	if err := f.SetSheetName("Sheet1", "Sales"); err != nil {
		t.Fatalf("SetSheetName() error = %v", err)
	}
	rows := [][]interface{}{
		{"Region", "Revenue"},
		{"North", 1200},
		{"South", 800},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sales", cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}

	if _, err := f.NewSheet("Empty"); err != nil {
		t.Fatalf("NewSheet() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	return path
}

func TestXlsxLoader_Load(t *testing.T) {
	path := writeWorkbook(t)

	docs, err := NewXlsxLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// The empty sheet yields no document.
	if len(docs) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(docs))
	}

	doc := docs[0]
	if doc.Metadata[schema.MetadataKeySheetName] != "Sales" {
		t.Errorf("Expected sheet_name 'Sales', got %v", doc.Metadata[schema.MetadataKeySheetName])
	}
	if doc.Metadata[schema.MetadataKeySource] != "sales.xlsx" {
		t.Errorf("Expected source 'sales.xlsx', got %v", doc.Metadata[schema.MetadataKeySource])
	}

	lines := strings.Split(strings.TrimRight(doc.Text, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 table lines, got %d: %q", len(lines), doc.Text)
	}
	if lines[0] != "| Region | Revenue |" {
		t.Errorf("Header line = %q", lines[0])
	}
	if lines[1] != "| --- | --- |" {
		t.Errorf("Separator line = %q", lines[1])
	}
	if lines[2] != "| North | 1200 |" {
		t.Errorf("First data line = %q", lines[2])
	}
}

func TestXlsxLoader_Load_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.xlsx")
	if err := os.WriteFile(path, []byte("not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewXlsxLoader().Load(context.Background(), path); err == nil {
		t.Error("Expected error for a non-workbook file")
	}
}
