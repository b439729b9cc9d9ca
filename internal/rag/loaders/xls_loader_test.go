package loaders

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestXlsLoader_Load_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.xls")
	if err := os.WriteFile(path, []byte("not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewXlsLoader().Load(context.Background(), path); err == nil {
		t.Error("Expected error for a non-workbook file")
	}
}

func TestXlsLoader_Load_TruncatedCompoundFile(t *testing.T) {
	// The OLE compound file magic with nothing behind it must error
	// cleanly, not panic.
	magic := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	path := filepath.Join(t.TempDir(), "truncated.xls")
	if err := os.WriteFile(path, magic, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewXlsLoader().Load(context.Background(), path); err == nil {
		t.Error("Expected error for a truncated workbook")
	}
}

func TestRowEmpty(t *testing.T) {
	if !rowEmpty(nil) || !rowEmpty([]string{"", ""}) {
		t.Error("Expected blank rows to count as empty")
	}
	if rowEmpty([]string{"", "x"}) {
		t.Error("Expected a row with content to count as non-empty")
	}
}
