package loaders

import (
	"errors"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{"pdf", "report.pdf", false},
		{"xlsx", "budget.xlsx", false},
		{"legacy xls", "old.xls", false},
		{"uppercase extension", "REPORT.PDF", false},
		{"mixed case", "Budget.Xlsx", false},
		{"text file", "notes.txt", true},
		{"word document", "letter.docx", true},
		{"no extension", "README", true},
		{"pdf in the middle", "report.pdf.bak", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, err := ForFile(tt.file)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ForFile(%q) error = %v, want ErrUnsupportedFormat", tt.file, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForFile(%q) error = %v", tt.file, err)
			}
			if loader == nil {
				t.Errorf("ForFile(%q) returned nil loader", tt.file)
			}
		})
	}
}

func TestForFile_DistinguishesWorkbookGenerations(t *testing.T) {
	// Legacy .xls workbooks are OLE compound files; routing them to the
	// zip-based OOXML reader would make every valid .xls unparseable.
	loader, err := ForFile("budget.xls")
	if err != nil {
		t.Fatalf("ForFile(budget.xls) error = %v", err)
	}
	if _, ok := loader.(*XlsLoader); !ok {
		t.Errorf("ForFile(budget.xls) = %T, want *XlsLoader", loader)
	}

	loader, err = ForFile("budget.xlsx")
	if err != nil {
		t.Fatalf("ForFile(budget.xlsx) error = %v", err)
	}
	if _, ok := loader.(*XlsxLoader); !ok {
		t.Errorf("ForFile(budget.xlsx) = %T, want *XlsxLoader", loader)
	}
}

func TestSupported(t *testing.T) {
	if !Supported("a.pdf") || !Supported("b.xlsx") || !Supported("c.xls") {
		t.Error("Expected pdf/xlsx/xls to be supported")
	}
	if Supported("a.txt") || Supported("b") {
		t.Error("Expected txt and extensionless names to be unsupported")
	}
}
