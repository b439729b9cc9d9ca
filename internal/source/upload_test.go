package source

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/docuchat-ai/docuchat/internal/rag/loaders"
)

// pdfBytes is the minimal prefix content sniffing recognizes as a PDF.
var pdfBytes = []byte("%PDF-1.4\n%%EOF\n")

func TestUploadSource_PutAndList(t *testing.T) {
	src := NewUploadSource()
	if src.Origin() != OriginUpload {
		t.Errorf("Origin() = %v", src.Origin())
	}

	if err := src.Put("b.pdf", pdfBytes); err != nil {
		t.Fatalf("Put(b.pdf) error = %v", err)
	}
	if err := src.Put("a.pdf", pdfBytes); err != nil {
		t.Fatalf("Put(a.pdf) error = %v", err)
	}

	files, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(files))
	}
	// Submission order, not lexical order.
	if files[0].Name != "b.pdf" || files[1].Name != "a.pdf" {
		t.Errorf("Expected submission order [b.pdf a.pdf], got [%s %s]", files[0].Name, files[1].Name)
	}
}

func TestUploadSource_RejectsUnsupportedExtension(t *testing.T) {
	src := NewUploadSource()
	err := src.Put("notes.txt", []byte("plain text"))
	if !errors.Is(err, loaders.ErrUnsupportedFormat) {
		t.Errorf("Put(notes.txt) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestUploadSource_RejectsMismatchedContent(t *testing.T) {
	src := NewUploadSource()
	// Right extension, but the content sniffs as plain text.
	err := src.Put("fake.pdf", []byte("just some text pretending"))
	if !errors.Is(err, loaders.ErrUnsupportedFormat) {
		t.Errorf("Put(fake.pdf) error = %v, want ErrUnsupportedFormat", err)
	}

	files, _ := src.List(context.Background())
	if len(files) != 0 {
		t.Errorf("Rejected file should not be listed, got %d files", len(files))
	}
}

func TestUploadSource_OpenAndClear(t *testing.T) {
	src := NewUploadSource()
	if err := src.Put("a.pdf", pdfBytes); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	rc, err := src.Open(context.Background(), FileDescriptor{Name: "a.pdf"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != string(pdfBytes) {
		t.Error("Open() returned different content than was uploaded")
	}

	src.Clear()
	if _, err := src.Open(context.Background(), FileDescriptor{Name: "a.pdf"}); err == nil {
		t.Error("Expected error opening a file after Clear")
	}
	files, _ := src.List(context.Background())
	if len(files) != 0 {
		t.Errorf("Expected empty listing after Clear, got %d files", len(files))
	}
}

func TestUploadSource_PutSameNameTwice(t *testing.T) {
	src := NewUploadSource()
	if err := src.Put("a.pdf", pdfBytes); err != nil {
		t.Fatal(err)
	}
	if err := src.Put("a.pdf", pdfBytes); err != nil {
		t.Fatal(err)
	}

	files, _ := src.List(context.Background())
	if len(files) != 1 {
		t.Errorf("Re-uploading the same name should replace, got %d files", len(files))
	}
}
