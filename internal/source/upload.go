package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/docuchat-ai/docuchat/internal/rag/loaders"
)

// MIME types the document parsers can actually consume. An uploaded file
// whose sniffed content doesn't match its extension is rejected up front
// rather than handed to a parser that will choke on it.
var acceptedMimes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-excel",
	"application/x-ole-storage",
	"application/zip",
}

// UploadSource holds a batch of user-submitted files in memory for the
// duration of one session.
type UploadSource struct {
	mu    sync.RWMutex
	files map[string][]byte
	order []string
}

// NewUploadSource creates an empty upload batch.
func NewUploadSource() *UploadSource {
	return &UploadSource{files: make(map[string][]byte)}
}

func (s *UploadSource) Origin() Origin {
	return OriginUpload
}

// Put registers an uploaded file. It rejects unsupported extensions and
// content that doesn't sniff as a document format.
func (s *UploadSource) Put(name string, data []byte) error {
	if !loaders.Supported(name) {
		return loaders.ErrUnsupportedFormat
	}

	mtype := mimetype.Detect(data)
	accepted := false
	for _, want := range acceptedMimes {
		if mtype.Is(want) {
			accepted = true
			break
		}
	}
	if !accepted {
		return fmt.Errorf("%w: content sniffed as %s", loaders.ErrUnsupportedFormat, mtype.String())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.files[name]; !exists {
		s.order = append(s.order, name)
	}
	s.files[name] = data
	return nil
}

// List returns the uploaded files in submission order.
func (s *UploadSource) List(ctx context.Context) ([]FileDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]FileDescriptor, 0, len(s.order))
	for _, name := range s.order {
		files = append(files, FileDescriptor{Name: name, Path: name})
	}
	return files, nil
}

// Open returns the buffered content of one uploaded file.
func (s *UploadSource) Open(ctx context.Context, desc FileDescriptor) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[desc.Name]
	if !ok {
		return nil, fmt.Errorf("no uploaded file named %q", desc.Name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Clear drops the whole batch.
func (s *UploadSource) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
	s.order = nil
}

var _ Source = (*UploadSource)(nil)
