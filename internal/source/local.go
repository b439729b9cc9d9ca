package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docuchat-ai/docuchat/internal/rag/loaders"
)

// LocalSource enumerates documents in a fixed local folder.
type LocalSource struct {
	dir string
}

// NewLocalSource creates a source scanning dir.
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

func (s *LocalSource) Origin() Origin {
	return OriginLocal
}

// List returns the supported document files directly inside the folder.
// Subdirectories and unsupported entries are filtered out.
func (s *LocalSource) List(ctx context.Context) ([]FileDescriptor, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", s.dir, err)
	}

	var files []FileDescriptor
	for _, entry := range entries {
		if entry.IsDir() || !loaders.Supported(entry.Name()) {
			continue
		}
		files = append(files, FileDescriptor{
			Name: entry.Name(),
			Path: filepath.Join(s.dir, entry.Name()),
		})
	}
	return files, nil
}

// Open opens the file by its path within the folder.
func (s *LocalSource) Open(ctx context.Context, desc FileDescriptor) (io.ReadCloser, error) {
	f, err := os.Open(desc.Path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", desc.Path, err)
	}
	return f, nil
}

var _ Source = (*LocalSource)(nil)
