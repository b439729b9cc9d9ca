package source

import (
	"context"
	"fmt"
	"io"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	dbxfiles "github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"github.com/docuchat-ai/docuchat/internal/rag/loaders"
)

// DropboxSource enumerates and downloads documents from one Dropbox folder.
// The access token comes from configuration; listing results are typically
// wrapped in a CachedSource so repeated UI interactions don't re-list the
// folder on every render.
type DropboxSource struct {
	client dbxfiles.Client
	folder string
}

// NewDropboxSource creates a source over the given folder path, e.g.
// "/documents". The root folder is the empty string.
func NewDropboxSource(token, folder string) *DropboxSource {
	cfg := dropbox.Config{
		Token:    token,
		LogLevel: dropbox.LogOff,
	}
	return &DropboxSource{
		client: dbxfiles.New(cfg),
		folder: folder,
	}
}

func (s *DropboxSource) Origin() Origin {
	return OriginDropbox
}

// Folder returns the configured folder path, used as the listing cache key.
func (s *DropboxSource) Folder() string {
	return s.folder
}

// List returns the supported document files in the folder, following the
// listing cursor until the full folder has been seen.
func (s *DropboxSource) List(ctx context.Context) ([]FileDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := s.client.ListFolder(dbxfiles.NewListFolderArg(s.folder))
	if err != nil {
		return nil, fmt.Errorf("dropbox: list folder %q: %w", s.folder, err)
	}

	entries := res.Entries
	for res.HasMore {
		res, err = s.client.ListFolderContinue(dbxfiles.NewListFolderContinueArg(res.Cursor))
		if err != nil {
			return nil, fmt.Errorf("dropbox: continue listing folder %q: %w", s.folder, err)
		}
		entries = append(entries, res.Entries...)
	}

	var out []FileDescriptor
	for _, entry := range entries {
		file, ok := entry.(*dbxfiles.FileMetadata)
		if !ok {
			// Folders and deleted entries are not documents.
			continue
		}
		if !loaders.Supported(file.Name) {
			continue
		}
		out = append(out, FileDescriptor{
			Name: file.Name,
			Path: file.PathLower,
		})
	}
	return out, nil
}

// Open downloads one file's content.
func (s *DropboxSource) Open(ctx context.Context, desc FileDescriptor) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, content, err := s.client.Download(dbxfiles.NewDownloadArg(desc.Path))
	if err != nil {
		return nil, fmt.Errorf("dropbox: download %q: %w", desc.Path, err)
	}
	return content, nil
}

var _ Source = (*DropboxSource)(nil)
