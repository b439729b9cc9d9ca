// Package source enumerates candidate documents from the supported origins:
// a local folder, an uploaded batch, or a Dropbox folder.
package source

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// Origin identifies where a batch of documents comes from.
type Origin string

const (
	OriginLocal   Origin = "local"
	OriginUpload  Origin = "upload"
	OriginDropbox Origin = "dropbox"
)

// FileDescriptor identifies one candidate document within a source.
type FileDescriptor struct {
	// Name is the plain file name, e.g. "report.pdf".
	Name string `json:"name"`
	// Path is the source-internal path used to fetch the bytes. For the
	// upload origin it equals Name.
	Path string `json:"path"`
}

// Ext returns the lower-cased file extension including the dot.
func (d FileDescriptor) Ext() string {
	return strings.ToLower(filepath.Ext(d.Name))
}

// Source lists candidate documents and opens their content. Listing order is
// whatever the backing store returns; callers must not rely on it.
type Source interface {
	// Origin identifies the kind of source.
	Origin() Origin

	// List returns the candidate document descriptors, already filtered to
	// supported document types.
	List(ctx context.Context) ([]FileDescriptor, error)

	// Open returns the content of one listed file. The caller closes it.
	Open(ctx context.Context, desc FileDescriptor) (io.ReadCloser, error)
}
