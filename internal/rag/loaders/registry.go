package loaders

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
)

// ErrUnsupportedFormat is returned by ForFile when no loader handles the
// file's extension.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ForFile selects a loader by the file's lower-cased extension.
// Supported: ".pdf", ".xlsx", ".xls".
func ForFile(name string) (interfaces.Loader, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return NewPdfLoader(), nil
	case ".xlsx":
		return NewXlsxLoader(), nil
	case ".xls":
		// Legacy workbooks are OLE compound files, not zip archives, so
		// they need their own reader.
		return NewXlsLoader(), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Supported reports whether name has an extension some loader handles.
func Supported(name string) bool {
	_, err := ForFile(name)
	return err == nil
}
