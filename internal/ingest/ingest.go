// Package ingest turns a selection of source files into tagged document
// fragments, collecting per-file failures without aborting the batch.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/loaders"
	"github.com/docuchat-ai/docuchat/internal/rag/schema"
	"github.com/docuchat-ai/docuchat/internal/source"
	"github.com/docuchat-ai/docuchat/pkg/logger"
)

// ReasonUnsupported is the skip reason recorded for files no parser handles.
const ReasonUnsupported = "unsupported format"

// Skip records one file left out of the batch and why.
type Skip struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Outcome summarizes one load action. It is reported to the user and not
// persisted.
type Outcome struct {
	Processed []string `json:"processed"`
	Skipped   []Skip   `json:"skipped"`
}

// ParseError tags a per-file parser failure with the file it came from. It is
// recorded in the outcome and never aborts the batch.
type ParseError struct {
	File  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Progress reports coarse loading progress as files done out of total.
type Progress func(done, total int)

// Ingestor loads selected files from a source, one at a time. Sequential
// processing keeps every file's success or failure individually attributable.
type Ingestor struct {
	log     *logger.Logger
	tempDir string
}

// NewIngestor creates an Ingestor. tempDir may be empty to use the system
// default temp directory.
func NewIngestor(log *logger.Logger, tempDir string) *Ingestor {
	return &Ingestor{log: log, tempDir: tempDir}
}

// Load fetches and parses each selected file, tagging every produced fragment
// with the original file name. Unsupported extensions and parser failures end
// up in the outcome's Skipped list; remaining files are still processed. The
// returned error is non-nil only for batch-level failures (context
// cancellation), never for individual files.
func (in *Ingestor) Load(ctx context.Context, src source.Source, selected []source.FileDescriptor, progress Progress) ([]*schema.Document, Outcome, error) {
	var fragments []*schema.Document
	var outcome Outcome

	total := len(selected)
	for i, desc := range selected {
		if err := ctx.Err(); err != nil {
			return nil, Outcome{}, err
		}

		loader, err := loaders.ForFile(desc.Name)
		if errors.Is(err, loaders.ErrUnsupportedFormat) {
			outcome.Skipped = append(outcome.Skipped, Skip{Name: desc.Name, Reason: ReasonUnsupported})
			in.log.Warn(fmt.Sprintf("Skipping %s: %s", desc.Name, ReasonUnsupported))
			if progress != nil {
				progress(i+1, total)
			}
			continue
		}

		docs, err := in.loadOne(ctx, src, desc, loader)
		if err != nil {
			perr := &ParseError{File: desc.Name, Cause: err}
			outcome.Skipped = append(outcome.Skipped, Skip{Name: desc.Name, Reason: perr.Error()})
			in.log.Warn(fmt.Sprintf("Skipping %s: %v", desc.Name, err))
			if progress != nil {
				progress(i+1, total)
			}
			continue
		}

		// The parser saw a temp copy, so retag every fragment with the
		// original file name.
		for _, doc := range docs {
			if doc.Metadata == nil {
				doc.Metadata = make(map[string]interface{})
			}
			doc.Metadata[schema.MetadataKeySource] = desc.Name
		}

		fragments = append(fragments, docs...)
		outcome.Processed = append(outcome.Processed, desc.Name)
		in.log.Info(fmt.Sprintf("Loaded %s: %d fragments", desc.Name, len(docs)))

		if progress != nil {
			progress(i+1, total)
		}
	}

	return fragments, outcome, nil
}

// loadOne materializes the file's bytes into a temp copy scoped to this call
// and hands it to the parser. The copy is removed on every exit path,
// including parser errors.
func (in *Ingestor) loadOne(ctx context.Context, src source.Source, desc source.FileDescriptor, loader interfaces.Loader) ([]*schema.Document, error) {
	rc, err := src.Open(ctx, desc)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(in.tempDir, "docuchat-*"+desc.Ext())
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("copy to temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	return loader.Load(ctx, tmpPath)
}
