package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// Transcripts persists one plain-text file per answered query, offered back
// to the user as a downloadable artifact. File names carry a second-precision
// timestamp plus a monotonic counter, so two answers within the same second
// never collide.
type Transcripts struct {
	dir string
	seq atomic.Uint64
}

// NewTranscripts creates a writer targeting dir, creating it if needed.
func NewTranscripts(dir string) (*Transcripts, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifacts directory %q: %w", dir, err)
	}
	return &Transcripts{dir: dir}, nil
}

// Write persists the literal question and answer and returns the artifact
// file name.
func (t *Transcripts) Write(query, answer string) (string, error) {
	name := fmt.Sprintf("answer_%s_%04d.txt",
		time.Now().Format("20060102_150405"), t.seq.Add(1))

	content := fmt.Sprintf("Question:\n%s\n\nAnswer:\n%s\n", query, answer)
	if err := os.WriteFile(filepath.Join(t.dir, name), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write transcript %q: %w", name, err)
	}
	return name, nil
}

// Path resolves an artifact name to its path on disk. Names containing path
// separators or not matching the answer file pattern are rejected, so the
// download handler can't be walked out of the artifacts directory.
func (t *Transcripts) Path(name string) (string, error) {
	if name != filepath.Base(name) || !strings.HasPrefix(name, "answer_") || !strings.HasSuffix(name, ".txt") {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	path := filepath.Join(t.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("artifact %q: %w", name, err)
	}
	return path, nil
}
