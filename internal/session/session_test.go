package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docuchat-ai/docuchat/internal/ingest"
	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/pipeline"
	"github.com/docuchat-ai/docuchat/internal/rag/splitters"
	"github.com/docuchat-ai/docuchat/internal/rag/storages/docstore"
	"github.com/docuchat-ai/docuchat/internal/rag/storages/vectorstore"
	"github.com/docuchat-ai/docuchat/internal/source"
	"github.com/docuchat-ai/docuchat/pkg/logger"
)

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type stubLLM struct{}

func (s *stubLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return "stub answer", nil
}

type stubSource struct {
	files map[string][]byte
}

func (s *stubSource) Origin() source.Origin { return source.OriginLocal }

func (s *stubSource) List(ctx context.Context) ([]source.FileDescriptor, error) {
	var out []source.FileDescriptor
	for name := range s.files {
		out = append(out, source.FileDescriptor{Name: name, Path: name})
	}
	return out, nil
}

func (s *stubSource) Open(ctx context.Context, desc source.FileDescriptor) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.files[desc.Name])), nil
}

func workbookBytes(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Item", "Count"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Widgets", 7}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func newTestManager(t *testing.T, embedder interfaces.EmbeddingModel) *Manager {
	t.Helper()

	log := logger.New("test")
	splitter, err := splitters.NewCharSplitter(200, 20)
	require.NoError(t, err)
	transcripts, err := NewTranscripts(t.TempDir())
	require.NoError(t, err)

	return NewManager(Deps{
		Log:      log,
		Splitter: splitter,
		Embedder: embedder,
		LLM:      &stubLLM{},
		TopK:     2,
		Ingestor: ingest.NewIngestor(log, ""),
		Stores: func(ctx context.Context) (interfaces.DocStore, interfaces.VectorStore, error) {
			return docstore.NewInMemoryDocStore(), vectorstore.NewMemoryStore(), nil
		},
		Transcripts: transcripts,
	})
}

func selection(names ...string) []source.FileDescriptor {
	out := make([]source.FileDescriptor, len(names))
	for i, name := range names {
		out[i] = source.FileDescriptor{Name: name, Path: name}
	}
	return out
}

func TestSession_QueryBeforeLoad(t *testing.T) {
	sess := newTestManager(t, &stubEmbedder{}).Create()

	assert.Equal(t, StateEmpty, sess.State())

	_, err := sess.Query(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestSession_LoadThenQuery(t *testing.T) {
	sess := newTestManager(t, &stubEmbedder{}).Create()
	src := &stubSource{files: map[string][]byte{"inventory.xlsx": workbookBytes(t)}}

	result, err := sess.Load(context.Background(), src, selection("inventory.xlsx"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"inventory.xlsx"}, result.Outcome.Processed)
	assert.Greater(t, result.Chunks, 0)
	assert.Equal(t, StateLoaded, sess.State())
	assert.Equal(t, []string{"inventory.xlsx"}, sess.LastLoad())

	qr, err := sess.Query(context.Background(), "how many widgets?")
	require.NoError(t, err)
	assert.Equal(t, "stub answer", qr.Answer)
	assert.Equal(t, []string{"inventory.xlsx"}, qr.Sources)
	assert.NotEmpty(t, qr.Artifact)
}

func TestSession_EmptySelectionLeavesStateUntouched(t *testing.T) {
	sess := newTestManager(t, &stubEmbedder{}).Create()

	// Only an unsupported file selected: every file is skipped, nothing is
	// indexed and the session stays Empty.
	src := &stubSource{files: map[string][]byte{"notes.txt": []byte("text")}}
	result, err := sess.Load(context.Background(), src, selection("notes.txt"), nil)
	assert.ErrorIs(t, err, pipeline.ErrEmptyCorpus)
	assert.Len(t, result.Outcome.Skipped, 1)
	assert.Equal(t, StateEmpty, sess.State())
}

func TestSession_FailedLoadKeepsPreviousIndex(t *testing.T) {
	embedder := &stubEmbedder{}
	sess := newTestManager(t, embedder).Create()
	src := &stubSource{files: map[string][]byte{"inventory.xlsx": workbookBytes(t)}}

	_, err := sess.Load(context.Background(), src, selection("inventory.xlsx"), nil)
	require.NoError(t, err)
	require.Equal(t, StateLoaded, sess.State())

	// The embedding service goes down; the reload fails but the previous
	// index keeps answering.
	embedder.err = errors.New("embedding service unavailable")
	_, err = sess.Load(context.Background(), src, selection("inventory.xlsx"), nil)
	require.Error(t, err)
	assert.Equal(t, StateLoaded, sess.State())

	_, err = sess.Query(context.Background(), "still working?")
	assert.NoError(t, err)
}

func TestSession_Refresh(t *testing.T) {
	sess := newTestManager(t, &stubEmbedder{}).Create()
	src := &stubSource{files: map[string][]byte{"inventory.xlsx": workbookBytes(t)}}

	_, err := sess.Load(context.Background(), src, selection("inventory.xlsx"), nil)
	require.NoError(t, err)

	require.NoError(t, sess.Upload().Put("extra.pdf", []byte("%PDF-1.4\n")))

	invalidated := false
	sess.Refresh(func() { invalidated = true })

	assert.Equal(t, StateEmpty, sess.State())
	assert.Empty(t, sess.LastLoad())
	assert.True(t, invalidated, "refresh must run the invalidation hooks")

	uploads, err := sess.Upload().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, uploads, "refresh must discard the upload batch")

	_, err = sess.Query(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestManager_Lifecycle(t *testing.T) {
	m := newTestManager(t, &stubEmbedder{})

	sess := m.Create()
	require.NotEmpty(t, sess.ID)

	got, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	assert.True(t, m.Destroy(sess.ID))
	_, err = m.Get(sess.ID)
	assert.ErrorIs(t, err, ErrNoSession)

	// Destroying a session that is already gone reports so.
	assert.False(t, m.Destroy(sess.ID))
	assert.False(t, m.Destroy("nope"))

	_, err = m.Get("nope")
	assert.ErrorIs(t, err, ErrNoSession)
}
