// Package session holds the per-session cache of the built index and
// answering engine, modeled as an explicit state machine driven by discrete
// load, query and refresh actions.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/docuchat-ai/docuchat/internal/ingest"
	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/pipeline"
	"github.com/docuchat-ai/docuchat/internal/source"
	"github.com/docuchat-ai/docuchat/pkg/logger"
)

// State is the session cache state.
type State int

const (
	// StateEmpty means no index is built; queries are rejected.
	StateEmpty State = iota
	// StateLoaded means an index and answering engine exist and are reused
	// across queries.
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// ErrNotLoaded is returned for queries while the session is Empty.
var ErrNotLoaded = errors.New("no documents loaded")

// ErrNoSession is returned for an unknown session ID.
var ErrNoSession = errors.New("no such session")

// StoreFactory builds the chunk stores backing one load action. The memory
// backend returns fresh stores each time, which is what makes "a failed load
// leaves the previous index untouched" hold: the new stores are only swapped
// in on success.
type StoreFactory func(ctx context.Context) (interfaces.DocStore, interfaces.VectorStore, error)

// Deps are the components a Manager wires into every session.
type Deps struct {
	Log         *logger.Logger
	Splitter    interfaces.Splitter
	Embedder    interfaces.EmbeddingModel
	LLM         interfaces.LLM
	TopK        int
	Ingestor    *ingest.Ingestor
	Stores      StoreFactory
	Transcripts *Transcripts
}

// Session is one user's interaction scope. All methods are serialized by an
// internal mutex, mirroring the strictly serialized interaction model of the
// UI: one action runs to completion before the next starts.
type Session struct {
	ID string

	mu       sync.Mutex
	state    State
	engine   *pipeline.Engine
	lastLoad []string
	upload   *source.UploadSource

	deps Deps
	log  *logger.Logger
}

// LoadResult reports what one load action did.
type LoadResult struct {
	Outcome ingest.Outcome `json:"outcome"`
	Chunks  int            `json:"chunks"`
}

// QueryResult carries one answered query.
type QueryResult struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	Artifact string   `json:"artifact"`
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastLoad returns the file names of the last successful load.
func (s *Session) LastLoad() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lastLoad...)
}

// Upload returns the session's upload batch source.
func (s *Session) Upload() *source.UploadSource {
	return s.upload
}

// Load runs the full ingestion pipeline over the selected files and, on
// success, replaces the session's index and engine wholesale. Any failure,
// including an empty corpus, leaves the previous Loaded state untouched so
// the user can still query the prior corpus.
func (s *Session) Load(ctx context.Context, src source.Source, selected []source.FileDescriptor, progress ingest.Progress) (LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fragments, outcome, err := s.deps.Ingestor.Load(ctx, src, selected, progress)
	if err != nil {
		return LoadResult{}, err
	}
	if len(fragments) == 0 {
		return LoadResult{Outcome: outcome}, pipeline.ErrEmptyCorpus
	}

	docStore, vectorStore, err := s.deps.Stores(ctx)
	if err != nil {
		return LoadResult{}, fmt.Errorf("build stores: %w", err)
	}

	indexing := pipeline.NewIndexingPipeline(s.deps.Splitter, s.deps.Embedder, docStore, vectorStore, s.log)
	chunks, err := indexing.Run(ctx, fragments)
	if err != nil {
		return LoadResult{Outcome: outcome}, err
	}

	retrieval := pipeline.NewRetrievalPipeline(s.deps.Embedder, vectorStore, docStore, s.log)
	qa := pipeline.NewQAPipeline(s.deps.LLM, s.log)
	s.engine = pipeline.NewEngine(retrieval, qa, s.deps.TopK)
	s.state = StateLoaded
	s.lastLoad = append([]string(nil), outcome.Processed...)

	s.log.Info(fmt.Sprintf("Session loaded: %d files, %d chunks", len(outcome.Processed), chunks))
	return LoadResult{Outcome: outcome, Chunks: chunks}, nil
}

// Query answers a question over the loaded corpus and persists the answer
// transcript. Returns ErrNotLoaded while the session is Empty.
func (s *Session) Query(ctx context.Context, query string) (QueryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoaded {
		return QueryResult{}, ErrNotLoaded
	}

	answer, sources, err := s.engine.Answer(ctx, query)
	if err != nil {
		return QueryResult{}, err
	}

	artifact, err := s.deps.Transcripts.Write(query, answer)
	if err != nil {
		return QueryResult{}, err
	}

	return QueryResult{Answer: answer, Sources: sources, Artifact: artifact}, nil
}

// Refresh transitions the session back to Empty, discards the engine and the
// upload batch, and runs the supplied invalidation hooks (remote listing
// caches). The next load rebuilds everything from scratch.
func (s *Session) Refresh(invalidate ...func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateEmpty
	s.engine = nil
	s.lastLoad = nil
	s.upload.Clear()

	for _, fn := range invalidate {
		fn()
	}
	s.log.Info("Session refreshed")
}

// Manager owns all live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	deps     Deps
}

// NewManager creates a session manager.
func NewManager(deps Deps) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
	}
}

// Create starts a new Empty session and returns it.
func (m *Manager) Create() *Session {
	id := uuid.New().String()
	s := &Session{
		ID:     id,
		state:  StateEmpty,
		upload: source.NewUploadSource(),
		deps:   m.deps,
		log:    m.deps.Log.WithSession(id),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Get returns the session by ID, or ErrNoSession.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// Destroy removes a session entirely. It reports whether a session with
// that id actually existed.
func (m *Manager) Destroy(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}
