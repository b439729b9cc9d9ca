package pipeline

import (
	"context"

	"github.com/docuchat-ai/docuchat/internal/rag/schema"
)

// Engine combines the retrieval and QA pipelines behind a single Answer call.
// One Engine instance is built per successful load action and reused for
// every query until the session is refreshed.
type Engine struct {
	retrieval *RetrievalPipeline
	qa        *QAPipeline
	topK      int
}

// NewEngine creates an Engine retrieving topK chunks per query.
func NewEngine(retrieval *RetrievalPipeline, qa *QAPipeline, topK int) *Engine {
	return &Engine{retrieval: retrieval, qa: qa, topK: topK}
}

// Answer retrieves context for the query and generates an answer. It also
// returns the distinct source file names the context came from, in retrieval
// order.
func (e *Engine) Answer(ctx context.Context, query string) (string, []string, error) {
	docs, err := e.retrieval.Run(ctx, query, e.topK)
	if err != nil {
		return "", nil, err
	}

	answer, err := e.qa.Run(ctx, query, docs)
	if err != nil {
		return "", nil, err
	}

	return answer, distinctSources(docs), nil
}

func distinctSources(docs []*schema.Document) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, doc := range docs {
		src := doc.Source()
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		sources = append(sources, src)
	}
	return sources
}
