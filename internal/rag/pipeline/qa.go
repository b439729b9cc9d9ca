package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/docuchat-ai/docuchat/internal/rag/interfaces"
	"github.com/docuchat-ai/docuchat/internal/rag/schema"
	"github.com/docuchat-ai/docuchat/pkg/logger"
)

// QAPipeline generates an answer from a query and the retrieved chunks.
type QAPipeline struct {
	llm interfaces.LLM
	log *logger.Logger
}

// NewQAPipeline creates a new QAPipeline.
func NewQAPipeline(llm interfaces.LLM, log *logger.Logger) *QAPipeline {
	return &QAPipeline{llm: llm, log: log}
}

// Run builds a prompt from the query and context chunks and calls the
// generative model. The model's text output is returned verbatim; a failed
// call surfaces to the caller rather than turning into an empty answer.
func (p *QAPipeline) Run(ctx context.Context, query string, documents []*schema.Document) (string, error) {
	prompt := buildPrompt(query, documents)

	answer, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generation service: %w", err)
	}

	p.log.Info("Generated answer")
	return answer, nil
}

// buildPrompt assembles the context blocks and the question. Each block names
// its source file so the model can ground the answer in the documents.
func buildPrompt(query string, documents []*schema.Document) string {
	var sb strings.Builder

	sb.WriteString("Based on the following context, please answer the question.\n\nContext:\n")
	for i, doc := range documents {
		sb.WriteString("---\n")
		if src := doc.Source(); src != "" {
			sb.WriteString(fmt.Sprintf("Context %d (from %s):\n%s\n", i+1, src, doc.Text))
		} else {
			sb.WriteString(fmt.Sprintf("Context %d:\n%s\n", i+1, doc.Text))
		}
	}
	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("Question: %s", query))

	return sb.String()
}
