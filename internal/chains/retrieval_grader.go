package chains

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const retrievalGraderSystemPrompt = `You are a grader assessing relevance of a retrieved document to a user question.
If the document contains keyword(s) or semantic meaning related to the question, grade it as relevant.
Give a binary score 'yes' or 'no' to indicate whether the document is relevant to the question.
Return a JSON object with a single key "binary_score", for example {{"binary_score": "yes"}}. Do not add any other text.`

// RetrievalGrader makes a per-document binary relevance judgment
type RetrievalGrader struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewRetrievalGrader creates the relevance grading chain
func NewRetrievalGrader(ctx context.Context, cm model.BaseChatModel) (*RetrievalGrader, error) {
	chain, err := newChain(ctx, cm,
		schema.SystemMessage(retrievalGraderSystemPrompt),
		schema.UserMessage("Retrieved document: \n\n {document} \n\n User question: {question}"),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating retrieval grader chain: %w", err)
	}

	return &RetrievalGrader{chain: chain}, nil
}

// Relevant reports whether the document is relevant to the question
func (g *RetrievalGrader) Relevant(ctx context.Context, question, document string) (bool, error) {
	out, err := g.chain.Invoke(ctx, map[string]any{
		"question": question,
		"document": document,
	})
	if err != nil {
		return false, fmt.Errorf("retrieval grader invocation failed: %w", err)
	}

	return parseBinaryScore(out.Content)
}
