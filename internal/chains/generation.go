package chains

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const generationPrompt = `You are an assistant for question-answering tasks. Use the following pieces of retrieved context to answer the question. If you don't know the answer, just say that you don't know. Use three sentences maximum and keep the answer concise.
Question: {question}
Context: {context}
Answer:`

// Generator produces a draft answer from the question and the curated
// context documents
type Generator struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewGenerator creates the generation chain
func NewGenerator(ctx context.Context, cm model.BaseChatModel) (*Generator, error) {
	chain, err := newChain(ctx, cm,
		schema.UserMessage(generationPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating generation chain: %w", err)
	}

	return &Generator{chain: chain}, nil
}

// Generate returns a draft answer for the question given the documents
func (g *Generator) Generate(ctx context.Context, question string, documents []*schema.Document) (string, error) {
	out, err := g.chain.Invoke(ctx, map[string]any{
		"question": question,
		"context":  joinDocuments(documents),
	})
	if err != nil {
		return "", fmt.Errorf("generation invocation failed: %w", err)
	}

	return out.Content, nil
}
