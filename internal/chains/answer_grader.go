package chains

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const answerGraderSystemPrompt = `You are a grader assessing whether an answer addresses / resolves a question.
Give a binary score 'yes' or 'no'. 'Yes' means that the answer resolves the question.
Return a JSON object with a single key "binary_score", for example {{"binary_score": "yes"}}. Do not add any other text.`

// AnswerGrader judges whether a generation resolves the original question
type AnswerGrader struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewAnswerGrader creates the usefulness check chain
func NewAnswerGrader(ctx context.Context, cm model.BaseChatModel) (*AnswerGrader, error) {
	chain, err := newChain(ctx, cm,
		schema.SystemMessage(answerGraderSystemPrompt),
		schema.UserMessage("User question: \n\n {question} \n\n LLM generation: {generation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating answer grader chain: %w", err)
	}

	return &AnswerGrader{chain: chain}, nil
}

// Useful reports whether the generation answers the question
func (g *AnswerGrader) Useful(ctx context.Context, question, generation string) (bool, error) {
	out, err := g.chain.Invoke(ctx, map[string]any{
		"question":   question,
		"generation": generation,
	})
	if err != nil {
		return false, fmt.Errorf("answer grader invocation failed: %w", err)
	}

	return parseBinaryScore(out.Content)
}
