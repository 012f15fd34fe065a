package chains

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const hallucinationGraderSystemPrompt = `You are a grader assessing whether an LLM generation is grounded in / supported by a set of retrieved facts.
Give a binary score 'yes' or 'no' to indicate the answer is grounded in and supported by the set of facts.
Return a JSON object with a single key "binary_score", for example {{"binary_score": "yes"}}. Do not add any other text.`

// HallucinationGrader judges whether a generation is entailed by the
// documents it was produced from
type HallucinationGrader struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewHallucinationGrader creates the grounding check chain
func NewHallucinationGrader(ctx context.Context, cm model.BaseChatModel) (*HallucinationGrader, error) {
	chain, err := newChain(ctx, cm,
		schema.SystemMessage(hallucinationGraderSystemPrompt),
		schema.UserMessage("Set of facts: \n\n {documents} \n\n LLM generation: {generation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating hallucination grader chain: %w", err)
	}

	return &HallucinationGrader{chain: chain}, nil
}

// Grounded reports whether the generation is supported by the documents
func (g *HallucinationGrader) Grounded(ctx context.Context, documents []*schema.Document, generation string) (bool, error) {
	out, err := g.chain.Invoke(ctx, map[string]any{
		"documents":  joinDocuments(documents),
		"generation": generation,
	})
	if err != nil {
		return false, fmt.Errorf("hallucination grader invocation failed: %w", err)
	}

	return parseBinaryScore(out.Content)
}
