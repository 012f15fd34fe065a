package nodes

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/schema"

	"adaptive_rag/internal/core"
)

// Generator produces a draft answer from the question and documents
type Generator interface {
	Generate(ctx context.Context, question string, documents []*schema.Document) (string, error)
}

// GenerateNode produces the draft answer, overwriting any previous one
type GenerateNode struct {
	generator Generator
}

// NewGenerateNode creates a generate node
func NewGenerateNode(generator Generator) *GenerateNode {
	return &GenerateNode{generator: generator}
}

// Execute writes a fresh generation into the state and counts the pass
// against the retry budget
func (n *GenerateNode) Execute(ctx context.Context, state *core.GraphState) (*core.GraphState, error) {
	log.Printf("---GENERATE---")

	generation, err := n.generator.Generate(ctx, state.Question, state.Documents)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	state.Generation = generation
	state.Retries++
	state.AddTrace(core.NodeGenerate, fmt.Sprintf("generated draft %d", state.Retries))

	return state, nil
}

// Name returns the node name
func (n *GenerateNode) Name() string {
	return core.NodeGenerate
}
