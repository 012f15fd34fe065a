package nodes

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/retriever"

	"adaptive_rag/internal/core"
)

// RetrieveNode fetches candidate passages from the similarity index
type RetrieveNode struct {
	retriever retriever.Retriever
}

// NewRetrieveNode creates a retrieve node backed by any eino retriever
func NewRetrieveNode(r retriever.Retriever) *RetrieveNode {
	return &RetrieveNode{retriever: r}
}

// Execute replaces state.Documents with the top-k passages for the question
func (n *RetrieveNode) Execute(ctx context.Context, state *core.GraphState) (*core.GraphState, error) {
	log.Printf("---RETRIEVE---")

	docs, err := n.retriever.Retrieve(ctx, state.Question)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	state.Documents = docs
	state.AddTrace(core.NodeRetrieve, fmt.Sprintf("retrieved %d documents", len(docs)))

	return state, nil
}

// Name returns the node name
func (n *RetrieveNode) Name() string {
	return core.NodeRetrieve
}
