package nodes

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/schema"

	"adaptive_rag/internal/core"
)

// DocumentGrader makes a per-document binary relevance judgment
type DocumentGrader interface {
	Relevant(ctx context.Context, question, document string) (bool, error)
}

// GradeDocumentsNode filters retrieved passages through the relevance
// grader. Dropping any passage (or retrieving none at all) flags the
// state for a supplementary web search.
type GradeDocumentsNode struct {
	grader DocumentGrader
}

// NewGradeDocumentsNode creates a document grading node
func NewGradeDocumentsNode(grader DocumentGrader) *GradeDocumentsNode {
	return &GradeDocumentsNode{grader: grader}
}

// Execute keeps only the documents judged relevant to the question
func (n *GradeDocumentsNode) Execute(ctx context.Context, state *core.GraphState) (*core.GraphState, error) {
	log.Printf("---CHECK DOCUMENT RELEVANCE TO QUESTION---")

	var kept []*schema.Document
	webSearch := len(state.Documents) == 0

	for _, doc := range state.Documents {
		relevant, err := n.grader.Relevant(ctx, state.Question, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("document grading failed: %w", err)
		}

		if relevant {
			log.Printf("---GRADE: DOCUMENT RELEVANT---")
			kept = append(kept, doc)
		} else {
			log.Printf("---GRADE: DOCUMENT NOT RELEVANT---")
			webSearch = true
		}
	}

	state.Documents = kept
	state.WebSearch = webSearch
	state.AddTrace(core.NodeGradeDocuments,
		fmt.Sprintf("kept %d documents, web_search=%t", len(kept), webSearch))

	return state, nil
}

// Name returns the node name
func (n *GradeDocumentsNode) Name() string {
	return core.NodeGradeDocuments
}
