package core

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"
)

// Node names used as graph keys
const (
	NodeRouteQuestion  = "route_question"
	NodeRetrieve       = "retrieve"
	NodeGradeDocuments = "grade_documents"
	NodeWebSearch      = "websearch"
	NodeGenerate       = "generate"
)

// Routing targets returned by the question router
const (
	RouteVectorstore = "vectorstore"
	RouteWebSearch   = "websearch"
)

// GraphState is the single record that flows through the graph.
// Question is set once at the start and never rewritten; Documents is
// replaced or filtered at each retrieval/grading/search step;
// Generation is overwritten on every generate pass.
type GraphState struct {
	Question   string             `json:"question"`
	Documents  []*schema.Document `json:"documents"`
	WebSearch  bool               `json:"web_search"`
	Generation string             `json:"generation"`
	Route      string             `json:"route,omitempty"`
	Retries    int                `json:"retries"`
	Trace      []TraceStep        `json:"trace"`
}

// TraceStep records one executed node or branch decision
type TraceStep struct {
	Node      string    `json:"node"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// AddTrace appends a step to the state's trace
func (s *GraphState) AddTrace(node, detail string) {
	s.Trace = append(s.Trace, TraceStep{
		Node:      node,
		Detail:    detail,
		Timestamp: time.Now(),
	})
}

// StateNode is a single processing unit in the graph flow
type StateNode interface {
	Execute(ctx context.Context, state *GraphState) (*GraphState, error)
	Name() string
}

// QuestionRouter classifies a question into a routing target
type QuestionRouter interface {
	Route(ctx context.Context, question string) (string, error)
}

// GroundingGrader judges whether a generation is supported by its documents
type GroundingGrader interface {
	Grounded(ctx context.Context, documents []*schema.Document, generation string) (bool, error)
}

// AnswerGrader judges whether a generation resolves the question
type AnswerGrader interface {
	Useful(ctx context.Context, question, generation string) (bool, error)
}

// RunResult is returned to the caller after a pipeline run
type RunResult struct {
	Question   string      `json:"question"`
	Generation string      `json:"generation"`
	Route      string      `json:"route"`
	Retries    int         `json:"retries"`
	Trace      []TraceStep `json:"trace"`
	DurationMS int64       `json:"duration_ms"`
}
