package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino/compose"
)

// PipelineConfig bounds the pipeline's looping behavior.
// The generate/grounding loop has no natural termination, so the retry
// cap is mandatory; MaxRunSteps is a backstop on total graph steps.
type PipelineConfig struct {
	MaxGenerationRetries int
	MaxRunSteps          int
}

// PipelineNodes holds the processing nodes wired into the graph
type PipelineNodes struct {
	Retrieve       StateNode
	GradeDocuments StateNode
	WebSearch      StateNode
	Generate       StateNode
}

// PipelineGraders holds the decision chains consulted at branch points
type PipelineGraders struct {
	Router    QuestionRouter
	Grounding GroundingGrader
	Answer    AnswerGrader
}

// Pipeline is the compiled decision graph over GraphState
type Pipeline struct {
	runnable compose.Runnable[*GraphState, *GraphState]
}

// NewPipeline builds and compiles the graph:
//
//	route_question ─┬─> retrieve ──> grade_documents ─┬─> generate <─┐
//	                │                                 │       │      │ (not grounded)
//	                └────────────> websearch <────────┘       ├──────┘
//	                                   ▲   └──> generate      │ (not useful)
//	                                   └───────────────────────┘
func NewPipeline(ctx context.Context, cfg PipelineConfig, nodes PipelineNodes, graders PipelineGraders) (*Pipeline, error) {
	if cfg.MaxGenerationRetries <= 0 {
		cfg.MaxGenerationRetries = 3
	}
	if cfg.MaxRunSteps <= 0 {
		cfg.MaxRunSteps = 25
	}

	g := compose.NewGraph[*GraphState, *GraphState]()

	// Entry node: classify the question into a retrieval strategy
	routeQuestion := compose.InvokableLambda(func(ctx context.Context, state *GraphState) (*GraphState, error) {
		log.Printf("---ROUTE QUESTION---")
		route, err := graders.Router.Route(ctx, state.Question)
		if err != nil {
			return nil, fmt.Errorf("failed to route question: %w", err)
		}
		state.Route = route
		state.AddTrace(NodeRouteQuestion, route)
		return state, nil
	})
	if err := g.AddLambdaNode(NodeRouteQuestion, routeQuestion); err != nil {
		return nil, fmt.Errorf("failed to add route node: %w", err)
	}
	if err := g.AddLambdaNode(NodeRetrieve, compose.InvokableLambda(nodes.Retrieve.Execute)); err != nil {
		return nil, fmt.Errorf("failed to add retrieve node: %w", err)
	}
	if err := g.AddLambdaNode(NodeGradeDocuments, compose.InvokableLambda(nodes.GradeDocuments.Execute)); err != nil {
		return nil, fmt.Errorf("failed to add grade node: %w", err)
	}
	if err := g.AddLambdaNode(NodeWebSearch, compose.InvokableLambda(nodes.WebSearch.Execute)); err != nil {
		return nil, fmt.Errorf("failed to add websearch node: %w", err)
	}
	if err := g.AddLambdaNode(NodeGenerate, compose.InvokableLambda(nodes.Generate.Execute)); err != nil {
		return nil, fmt.Errorf("failed to add generate node: %w", err)
	}

	if err := g.AddEdge(compose.START, NodeRouteQuestion); err != nil {
		return nil, fmt.Errorf("failed to add start edge: %w", err)
	}

	routeBranch := compose.NewGraphBranch(RouteDecision(), map[string]bool{
		NodeRetrieve:  true,
		NodeWebSearch: true,
	})
	if err := g.AddBranch(NodeRouteQuestion, routeBranch); err != nil {
		return nil, fmt.Errorf("failed to add route branch: %w", err)
	}

	if err := g.AddEdge(NodeRetrieve, NodeGradeDocuments); err != nil {
		return nil, fmt.Errorf("failed to add retrieve edge: %w", err)
	}

	gradeBranch := compose.NewGraphBranch(GenerateDecision(), map[string]bool{
		NodeWebSearch: true,
		NodeGenerate:  true,
	})
	if err := g.AddBranch(NodeGradeDocuments, gradeBranch); err != nil {
		return nil, fmt.Errorf("failed to add grade branch: %w", err)
	}

	if err := g.AddEdge(NodeWebSearch, NodeGenerate); err != nil {
		return nil, fmt.Errorf("failed to add websearch edge: %w", err)
	}

	generateBranch := compose.NewGraphBranch(
		AcceptDecision(graders.Grounding, graders.Answer, cfg.MaxGenerationRetries),
		map[string]bool{
			NodeGenerate:  true,
			NodeWebSearch: true,
			compose.END:   true,
		})
	if err := g.AddBranch(NodeGenerate, generateBranch); err != nil {
		return nil, fmt.Errorf("failed to add generate branch: %w", err)
	}

	runnable, err := g.Compile(ctx, compose.WithMaxRunSteps(cfg.MaxRunSteps))
	if err != nil {
		return nil, fmt.Errorf("failed to compile graph: %w", err)
	}

	return &Pipeline{runnable: runnable}, nil
}

// Run executes the graph for one question and returns the final answer
// plus the trace of intermediate decisions
func (p *Pipeline) Run(ctx context.Context, question string) (*RunResult, error) {
	start := time.Now()

	state := &GraphState{Question: question}
	final, err := p.runnable.Invoke(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("pipeline execution failed: %w", err)
	}

	return &RunResult{
		Question:   final.Question,
		Generation: final.Generation,
		Route:      final.Route,
		Retries:    final.Retries,
		Trace:      final.Trace,
		DurationMS: time.Since(start).Milliseconds(),
	}, nil
}

// RouteDecision picks the initial branch from the router's classification
func RouteDecision() compose.GraphBranchCondition[*GraphState] {
	return func(ctx context.Context, state *GraphState) (string, error) {
		if state.Route == RouteWebSearch {
			log.Printf("---ROUTE QUESTION TO WEB SEARCH---")
			return NodeWebSearch, nil
		}
		log.Printf("---ROUTE QUESTION TO RAG---")
		return NodeRetrieve, nil
	}
}

// GenerateDecision supplements context with a web search when the
// relevance filter dropped any document, otherwise generates directly
func GenerateDecision() compose.GraphBranchCondition[*GraphState] {
	return func(ctx context.Context, state *GraphState) (string, error) {
		if state.WebSearch {
			log.Printf("---DECISION: NOT ALL DOCUMENTS ARE RELEVANT TO QUESTION, INCLUDE WEB SEARCH---")
			state.AddTrace(NodeGradeDocuments, "supplementing with web search")
			return NodeWebSearch, nil
		}
		log.Printf("---DECISION: GENERATE---")
		state.AddTrace(NodeGradeDocuments, "documents relevant, generating")
		return NodeGenerate, nil
	}
}

// AcceptDecision runs the grounding and usefulness checks on the draft.
// Not grounded re-invokes the generator; grounded but not useful
// triggers another web search pass; both checks passing ends the run.
// Either failure path terminates once the retry budget is spent.
func AcceptDecision(grounding GroundingGrader, answer AnswerGrader, maxRetries int) compose.GraphBranchCondition[*GraphState] {
	return func(ctx context.Context, state *GraphState) (string, error) {
		log.Printf("---CHECK HALLUCINATIONS---")
		grounded, err := grounding.Grounded(ctx, state.Documents, state.Generation)
		if err != nil {
			return "", fmt.Errorf("grounding check failed: %w", err)
		}

		if !grounded {
			if state.Retries >= maxRetries {
				log.Printf("---DECISION: RETRY BUDGET EXHAUSTED, RETURNING BEST EFFORT GENERATION---")
				state.AddTrace(NodeGenerate, "not grounded, retry budget exhausted")
				return compose.END, nil
			}
			log.Printf("---DECISION: GENERATION IS NOT GROUNDED IN DOCUMENTS, RE-TRY---")
			state.AddTrace(NodeGenerate, "not grounded, regenerating")
			return NodeGenerate, nil
		}

		log.Printf("---DECISION: GENERATION IS GROUNDED IN DOCUMENTS---")
		log.Printf("---GRADE GENERATION vs QUESTION---")
		useful, err := answer.Useful(ctx, state.Question, state.Generation)
		if err != nil {
			return "", fmt.Errorf("usefulness check failed: %w", err)
		}

		if !useful {
			if state.Retries >= maxRetries {
				log.Printf("---DECISION: RETRY BUDGET EXHAUSTED, RETURNING BEST EFFORT GENERATION---")
				state.AddTrace(NodeGenerate, "not useful, retry budget exhausted")
				return compose.END, nil
			}
			log.Printf("---DECISION: GENERATION DOES NOT ADDRESS QUESTION---")
			state.AddTrace(NodeGenerate, "not useful, supplementing with web search")
			return NodeWebSearch, nil
		}

		log.Printf("---DECISION: GENERATION ADDRESSES QUESTION---")
		state.AddTrace(NodeGenerate, "accepted")
		return compose.END, nil
	}
}
