package nodes

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/schema"

	"adaptive_rag/internal/core"
	"adaptive_rag/internal/retrieval"
)

// WebSearcher performs a live web lookup
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]retrieval.SearchResult, error)
}

// WebSearchNode backfills context with live web results, appended to
// the documents as a single joined passage
type WebSearchNode struct {
	searcher WebSearcher
}

// NewWebSearchNode creates a web search node
func NewWebSearchNode(searcher WebSearcher) *WebSearchNode {
	return &WebSearchNode{searcher: searcher}
}

// Execute appends web results to state.Documents and clears the
// supplement flag
func (n *WebSearchNode) Execute(ctx context.Context, state *core.GraphState) (*core.GraphState, error) {
	log.Printf("---WEB SEARCH---")

	results, err := n.searcher.Search(ctx, state.Question)
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	state.WebSearch = false

	if len(results) == 0 {
		state.AddTrace(core.NodeWebSearch, "no web results")
		return state, nil
	}

	contents := make([]string, 0, len(results))
	urls := make([]string, 0, len(results))
	for _, r := range results {
		contents = append(contents, r.Content)
		urls = append(urls, r.URL)
	}

	state.Documents = append(state.Documents, &schema.Document{
		Content: strings.Join(contents, "\n"),
		MetaData: map[string]any{
			"source": "websearch",
			"urls":   urls,
		},
	})
	state.AddTrace(core.NodeWebSearch, fmt.Sprintf("added %d web results", len(results)))

	return state, nil
}

// Name returns the node name
func (n *WebSearchNode) Name() string {
	return core.NodeWebSearch
}
