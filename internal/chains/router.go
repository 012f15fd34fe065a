package chains

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"adaptive_rag/internal/core"
)

const routerSystemPrompt = `You are an expert at routing a user question to a vectorstore or websearch.
The vectorstore contains documents related to {topics}.
Use the vectorstore for questions on these topics. For all else, use websearch.
Return a JSON object with a single key "datasource" whose value is either "vectorstore" or "websearch", for example {{"datasource": "vectorstore"}}. Do not add any other text.`

type routeQuery struct {
	Datasource string `json:"datasource"`
}

// Router classifies a question into {vectorstore, websearch}
type Router struct {
	chain  compose.Runnable[map[string]any, *schema.Message]
	topics string
}

// NewRouter creates the routing chain. topics describes what the
// vectorstore covers so the prompt can steer domain questions to it.
func NewRouter(ctx context.Context, cm model.BaseChatModel, topics string) (*Router, error) {
	chain, err := newChain(ctx, cm,
		schema.SystemMessage(routerSystemPrompt),
		schema.UserMessage("{question}"),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating router chain: %w", err)
	}

	return &Router{chain: chain, topics: topics}, nil
}

// Route returns core.RouteVectorstore or core.RouteWebSearch for the
// question. An unrecognized datasource falls back to websearch, since
// the open-web route can serve any question.
func (r *Router) Route(ctx context.Context, question string) (string, error) {
	out, err := r.chain.Invoke(ctx, map[string]any{
		"topics":   r.topics,
		"question": question,
	})
	if err != nil {
		return "", fmt.Errorf("router invocation failed: %w", err)
	}

	raw, err := extractJSON(out.Content)
	if err != nil {
		return "", err
	}

	var query routeQuery
	if err := sonic.Unmarshal([]byte(raw), &query); err != nil {
		return "", fmt.Errorf("failed to parse route query: %w", err)
	}

	if strings.ToLower(strings.TrimSpace(query.Datasource)) == core.RouteVectorstore {
		return core.RouteVectorstore, nil
	}
	return core.RouteWebSearch, nil
}
