package retrieval

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
)

// Embedder produces a fixed-dimension embedding for a text
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OllamaEmbedder calls a local Ollama instance for embeddings
type OllamaEmbedder struct {
	client *api.Client
	model  string
	dim    int
}

// NewOllamaEmbedder connects to Ollama via OLLAMA_HOST, falling back
// to the default localhost endpoint
func NewOllamaEmbedder(model string, dim int) (*OllamaEmbedder, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	return &OllamaEmbedder{
		client: client,
		model:  model,
		dim:    dim,
	}, nil
}

// Embed returns the embedding vector for the text
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	resp, err := e.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Embedding) != e.dim {
		return nil, fmt.Errorf("expected embedding dim %d, got %d", e.dim, len(resp.Embedding))
	}

	out := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		out[i] = float32(v)
	}
	return out, nil
}
