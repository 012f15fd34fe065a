package ingestion

import (
	"context"
	"fmt"

	"adaptive_rag/internal/logger"
	"adaptive_rag/internal/retrieval"
)

// Ingestor builds the persisted similarity index from the corpus
type Ingestor struct {
	loader   *Loader
	chunker  *Chunker
	embedder retrieval.Embedder
	store    *retrieval.VectorStore
}

// NewIngestor wires the loading, chunking, embedding and indexing steps
func NewIngestor(loader *Loader, chunker *Chunker, embedder retrieval.Embedder, store *retrieval.VectorStore) *Ingestor {
	return &Ingestor{
		loader:   loader,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
	}
}

// Run loads every source, chunks the text, embeds each chunk and
// inserts it into the vector store. The index is rebuilt from scratch.
// Returns the number of passages indexed.
func (i *Ingestor) Run(ctx context.Context, sources []string) (int, error) {
	if len(sources) == 0 {
		return 0, fmt.Errorf("no corpus sources configured")
	}

	if err := i.store.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	if err := i.store.Truncate(ctx); err != nil {
		return 0, err
	}

	total := 0
	for _, source := range sources {
		text, err := i.loader.Load(ctx, source)
		if err != nil {
			return total, fmt.Errorf("failed to load %s: %w", source, err)
		}

		chunks := i.chunker.Chunk(text)
		for _, chunk := range chunks {
			emb, err := i.embedder.Embed(ctx, chunk)
			if err != nil {
				return total, fmt.Errorf("failed to embed chunk from %s: %w", source, err)
			}
			if err := i.store.Insert(ctx, source, chunk, emb); err != nil {
				return total, err
			}
			total++
		}

		logger.Info().
			Str("source", source).
			Int("chunks", len(chunks)).
			Msg("source indexed")
	}

	return total, nil
}
