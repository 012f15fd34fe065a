package retrieval

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"adaptive_rag/internal/logger"
)

// VectorStore is a pgvector-backed similarity index. It implements the
// eino retriever component interface so the graph can consume it
// directly.
type VectorStore struct {
	pool     *pgxpool.Pool
	embedder Embedder
	table    string
	dim      int
	topK     int
}

// The table name is interpolated into DDL and queries, so it must be a
// plain SQL identifier
var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// NewVectorStore connects to Postgres and wraps the passages table
func NewVectorStore(ctx context.Context, databaseURL string, embedder Embedder, table string, dim, topK int) (*VectorStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &VectorStore{
		pool:     pool,
		embedder: embedder,
		table:    table,
		dim:      dim,
		topK:     topK,
	}, nil
}

// EnsureSchema creates the pgvector extension and the passages table
func (s *VectorStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id bigserial PRIMARY KEY,
		source text NOT NULL,
		content text NOT NULL,
		embedding vector(%d) NOT NULL
	)`, s.table, s.dim)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}

	return nil
}

// Truncate clears the index before a re-ingest
func (s *VectorStore) Truncate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, fmt.Sprintf("TRUNCATE %s", s.table)); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", s.table, err)
	}
	return nil
}

// Insert adds one passage with its embedding
func (s *VectorStore) Insert(ctx context.Context, source, content string, embedding []float32) error {
	query := fmt.Sprintf("INSERT INTO %s (source, content, embedding) VALUES ($1, $2, $3)", s.table)
	if _, err := s.pool.Exec(ctx, query, source, content, pgvector.NewVector(embedding)); err != nil {
		return fmt.Errorf("failed to insert passage: %w", err)
	}
	return nil
}

// Retrieve returns the top-k most similar passages for the query
func (s *VectorStore) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	options := retriever.GetCommonOptions(&retriever.Options{TopK: &s.topK}, opts...)

	topK := s.topK
	if options.TopK != nil {
		topK = *options.TopK
	}

	queryEmb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	sql := fmt.Sprintf(
		"SELECT id, source, content FROM %s ORDER BY embedding <-> $1 LIMIT $2",
		s.table)
	rows, err := s.pool.Query(ctx, sql, pgvector.NewVector(queryEmb), topK)
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}
	defer rows.Close()

	var docs []*schema.Document
	for rows.Next() {
		var id int64
		var source, content string
		if err := rows.Scan(&id, &source, &content); err != nil {
			return nil, fmt.Errorf("failed to scan passage row: %w", err)
		}
		docs = append(docs, &schema.Document{
			ID:      strconv.FormatInt(id, 10),
			Content: content,
			MetaData: map[string]any{
				"source": source,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read passage rows: %w", err)
	}

	logger.Debug().
		Int("top_k", topK).
		Int("returned", len(docs)).
		Msg("similarity search completed")

	return docs, nil
}

// Count returns the number of indexed passages
func (s *VectorStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", s.table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count passages: %w", err)
	}
	return count, nil
}

// Close releases the connection pool
func (s *VectorStore) Close() {
	s.pool.Close()
}
