package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"adaptive_rag/internal/chains"
	"adaptive_rag/internal/config"
	"adaptive_rag/internal/core"
	"adaptive_rag/internal/ingestion"
	"adaptive_rag/internal/logger"
	"adaptive_rag/internal/nodes"
	"adaptive_rag/internal/retrieval"
	"adaptive_rag/internal/storage"
)

func main() {
	// A missing .env is fine in deployed environments
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	ingest := flag.Bool("ingest", false, "build the vector index from the corpus sources")
	noCache := flag.Bool("no-cache", false, "skip the Redis answer cache")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.InitLogger(cfg.Log); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx := context.Background()

	embedder, err := retrieval.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.Dim)
	if err != nil {
		log.Fatalf("failed to create embedder: %v", err)
	}

	store, err := retrieval.NewVectorStore(ctx, cfg.Env.DatabaseURL, embedder,
		cfg.Retrieval.Table, cfg.Embedding.Dim, cfg.Retrieval.TopK)
	if err != nil {
		log.Fatalf("failed to open vector store: %v", err)
	}
	defer store.Close()

	if *ingest {
		runIngest(ctx, cfg, embedder, store)
		return
	}

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Println("usage: adaptive_rag [-config config.yaml] [-ingest] [-no-cache] \"your question\"")
		os.Exit(1)
	}

	runQuestion(ctx, cfg, store, question, *noCache)
}

// runIngest rebuilds the persisted similarity index from the corpus
func runIngest(ctx context.Context, cfg *config.Config, embedder retrieval.Embedder, store *retrieval.VectorStore) {
	loader := ingestion.NewLoader(30 * time.Second)

	chunker, err := ingestion.NewChunker(cfg.Corpus.Encoding, cfg.Corpus.ChunkSize, cfg.Corpus.ChunkOverlap)
	if err != nil {
		log.Fatalf("failed to create chunker: %v", err)
	}

	ingestor := ingestion.NewIngestor(loader, chunker, embedder, store)
	total, err := ingestor.Run(ctx, cfg.Corpus.Sources)
	if err != nil {
		log.Fatalf("ingestion failed: %v", err)
	}

	fmt.Printf("✅ Indexed %d passages from %d sources\n", total, len(cfg.Corpus.Sources))
}

// runQuestion answers a single question through the decision graph
func runQuestion(ctx context.Context, cfg *config.Config, store *retrieval.VectorStore, question string, noCache bool) {
	var runStore *storage.RunStore
	if cfg.Cache.Enabled && !noCache {
		rs, err := storage.NewRunStore(ctx, cfg.Env.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("run store unavailable, continuing without cache")
		} else {
			runStore = rs
			defer runStore.Close()

			if answer, ok, err := runStore.CachedAnswer(ctx, question); err == nil && ok {
				fmt.Printf("💬 Answer (cached):\n%s\n", answer)
				return
			}
		}
	}

	cm, err := chains.NewChatModel(ctx, cfg.Model, cfg.Env)
	if err != nil {
		log.Fatalf("failed to create chat model: %v", err)
	}

	router, err := chains.NewRouter(ctx, cm, cfg.Corpus.Topics)
	if err != nil {
		log.Fatalf("failed to create router: %v", err)
	}
	retrievalGrader, err := chains.NewRetrievalGrader(ctx, cm)
	if err != nil {
		log.Fatalf("failed to create retrieval grader: %v", err)
	}
	hallucinationGrader, err := chains.NewHallucinationGrader(ctx, cm)
	if err != nil {
		log.Fatalf("failed to create hallucination grader: %v", err)
	}
	answerGrader, err := chains.NewAnswerGrader(ctx, cm)
	if err != nil {
		log.Fatalf("failed to create answer grader: %v", err)
	}
	generator, err := chains.NewGenerator(ctx, cm)
	if err != nil {
		log.Fatalf("failed to create generator: %v", err)
	}

	searcher, err := retrieval.NewTavilyClient(cfg.Env.TavilyAPIKey, cfg.WebSearch.BaseURL,
		cfg.WebSearch.MaxResults, time.Duration(cfg.WebSearch.TimeoutSec)*time.Second)
	if err != nil {
		log.Fatalf("failed to create web search client: %v", err)
	}

	pipeline, err := core.NewPipeline(ctx,
		core.PipelineConfig{
			MaxGenerationRetries: cfg.Pipeline.MaxGenerationRetries,
			MaxRunSteps:          cfg.Pipeline.MaxRunSteps,
		},
		core.PipelineNodes{
			Retrieve:       nodes.NewRetrieveNode(store),
			GradeDocuments: nodes.NewGradeDocumentsNode(retrievalGrader),
			WebSearch:      nodes.NewWebSearchNode(searcher),
			Generate:       nodes.NewGenerateNode(generator),
		},
		core.PipelineGraders{
			Router:    router,
			Grounding: hallucinationGrader,
			Answer:    answerGrader,
		})
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}

	result, err := pipeline.Run(ctx, question)
	if err != nil {
		log.Fatalf("pipeline failed: %v", err)
	}

	fmt.Printf("\n💬 Answer:\n%s\n", result.Generation)
	fmt.Printf("\n📊 Trace (route=%s, retries=%d, %dms):\n", result.Route, result.Retries, result.DurationMS)
	for i, step := range result.Trace {
		fmt.Printf("  %d. [%s] %s\n", i+1, step.Node, step.Detail)
	}

	if runStore != nil {
		runID := fmt.Sprintf("%d", time.Now().UnixNano())
		traceTTL := time.Duration(cfg.Cache.TraceTTLSec) * time.Second
		answerTTL := time.Duration(cfg.Cache.AnswerTTLSec) * time.Second

		if err := runStore.SaveRun(ctx, runID, result, traceTTL); err != nil {
			logger.Warn().Err(err).Msg("failed to save run trace")
		}
		if err := runStore.CacheAnswer(ctx, question, result.Generation, answerTTL); err != nil {
			logger.Warn().Err(err).Msg("failed to cache answer")
		}
	}
}
