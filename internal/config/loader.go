package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration: tunables from config.yaml
// plus secrets and endpoints from the environment
type Config struct {
	Model     ModelConfig     `yaml:"model"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	WebSearch WebSearchConfig `yaml:"websearch"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Log       LogConfig       `yaml:"log"`
	Cache     CacheConfig     `yaml:"cache"`

	Env Env `yaml:"-"`
}

// ModelConfig selects and tunes the chat model backend
type ModelConfig struct {
	Provider    string  `yaml:"provider"` // openai, ollama, deepseek, ark
	Name        string  `yaml:"name"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// EmbeddingConfig tunes the Ollama embedding model
type EmbeddingConfig struct {
	Model string `yaml:"model"`
	Dim   int    `yaml:"dim"`
}

// RetrievalConfig tunes the similarity search
type RetrievalConfig struct {
	TopK  int    `yaml:"top_k"`
	Table string `yaml:"table"`
}

// PipelineConfig bounds the decision graph loops
type PipelineConfig struct {
	MaxGenerationRetries int `yaml:"max_generation_retries"`
	MaxRunSteps          int `yaml:"max_run_steps"`
}

// WebSearchConfig tunes the live web lookup
type WebSearchConfig struct {
	BaseURL    string `yaml:"base_url"`
	MaxResults int    `yaml:"max_results"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// CorpusConfig describes the ingested document corpus
type CorpusConfig struct {
	// Topics is a short description of what the vectorstore covers,
	// fed to the router prompt
	Topics       string   `yaml:"topics"`
	Sources      []string `yaml:"sources"`
	Encoding     string   `yaml:"encoding"`
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
}

// LogConfig configures the zerolog logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
	Output string `yaml:"output"` // stdout, stderr or a file path
}

// CacheConfig tunes the Redis-backed run store
type CacheConfig struct {
	Enabled      bool `yaml:"enabled"`
	AnswerTTLSec int  `yaml:"answer_ttl_sec"`
	TraceTTLSec  int  `yaml:"trace_ttl_sec"`
}

// Env holds secrets and endpoints read from the environment
type Env struct {
	OpenRouterAPIKey string `envconfig:"OPENROUTER_API_KEY"`
	DeepSeekAPIKey   string `envconfig:"DEEPSEEK_API_KEY"`
	ArkAPIKey        string `envconfig:"ARK_API_KEY"`
	TavilyAPIKey     string `envconfig:"TAVILY_API_KEY"`
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	RedisURL         string `envconfig:"REDIS_URL"`
}

// LoadConfig loads configuration from a YAML file and the environment
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	config.applyDefaults()

	if err := envconfig.Process("", &config.Env); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Model.Provider == "" {
		c.Model.Provider = "openai"
	}
	if c.Model.Name == "" {
		c.Model.Name = "openai/gpt-4o-mini"
	}
	if c.Model.BaseURL == "" && c.Model.Provider == "openai" {
		c.Model.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.Model.MaxTokens == 0 {
		c.Model.MaxTokens = 1024
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "nomic-embed-text"
	}
	if c.Embedding.Dim == 0 {
		c.Embedding.Dim = 768
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = 4
	}
	if c.Retrieval.Table == "" {
		c.Retrieval.Table = "passages"
	}
	if c.Pipeline.MaxGenerationRetries == 0 {
		c.Pipeline.MaxGenerationRetries = 3
	}
	if c.Pipeline.MaxRunSteps == 0 {
		c.Pipeline.MaxRunSteps = 25
	}
	if c.WebSearch.BaseURL == "" {
		c.WebSearch.BaseURL = "https://api.tavily.com"
	}
	if c.WebSearch.MaxResults == 0 {
		c.WebSearch.MaxResults = 3
	}
	if c.WebSearch.TimeoutSec == 0 {
		c.WebSearch.TimeoutSec = 15
	}
	if c.Corpus.Encoding == "" {
		c.Corpus.Encoding = "cl100k_base"
	}
	if c.Corpus.ChunkSize == 0 {
		c.Corpus.ChunkSize = 250
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Cache.AnswerTTLSec == 0 {
		c.Cache.AnswerTTLSec = 3600
	}
	if c.Cache.TraceTTLSec == 0 {
		c.Cache.TraceTTLSec = 24 * 3600
	}
}
