package retrieval

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"adaptive_rag/internal/logger"
)

// SearchResult is one hit from the web search provider
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// TavilyClient performs live web lookups against the Tavily search API
type TavilyClient struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []SearchResult `json:"results"`
}

// NewTavilyClient creates a Tavily search client
func NewTavilyClient(apiKey, baseURL string, maxResults int, timeout time.Duration) (*TavilyClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY is required")
	}

	return &TavilyClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Search runs a web query and returns up to maxResults hits
func (c *TavilyClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	body, err := sonic.Marshal(tavilyRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: c.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider error (status %d): %s", resp.StatusCode, string(data))
	}

	var parsed tavilyResponse
	if err := sonic.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	logger.Debug().
		Str("query", query).
		Int("results", len(parsed.Results)).
		Msg("web search completed")

	return parsed.Results, nil
}
