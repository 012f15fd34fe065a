package chains

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"adaptive_rag/internal/config"
)

// NewChatModel creates the chat model backend selected by configuration
func NewChatModel(ctx context.Context, cfg config.ModelConfig, env config.Env) (model.BaseChatModel, error) {
	switch cfg.Provider {
	case "openai", "openrouter":
		maxTokens := cfg.MaxTokens
		temperature := float32(cfg.Temperature)
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      env.OpenRouterAPIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Name,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating openai chat model: %w", err)
		}
		return cm, nil

	case "ollama":
		cm, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ollama chat model: %w", err)
		}
		return cm, nil

	case "deepseek":
		dsCfg := &deepseek.ChatModelConfig{
			APIKey:    env.DeepSeekAPIKey,
			Model:     cfg.Name,
			MaxTokens: cfg.MaxTokens,
		}
		if cfg.BaseURL != "" {
			dsCfg.BaseURL = cfg.BaseURL
		}
		cm, err := deepseek.NewChatModel(ctx, dsCfg)
		if err != nil {
			return nil, fmt.Errorf("error creating deepseek chat model: %w", err)
		}
		return cm, nil

	case "ark":
		arkCfg := &ark.ChatModelConfig{
			APIKey: env.ArkAPIKey,
			Model:  cfg.Name,
		}
		if cfg.BaseURL != "" {
			arkCfg.BaseURL = cfg.BaseURL
		}
		cm, err := ark.NewChatModel(ctx, arkCfg)
		if err != nil {
			return nil, fmt.Errorf("error creating ark chat model: %w", err)
		}
		return cm, nil
	}

	return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
}

// newChain compiles a ChatTemplate -> ChatModel chain from the given
// message templates
func newChain(ctx context.Context, cm model.BaseChatModel, messages ...schema.MessagesTemplate) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := prompt.FromMessages(schema.FString, messages...)

	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(template).
		AppendChatModel(cm).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error compiling chain: %w", err)
	}

	return chain, nil
}
