package bootstrap

import (
	"context"
	"fmt"
	"time"

	"academy-qabot/internal/ai"
	"academy-qabot/internal/config"
)

type models struct {
	chat      ai.ChatModel
	router    ai.ChatModel
	extractor ai.ChatModel
	embedder  ai.Embedder
	dimension int
}

func newModels(ctx context.Context, cfg *config.Config) (*models, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		return newGeminiModels(ctx, cfg)
	case "openai", "":
		return newOpenAIModels(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}

func newOpenAIModels(cfg *config.Config) *models {
	llm := cfg.LLM
	client := ai.NewOpenAICompatibleClient(time.Duration(llm.TimeoutSeconds) * time.Second)

	extractBaseURL, extractAPIKey := llm.ExtractBaseURL, llm.ExtractAPIKey
	if extractBaseURL == "" {
		extractBaseURL = llm.BaseURL
	}
	if extractAPIKey == "" {
		extractAPIKey = llm.APIKey
	}

	return &models{
		chat: ai.NewOpenAIChatModel(client, ai.ChatConfig{
			BaseURL:     llm.BaseURL,
			APIKey:      llm.APIKey,
			Model:       llm.ChatModel,
			Temperature: llm.ChatTemperature,
		}),
		router: ai.NewOpenAIChatModel(client, ai.ChatConfig{
			BaseURL:     llm.BaseURL,
			APIKey:      llm.APIKey,
			Model:       llm.RouterModel,
			Temperature: llm.RouterTemperature,
			JSONMode:    llm.JSONMode,
		}),
		extractor: ai.NewOpenAIChatModel(client, ai.ChatConfig{
			BaseURL:     extractBaseURL,
			APIKey:      extractAPIKey,
			Model:       llm.ExtractModel,
			Temperature: llm.ExtractTemperature,
			JSONMode:    llm.JSONMode,
		}),
		embedder: ai.NewOpenAIEmbedder(client,
			ai.EmbeddingConfig{BaseURL: llm.BaseURL, APIKey: llm.APIKey, Model: llm.EmbeddingModel},
			ai.EmbeddingConfig{BaseURL: llm.BaseURL, APIKey: llm.APIKey, Model: llm.QueryEmbeddingModel},
		),
		dimension: cfg.VectorStore.Dimension,
	}
}

func newGeminiModels(ctx context.Context, cfg *config.Config) (*models, error) {
	g := cfg.Gemini
	client, err := ai.NewGeminiClient(ctx, ai.GeminiConfig{
		APIKey:         g.APIKey,
		EmbeddingModel: g.EmbeddingModel,
		EmbeddingDim:   g.EmbeddingDim,
	})
	if err != nil {
		return nil, err
	}
	return &models{
		chat:      client.ChatModel(g.ChatModel, cfg.LLM.ChatTemperature, false),
		router:    client.ChatModel(g.RouterModel, cfg.LLM.RouterTemperature, cfg.LLM.JSONMode),
		extractor: client.ChatModel(g.ExtractModel, cfg.LLM.ExtractTemperature, cfg.LLM.JSONMode),
		embedder:  client,
		dimension: g.EmbeddingDim,
	}, nil
}
