package ai

import (
	"context"
	"fmt"
)

// embeddingBatchSize keeps batch requests under provider limits.
const embeddingBatchSize = 10

// ChatModel is a chat model with fixed model name and temperature.
type ChatModel interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// Embedder turns documents and queries into vectors. Providers may use a
// different model for each side.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// OpenAIChatModel binds an OpenAICompatibleClient to one ChatConfig.
type OpenAIChatModel struct {
	client *OpenAICompatibleClient
	cfg    ChatConfig
}

func NewOpenAIChatModel(client *OpenAICompatibleClient, cfg ChatConfig) *OpenAIChatModel {
	return &OpenAIChatModel{client: client, cfg: cfg}
}

func (m *OpenAIChatModel) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	return m.client.Complete(ctx, m.cfg, messages)
}

// OpenAIEmbedder embeds documents with one model and queries with another.
type OpenAIEmbedder struct {
	client   *OpenAICompatibleClient
	docCfg   EmbeddingConfig
	queryCfg EmbeddingConfig
}

func NewOpenAIEmbedder(client *OpenAICompatibleClient, docCfg, queryCfg EmbeddingConfig) *OpenAIEmbedder {
	if queryCfg.Model == "" {
		queryCfg = docCfg
	}
	return &OpenAIEmbedder{client: client, docCfg: docCfg, queryCfg: queryCfg}
}

func (e *OpenAIEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batched, err := e.client.EmbedBatch(ctx, e.docCfg, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embed documents %d-%d failed: %w", i, end, err)
		}
		out = append(out, batched...)
	}
	return out, nil
}

func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.client.Embed(ctx, e.queryCfg, text)
}

var (
	_ ChatModel = (*OpenAIChatModel)(nil)
	_ Embedder  = (*OpenAIEmbedder)(nil)
)
