package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"academy-qabot/internal/logging"
)

const (
	geminiTaskDocument = "RETRIEVAL_DOCUMENT"
	geminiTaskQuery    = "RETRIEVAL_QUERY"
)

type GeminiConfig struct {
	APIKey         string
	EmbeddingModel string
	EmbeddingDim   int
}

// GeminiClient wraps the genai SDK for both chat and embedding calls.
type GeminiClient struct {
	client *genai.Client
	cfg    GeminiConfig
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY or GOOGLE_API_KEY")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client failed: %w", err)
	}
	return &GeminiClient{client: c, cfg: cfg}, nil
}

// ChatModel returns a ChatModel bound to model and temperature.
func (g *GeminiClient) ChatModel(model string, temperature float64, jsonMode bool) ChatModel {
	return &geminiChatModel{client: g.client, model: model, temperature: temperature, jsonMode: jsonMode}
}

type geminiChatModel struct {
	client      *genai.Client
	model       string
	temperature float64
	jsonMode    bool
}

// Complete sends system messages as the system instruction and the rest as
// conversation turns.
func (m *geminiChatModel) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	system, contents := splitGeminiMessages(messages)
	if len(contents) == 0 {
		return "", fmt.Errorf("gemini request has no user content")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(m.temperature)),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if m.jsonMode {
		cfg.ResponseMIMEType = "application/json"
	}

	logging.LogRequest("request", "gemini", m.model, messages)
	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("empty response from gemini")
	}
	text := resp.Text()
	logging.LogRequest("response", "gemini", m.model, text)
	return text, nil
}

func splitGeminiMessages(messages []ChatMessage) (string, []*genai.Content) {
	var system []string
	var contents []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, msg.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}

func (g *GeminiClient) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := g.embed(ctx, texts[i:end], geminiTaskDocument)
		if err != nil {
			return nil, fmt.Errorf("embed documents %d-%d failed: %w", i, end, err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (g *GeminiClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := g.embed(ctx, []string{text}, geminiTaskQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (g *GeminiClient) embed(ctx context.Context, texts []string, task string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		clean := strings.TrimSpace(t)
		if clean == "" {
			return nil, fmt.Errorf("empty text for embedding")
		}
		contents = append(contents, genai.NewContentFromText(clean, genai.RoleUser))
	}

	cfg := &genai.EmbedContentConfig{TaskType: task}
	if g.cfg.EmbeddingDim > 0 {
		cfg.OutputDimensionality = genai.Ptr(int32(g.cfg.EmbeddingDim))
	}
	resp, err := g.client.Models.EmbedContent(ctx, g.cfg.EmbeddingModel, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embed failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vec := make([]float32, len(emb.Values))
		for j, v := range emb.Values {
			vec[j] = float32(v)
		}
		out[i] = vec
	}
	return out, nil
}

var _ Embedder = (*GeminiClient)(nil)
