package app

import (
	"context"
	"fmt"

	"academy-qabot/internal/ai"
)

// Generator produces the final answer with a fixed chat model.
type Generator struct {
	chat ai.ChatModel
}

func NewGenerator(chat ai.ChatModel) *Generator {
	return &Generator{chat: chat}
}

// Generate returns the model's reply verbatim.
func (g *Generator) Generate(ctx context.Context, messages []ai.ChatMessage) (string, error) {
	answer, err := g.chat.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate answer failed: %w", err)
	}
	return answer, nil
}
