package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"academy-qabot/internal/ai"
	"academy-qabot/internal/model"
)

const routerSystemPrompt = `You are an expert router that determines the question category among "vacation", "timetable", or "legal".
Return a JSON object in the format:
{"category": "<vacation or timetable or legal>"}
No extra keys, no additional explanations.`

// RouteDecision is the router model's structured output.
type RouteDecision struct {
	Category string `json:"category"`
}

type Router struct {
	chat ai.ChatModel
}

func NewRouter(chat ai.ChatModel) *Router {
	return &Router{chat: chat}
}

// Route classifies question into a routable category with one model call.
// Output that cannot be used yields a *ClassificationError; a failed call
// is returned as is.
func (r *Router) Route(ctx context.Context, question string) (model.Category, error) {
	raw, err := r.chat.Complete(ctx, []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: routerSystemPrompt},
		{Role: ai.RoleUser, Content: question},
	})
	if err != nil {
		return "", fmt.Errorf("route question failed: %w", err)
	}

	var decision RouteDecision
	if err := decodeStructured(raw, routeSchema(), &decision); err != nil {
		return "", &ClassificationError{Raw: raw, Err: err}
	}
	category, ok := model.ParseCategory(decision.Category)
	if !ok || !category.Routable() {
		return "", &ClassificationError{Raw: raw, Err: fmt.Errorf("unexpected category %q", decision.Category)}
	}
	return category, nil
}

// RouteOrFallback maps a classification failure to the etc category.
func (r *Router) RouteOrFallback(ctx context.Context, question string) (model.Category, error) {
	category, err := r.Route(ctx, question)
	if err == nil {
		return category, nil
	}

	var classErr *ClassificationError
	if errors.As(err, &classErr) {
		log.Printf("route fallback: category=%s err=%v", model.CategoryEtc, classErr)
		return model.CategoryEtc, nil
	}
	return "", err
}
